// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway provides the HTTP surface of the vendor investigation
// service.
//
// This package contains the main Service type that coordinates all
// components: HTTP routing, the investigation coordinator, persistence,
// the oracle client, and observability infrastructure.
//
// # Usage
//
//	cfg := gateway.Config{Port: 12310}
//	svc, err := gateway.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/VendorSentry/services/gateway/observability"
	"github.com/AleutianAI/VendorSentry/services/gateway/routes"
	"github.com/AleutianAI/VendorSentry/services/investigation"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/storage"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// Service defines the contract for the gateway service.
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing. Callers must
	// not modify routes after construction.
	Router() *gin.Engine
}

// Config holds gateway configuration options. All fields are optional with
// defaults applied by New().
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// StorageDir is the on-disk investigation store location.
	// Default: "./data/investigations". Ignored when StorageInMemory is set.
	StorageDir string

	// StorageInMemory keeps the investigation store in RAM.
	StorageInMemory bool

	// Retention caps how many investigations are kept. Default: 50.
	Retention int

	// OracleEnabled turns AI enrichment on. Requires an API key via
	// ORACLE_API_KEY or /run/secrets/oracle_api_key.
	OracleEnabled bool

	// OracleBaseURL overrides the oracle endpoint. Default: NVIDIA NIM.
	OracleBaseURL string

	// OracleModel overrides the oracle model.
	OracleModel string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "vendorsentry-otel-collector:4317"
	OTelEndpoint string

	// DisableMetrics turns off the Prometheus metrics endpoint. Metrics are
	// on by default.
	DisableMetrics bool

	// GinMode sets the Gin framework mode ("debug", "release", "test").
	GinMode string
}

// service implements Service for production use. Thread-safe after
// construction; all fields are read-only after New() returns.
type service struct {
	config        Config
	router        *gin.Engine
	bus           *bus.Bus
	store         storage.Store
	coordinator   *investigation.Coordinator
	oracleClient  oracle.Oracle
	tracerCleanup func(context.Context)
}

// New creates a gateway Service with the given configuration:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Opens the investigation store
//  5. Creates the oracle client if enabled
//  6. Wires the investigation coordinator
//  7. Sets up HTTP routes
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
		bus:    bus.New(),
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	if !s.config.DisableMetrics {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for investigation pipeline")
	}

	if err := s.initStore(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize investigation store: %w", err)
	}

	s.initOracle()

	s.coordinator, err = investigation.NewCoordinator(s.bus, s.store, s.oracleClient)
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize coordinator: %w", err)
	}

	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting gateway server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./data/investigations"
	}
	if cfg.Retention == 0 {
		cfg.Retention = storage.DefaultRetention
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "vendorsentry-otel-collector:4317"
	}

	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing via an OTLP
// gRPC exporter. Uses an insecure connection, appropriate for internal
// networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("vendorsentry-gateway")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initStore opens the persistence layer.
func (s *service) initStore() error {
	store, err := storage.NewBadgerStore(storage.BadgerConfig{
		Dir:       s.config.StorageDir,
		InMemory:  s.config.StorageInMemory,
		Retention: s.config.Retention,
	})
	if err != nil {
		return err
	}
	s.store = store

	slog.Info("Investigation store initialized",
		"dir", s.config.StorageDir,
		"in_memory", s.config.StorageInMemory,
		"retention", s.config.Retention)
	return nil
}

// initOracle creates the oracle client when enrichment is enabled. A
// missing API key downgrades to rule-based operation rather than failing
// startup.
func (s *service) initOracle() {
	if !s.config.OracleEnabled {
		slog.Info("Oracle enrichment disabled, running rule-based only")
		return
	}

	client, err := oracle.NewClient(oracle.ClientConfig{
		BaseURL: s.config.OracleBaseURL,
		Model:   s.config.OracleModel,
	})
	if err != nil {
		slog.Warn("Oracle initialization failed, running rule-based only",
			"error", err)
		return
	}

	s.oracleClient = client
	slog.Info("Oracle client initialized", "model", s.config.OracleModel)
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("vendorsentry-gateway"))

	routes.SetupRoutes(s.router, s.coordinator, s.store, s.bus, s.oracleClient)
}

// cleanup releases all resources held by the service. Called when Run()
// exits or on initialization failure.
func (s *service) cleanup() {
	if closer, ok := s.store.(*storage.BadgerStore); ok && closer != nil {
		if err := closer.Close(); err != nil {
			slog.Warn("investigation store close error", "error", err)
		}
	}

	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// Compile-time interface compliance.
var _ Service = (*service)(nil)
