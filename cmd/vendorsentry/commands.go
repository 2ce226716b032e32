// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/VendorSentry/pkg/logging"
	"github.com/AleutianAI/VendorSentry/services/gateway"
	"github.com/AleutianAI/VendorSentry/services/ingest"
	"github.com/AleutianAI/VendorSentry/services/investigation"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/investigation/storage"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// FileConfig mirrors the optional config.yaml layout.
type FileConfig struct {
	Port          int    `yaml:"port"`
	StorageDir    string `yaml:"storage_dir"`
	Retention     int    `yaml:"retention"`
	OracleEnabled bool   `yaml:"oracle_enabled"`
	OracleBaseURL string `yaml:"oracle_base_url"`
	OracleModel   string `yaml:"oracle_model"`
	OTelEndpoint  string `yaml:"otel_endpoint"`
	LogDir        string `yaml:"log_dir"`
}

var (
	rootCmd = &cobra.Command{
		Use:   "vendorsentry",
		Short: "A vendor onboarding fraud and compliance risk service",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the investigation HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}

	investigateCmd = &cobra.Command{
		Use:   "investigate [submission.json]",
		Short: "Run one investigation and print the report as JSON",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runInvestigate(args)
		},
	}

	parseCmd = &cobra.Command{
		Use:   "parse [document.txt]",
		Short: "Extract submission fields from a raw vendor document",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runParse(args)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, investigateCmd, parseCmd)
}

func runServe() {
	logger := logging.New(logging.Config{
		Service: "gateway",
		Level:   logging.ParseLevel(os.Getenv("VENDORSENTRY_LOG_LEVEL")),
		LogDir:  config.LogDir,
		JSON:    true,
	})
	defer logger.Close()
	logger.Install()

	cfg := gateway.Config{
		Port:          getEnvInt("VENDORSENTRY_PORT", config.Port),
		StorageDir:    getEnvString("VENDORSENTRY_STORAGE_DIR", config.StorageDir),
		Retention:     config.Retention,
		OracleEnabled: getEnvBool("VENDORSENTRY_ORACLE_ENABLED", config.OracleEnabled),
		OracleBaseURL: config.OracleBaseURL,
		OracleModel:   config.OracleModel,
		OTelEndpoint:  getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", config.OTelEndpoint),
	}

	logger.Info("Starting vendorsentry gateway",
		"port", cfg.Port,
		"storage_dir", cfg.StorageDir,
		"oracle_enabled", cfg.OracleEnabled)

	svc, err := gateway.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}
	if err := svc.Run(); err != nil {
		log.Fatalf("Gateway error: %v", err)
	}
}

func runInvestigate(args []string) {
	// Keep checker warnings off stderr so the JSON report is the only
	// output, unless a log directory was configured.
	logger := logging.New(logging.Config{
		Service: "cli",
		Level:   logging.ParseLevel(os.Getenv("VENDORSENTRY_LOG_LEVEL")),
		LogDir:  config.LogDir,
		Quiet:   true,
	})
	defer logger.Close()
	logger.Install()

	payload, err := readInput(args)
	if err != nil {
		log.Fatalf("Failed to read submission: %v", err)
	}

	var sub datatypes.Submission
	if err := json.Unmarshal(payload, &sub); err != nil {
		log.Fatalf("Failed to parse submission JSON: %v", err)
	}

	var orc oracle.Oracle
	if getEnvBool("VENDORSENTRY_ORACLE_ENABLED", config.OracleEnabled) {
		client, err := oracle.NewClient(oracle.ClientConfig{
			BaseURL: config.OracleBaseURL,
			Model:   config.OracleModel,
		})
		if err != nil {
			log.Printf("Oracle unavailable, continuing rule-based: %v", err)
		} else {
			orc = client
		}
	}

	coordinator, err := investigation.NewCoordinator(bus.New(), storage.NewMemoryStore(), orc)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	inv, err := coordinator.Investigate(context.Background(), sub)
	if err != nil {
		log.Fatalf("Investigation failed: %v", err)
	}

	printJSON(inv)
}

func runParse(args []string) {
	payload, err := readInput(args)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	parsed := ingest.ParseVendorDocument(string(payload))
	printJSON(map[string]any{
		"fields":     parsed,
		"submission": parsed.ToSubmission(),
	})
}

// readInput reads from the named file, or stdin when no argument is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(out))
}

// getEnvString returns the environment variable value, the config value,
// or "" in that order.
func getEnvString(key, configValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return configValue
}

// getEnvInt returns the environment variable as int or the config value.
func getEnvInt(key string, configValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return configValue
}

// getEnvBool returns the environment variable as bool or the config value.
func getEnvBool(key string, configValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return configValue
}
