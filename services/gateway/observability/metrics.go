// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the investigation
// gateway.
//
// # Description
//
// Metrics cover the investigation pipeline end to end:
//   - Investigation counters by recommendation
//   - Pipeline duration histograms
//   - Per-checker score distributions
//   - Oracle availability counters
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "vendorsentry"

// Subsystem for pipeline metrics
const pipelineSubsystem = "pipeline"

// PipelineMetrics holds all Prometheus metrics for investigation runs.
//
// # Description
//
// Provides counters and histograms for monitoring pipeline throughput,
// verdict distribution, and checker behavior. Initialize once at startup
// via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type PipelineMetrics struct {
	// InvestigationsTotal counts finished investigations.
	// Labels: recommendation (approve, review, reject), status (ok, error)
	InvestigationsTotal *prometheus.CounterVec

	// InvestigationDurationSeconds measures end-to-end pipeline duration.
	InvestigationDurationSeconds prometheus.Histogram

	// CheckerScore observes each checker's rule-based score per run.
	// Labels: agent
	CheckerScore *prometheus.HistogramVec

	// RiskScore observes the final synthesized risk score.
	RiskScore prometheus.Histogram

	// OracleCallsTotal counts oracle advisory calls.
	// Labels: status (ok, error)
	OracleCallsTotal *prometheus.CounterVec

	// DocumentsParsedTotal counts document parse requests.
	DocumentsParsedTotal prometheus.Counter
}

// DefaultMetrics is the singleton instance of PipelineMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *PipelineMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *PipelineMetrics {
	DefaultMetrics = &PipelineMetrics{
		InvestigationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "investigations_total",
				Help:      "Total finished investigations by recommendation and status",
			},
			[]string{"recommendation", "status"},
		),

		InvestigationDurationSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "investigation_duration_seconds",
				Help:      "End-to-end investigation duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),

		CheckerScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "checker_score",
				Help:      "Per-checker score distribution (100 is clean)",
				Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"agent"},
		),

		RiskScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "risk_score",
				Help:      "Final synthesized risk score distribution (100 is most risky)",
				Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),

		OracleCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "oracle_calls_total",
				Help:      "Total oracle advisory calls by status",
			},
			[]string{"status"},
		),

		DocumentsParsedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "documents_parsed_total",
				Help:      "Total vendor documents parsed",
			},
		),
	}
	return DefaultMetrics
}

// RecordInvestigation records one finished investigation.
func (m *PipelineMetrics) RecordInvestigation(recommendation string, failed bool, durationSeconds float64, riskScore int) {
	status := "ok"
	if failed {
		status = "error"
	}
	m.InvestigationsTotal.WithLabelValues(recommendation, status).Inc()
	m.InvestigationDurationSeconds.Observe(durationSeconds)
	m.RiskScore.Observe(float64(riskScore))
}

// RecordCheckerScore records one checker's score for a run.
func (m *PipelineMetrics) RecordCheckerScore(agent string, score int) {
	m.CheckerScore.WithLabelValues(agent).Observe(float64(score))
}

// RecordDocumentParsed counts one document parse request.
func (m *PipelineMetrics) RecordDocumentParsed() {
	m.DocumentsParsedTotal.Inc()
}
