// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package investigation runs the vendor onboarding pipeline: intake gate,
// four parallel specialist checkers, risk synthesis, and persistence.
package investigation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/VendorSentry/services/checks"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/investigation/storage"
	"github.com/AleutianAI/VendorSentry/services/oracle"
	"github.com/AleutianAI/VendorSentry/services/synthesis"
)

// AgentStatus is the live view of one checker within an investigation,
// derived from the activity records it has emitted.
type AgentStatus struct {
	Agent  string `json:"agent"`
	Status string `json:"status"` // pending, running, complete, error
	Score  *int   `json:"score,omitempty"`
}

// Coordinator owns one investigation pipeline: it gates on intake, fans out
// to the specialist checkers, synthesizes the verdict and persists the
// assembled record.
type Coordinator struct {
	bus   *bus.Bus
	store storage.Store

	intake      checks.Checker
	specialists []specialist
	synthesizer *synthesis.Synthesizer
}

// specialist binds a checker to the CheckSet slot its result lands in.
type specialist struct {
	checker checks.Checker
	assign  func(*datatypes.CheckSet, datatypes.CheckResult)
}

// NewCoordinator wires the full pipeline. orc may be nil, which disables AI
// enrichment everywhere while keeping every rule-based path intact.
func NewCoordinator(b *bus.Bus, store storage.Store, orc oracle.Oracle) (*Coordinator, error) {
	privacy, err := checks.NewPrivacyAgent(b)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize privacy checker: %w", err)
	}

	digital := checks.NewDigitalAgent(b, orc, nil)
	financial := checks.NewFinancialAgent(b, orc)
	compliance := checks.NewComplianceAgent(b, orc)

	return &Coordinator{
		bus:    b,
		store:  store,
		intake: checks.NewIntakeAgent(b),
		specialists: []specialist{
			{digital, func(cs *datatypes.CheckSet, r datatypes.CheckResult) { cs.Digital = r }},
			{privacy, func(cs *datatypes.CheckSet, r datatypes.CheckResult) { cs.Privacy = r }},
			{financial, func(cs *datatypes.CheckSet, r datatypes.CheckResult) { cs.Financial = r }},
			{compliance, func(cs *datatypes.CheckSet, r datatypes.CheckResult) { cs.Compliance = r }},
		},
		synthesizer: synthesis.New(b, orc),
	}, nil
}

// Investigate runs the full pipeline for one submission. The returned error
// is reserved for infrastructure failures; a submission that fails intake
// still yields an Investigation carrying the conservative default verdict.
func (c *Coordinator) Investigate(ctx context.Context, sub datatypes.Submission) (datatypes.Investigation, error) {
	id := "inv-" + uuid.NewString()
	started := time.Now()

	slog.Info("investigation started", "investigation_id", id, "company", sub.CompanyName)
	c.bus.Activity(datatypes.AgentSystem, "Investigation started", id,
		map[string]any{"company": sub.CompanyName})

	// Intake runs unguarded: a broken intake is an aborted investigation,
	// not a degraded one.
	c.bus.Activity(c.intake.Name(), "Starting analysis...", id,
		map[string]any{"status": "running"})
	intakeResult, err := c.intake.Check(ctx, sub, id)
	if err != nil {
		slog.Error("intake failed, aborting investigation",
			"investigation_id", id, "error", err)
		c.bus.Activity(c.intake.Name(), "Analysis failed", id,
			map[string]any{"status": "error"})
		inv := c.abortedInvestigation(id, started, sub, err)
		c.persist(ctx, inv)
		return inv, nil
	}
	c.bus.Activity(c.intake.Name(), "Analysis complete", id,
		map[string]any{"status": "complete", "score": intakeResult.Score})

	var results datatypes.CheckSet
	results.Intake = intakeResult

	g, gctx := errgroup.WithContext(ctx)
	for _, sp := range c.specialists {
		g.Go(func() error {
			sp.assign(&results, checks.RunSafely(gctx, sp.checker, sub, id, c.bus))
			return nil
		})
	}
	g.Wait() //nolint:errcheck // goroutines never return errors

	report := c.synthesizer.Synthesize(ctx, sub, results, id)

	inv := datatypes.Investigation{
		ID:         id,
		Timestamp:  started,
		Duration:   time.Since(started),
		Submission: sub,
		Results:    results,
		RiskReport: report,
		Messages:   c.bus.Records(id),
	}
	c.persist(ctx, inv)

	slog.Info("investigation complete",
		"investigation_id", id,
		"risk_score", report.RiskScore,
		"recommendation", report.Recommendation,
		"duration", inv.Duration)
	return inv, nil
}

// Status derives per-agent progress for a running or finished investigation
// from the activity records it has produced so far.
func (c *Coordinator) Status(investigationID string) []AgentStatus {
	agents := []string{
		datatypes.AgentIntake,
		datatypes.AgentDigital,
		datatypes.AgentPrivacy,
		datatypes.AgentFinancial,
		datatypes.AgentCompliance,
		datatypes.AgentRisk,
	}

	statuses := make([]AgentStatus, len(agents))
	for i, agent := range agents {
		statuses[i] = AgentStatus{Agent: agent, Status: "pending"}
	}

	for _, rec := range c.bus.RecordsOfKind(investigationID, datatypes.RecordActivity) {
		for i := range statuses {
			if statuses[i].Agent != rec.Agent {
				continue
			}
			if state, ok := rec.Metadata["status"].(string); ok {
				statuses[i].Status = state
			}
			if raw, ok := rec.Metadata["score"]; ok {
				if score, ok := toInt(raw); ok {
					statuses[i].Score = &score
				}
			}
		}
	}
	return statuses
}

// Store exposes the persistence layer for read-side handlers.
func (c *Coordinator) Store() storage.Store { return c.store }

// Bus exposes the side channel for live subscribers.
func (c *Coordinator) Bus() *bus.Bus { return c.bus }

// abortedInvestigation carries the conservative default verdict used when
// the pipeline could not run.
func (c *Coordinator) abortedInvestigation(id string, started time.Time, sub datatypes.Submission, cause error) datatypes.Investigation {
	return datatypes.Investigation{
		ID:         id,
		Timestamp:  started,
		Duration:   time.Since(started),
		Submission: sub,
		RiskReport: datatypes.RiskReport{
			RiskScore:      75,
			RiskLevel:      datatypes.RiskHigh,
			Recommendation: datatypes.RecommendReject,
			Summary:        "Investigation failed - manual review required",
			Confidence:     datatypes.ConfidenceLow,
		},
		Messages: c.bus.Records(id),
		Error:    cause.Error(),
	}
}

// persist saves the record; storage failures are logged, never surfaced, so
// the caller still receives the finished investigation.
func (c *Coordinator) persist(ctx context.Context, inv datatypes.Investigation) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, inv); err != nil {
		slog.Error("failed to persist investigation",
			"investigation_id", inv.ID, "error", err)
	}
}

// toInt normalizes metadata score values, which arrive as int in-process
// and float64 after a JSON round trip.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
