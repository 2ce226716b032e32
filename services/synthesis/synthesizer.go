// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package synthesis turns the five checker results into one weighted risk
// score, a level, a recommendation and an executive summary.
//
// The synthesizer is deterministic over its inputs: the oracle narrative
// step can add prose but never moves the score.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// Checker weights. Risk contribution is (100 - score) * weight, so a
// perfect sweep yields 0 and a total failure yields 100 before adjustments.
const (
	weightIntake     = 0.15
	weightDigital    = 0.20
	weightPrivacy    = 0.20
	weightFinancial  = 0.25
	weightCompliance = 0.20
)

// Risk level and recommendation boundaries. A score of exactly 35 is still
// low risk; exactly 70 is still medium.
const (
	lowRiskMax    = 35
	mediumRiskMax = 70
)

// Synthesizer aggregates checker results into a RiskReport.
type Synthesizer struct {
	bus    *bus.Bus
	oracle oracle.Oracle // nil disables the narrative step
}

// New builds a Synthesizer. orc may be nil.
func New(b *bus.Bus, orc oracle.Oracle) *Synthesizer {
	return &Synthesizer{bus: b, oracle: orc}
}

// Classify maps a final risk score to its level and recommendation.
func Classify(score int) (datatypes.RiskLevel, datatypes.Recommendation) {
	switch {
	case score <= lowRiskMax:
		return datatypes.RiskLow, datatypes.RecommendApprove
	case score <= mediumRiskMax:
		return datatypes.RiskMedium, datatypes.RecommendReview
	default:
		return datatypes.RiskHigh, datatypes.RecommendReject
	}
}

// Synthesize computes the weighted risk score, applies cross-checker
// adjustments, and assembles the report.
func (s *Synthesizer) Synthesize(ctx context.Context, sub datatypes.Submission, checks datatypes.CheckSet, investigationID string) datatypes.RiskReport {
	s.bus.Activity(datatypes.AgentRisk, "Synthesizing risk assessment...", investigationID,
		map[string]any{"status": "running"})

	raw := float64(100-checks.Intake.Score)*weightIntake +
		float64(100-checks.Digital.Score)*weightDigital +
		float64(100-checks.Privacy.Score)*weightPrivacy +
		float64(100-checks.Financial.Score)*weightFinancial +
		float64(100-checks.Compliance.Score)*weightCompliance

	var findings, criticalIssues, warnings, contradictions []string

	if d := checks.Intake.Intake; d != nil && len(d.MissingFields) > 3 {
		raw += 10
		criticalIssues = append(criticalIssues, "Missing multiple required fields")
	}
	if d := checks.Financial.Financial; d != nil && d.TaxIDIssue {
		raw += 15
		criticalIssues = append(criticalIssues, "Tax ID validation failed")
		s.bus.Finding(datatypes.AgentRisk, "Tax ID validation failed",
			datatypes.FindingCritical, investigationID)
	}
	if d := checks.Privacy.Privacy; d != nil && d.HasCriticalDetection {
		raw += 10
		criticalIssues = append(criticalIssues, "Critical PII exposed in submission")
	}
	if d := checks.Digital.Digital; d != nil {
		if !d.WebsiteProvided {
			raw += 12
			warnings = append(warnings, "No website provided for verification")
		}
		if d.SuspiciousTLD {
			raw += 15
			criticalIssues = append(criticalIssues, "Suspicious digital footprint")
			s.bus.Communication(datatypes.AgentRisk, datatypes.AgentDigital,
				"Suspicious digital footprint confirmed in final assessment",
				datatypes.PriorityHigh, investigationID)
		}
	}
	if d := checks.Compliance.Compliance; d != nil && len(d.Gaps) > 2 {
		raw += 8
		warnings = append(warnings, fmt.Sprintf("%d compliance gaps identified", len(d.Gaps)))
	}

	// Positive signals offset risk.
	if d := checks.Digital.Digital; d != nil && d.EmailDomainMatch {
		raw -= 5
	}
	if d := checks.Financial.Financial; d != nil && d.YearsInBusiness > 5 {
		raw -= 8
	}
	certCount := 0
	if d := checks.Compliance.Compliance; d != nil {
		certCount = len(d.Certifications)
	}
	if certCount > 1 {
		raw -= 10
	}
	if checks.Privacy.Score > 80 {
		raw -= 5
	}

	// Contradictions: internally inconsistent claims weigh more than either
	// claim alone.
	websiteProvided := checks.Digital.Digital != nil && checks.Digital.Digital.WebsiteProvided
	if certCount > 0 && !websiteProvided {
		raw += 12
		contradictions = append(contradictions,
			"Claims certifications but has no verifiable web presence")
	}
	if d := checks.Financial.Financial; d != nil && d.YearsInBusiness < 2 && d.HighRevenueNewCompany {
		raw += 10
		contradictions = append(contradictions,
			"High revenue claim for very new company")
	}
	if len(contradictions) > 0 {
		for _, c := range contradictions {
			findings = append(findings, fmt.Sprintf("Contradiction: %s", c))
		}
		s.bus.Finding(datatypes.AgentRisk,
			fmt.Sprintf("Contradictory claims detected: %s", strings.Join(contradictions, "; ")),
			datatypes.FindingCritical, investigationID)
	}

	score := clampScore(int(math.Round(raw)))
	level, recommendation := Classify(score)
	if level == datatypes.RiskLow {
		findings = append(findings,
			"LOW RISK: Vendor profile is consistent and well documented")
	}

	report := datatypes.RiskReport{
		RiskScore:      score,
		RiskLevel:      level,
		Recommendation: recommendation,
		Findings:       findings,
		CriticalIssues: criticalIssues,
		Warnings:       warnings,
		Contradictions: contradictions,
		AgentScores:    checks.Scores(),
		Confidence:     overallConfidence(checks),
	}
	report.Summary = summarize(sub, checks, report)
	s.narrate(ctx, sub, checks, &report, investigationID)

	s.bus.Activity(datatypes.AgentRisk, "Risk assessment complete", investigationID,
		map[string]any{"status": "complete", "score": score})
	return report
}

// summarize builds the rule-based executive summary.
func summarize(sub datatypes.Submission, checks datatypes.CheckSet, report datatypes.RiskReport) string {
	var b strings.Builder

	company := sub.CompanyName
	if company == "" {
		company = "The vendor"
	}
	fmt.Fprintf(&b, "%s scored %d/100 (%s risk). Recommendation: %s.",
		company, report.RiskScore, report.RiskLevel, report.Recommendation)

	if n := len(report.CriticalIssues); n > 0 {
		fmt.Fprintf(&b, " %d critical issue(s): %s.", n, strings.Join(report.CriticalIssues, "; "))
	}
	if n := len(report.Warnings); n > 0 {
		fmt.Fprintf(&b, " %d warning(s) noted.", n)
	}
	if len(report.Contradictions) > 0 {
		b.WriteString(" The submission contains internally contradictory claims that require manual verification.")
	}

	var positives []string
	if d := checks.Financial.Financial; d != nil && d.YearsInBusiness > 5 {
		positives = append(positives, "established operating history")
	}
	if d := checks.Compliance.Compliance; d != nil && len(d.Certifications) > 0 {
		positives = append(positives, "recognized security certifications")
	}
	if d := checks.Digital.Digital; d != nil && d.WebsiteProvided {
		positives = append(positives, "a verifiable web presence")
	}
	if len(positives) > 0 {
		fmt.Fprintf(&b, " Positive signals: %s.", strings.Join(positives, ", "))
	}

	return b.String()
}

// narrate appends the oracle's executive narrative to the report's findings
// as labeled entries. The narrative never changes the score; a failure
// leaves the rule-based report untouched.
func (s *Synthesizer) narrate(ctx context.Context, sub datatypes.Submission, checks datatypes.CheckSet, report *datatypes.RiskReport, investigationID string) {
	if s.oracle == nil {
		return
	}
	adv, err := s.advise(ctx, sub, checks, *report)
	if err != nil {
		slog.Warn("risk narrative enrichment failed", "error", err)
		return
	}
	for _, insight := range adv.ExecutiveInsights {
		report.Findings = append(report.Findings, "Executive Insight: "+insight)
	}
	for _, strategy := range adv.MitigationStrategies {
		report.Findings = append(report.Findings, "Mitigation Strategy: "+strategy)
	}
	if len(adv.KeyRisks) > 0 {
		s.bus.Activity(datatypes.AgentRisk, "AI narrative identified key risks", investigationID,
			map[string]any{"keyRisks": adv.KeyRisks})
	}
}

func (s *Synthesizer) advise(ctx context.Context, sub datatypes.Submission, checks datatypes.CheckSet, report datatypes.RiskReport) (oracle.Advisory, error) {
	rolePrompt := `You are a Chief Risk Officer writing the executive view of a vendor risk assessment.

Return JSON with this structure:
{
  "executiveInsights": ["insight 1", "insight 2"],
  "keyRisks": ["risk 1", "risk 2"],
  "mitigationStrategies": ["strategy 1", "strategy 2"]
}`

	var scores []string
	for agent, score := range checks.Scores() {
		scores = append(scores, fmt.Sprintf("%s: %d", agent, score))
	}

	dataPrompt := fmt.Sprintf(`Vendor: %s
Final risk score: %d/100 (%s)
Recommendation: %s
Agent scores: %s
Critical issues: %s
Warnings: %s
Contradictions: %s

Provide executive insights, the key residual risks, and mitigation strategies for onboarding this vendor.`,
		sub.CompanyName, report.RiskScore, report.RiskLevel, report.Recommendation,
		strings.Join(scores, ", "),
		strings.Join(report.CriticalIssues, "; "),
		strings.Join(report.Warnings, "; "),
		strings.Join(report.Contradictions, "; "))

	return s.oracle.Advise(ctx, rolePrompt, dataPrompt)
}

// overallConfidence averages the five checker confidence weights.
func overallConfidence(checks datatypes.CheckSet) datatypes.ConfidenceLevel {
	total := 0
	for _, res := range checks.All() {
		total += res.Confidence.Weight()
	}
	avg := float64(total) / 5

	switch {
	case avg >= 2.5:
		return datatypes.ConfidenceHigh
	case avg >= 1.5:
		return datatypes.ConfidenceMedium
	default:
		return datatypes.ConfidenceLow
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
