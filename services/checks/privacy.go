// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/AleutianAI/VendorSentry/services/checks/ruleset"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// maxMaskedSamples caps how many masked examples a detection carries.
const maxMaskedSamples = 2

// piiServiceKeywords mark service descriptions that suggest the vendor will
// handle personal data, independent of whether the submission itself leaked
// any.
var piiServiceKeywords = []string{
	"personal", "data", "information", "customers", "users",
	"patient", "health", "financial",
}

// PrivacyAgent scans the serialized submission for sensitive identifiers
// against the embedded detection table and penalizes per instance found.
type PrivacyAgent struct {
	bus      *bus.Bus
	patterns []WeightedPattern
}

// NewPrivacyAgent compiles the embedded PII detection table. The error path
// only fires when the shipped table is broken, which a unit test catches.
func NewPrivacyAgent(b *bus.Bus) (*PrivacyAgent, error) {
	set, err := LoadPatternSet(ruleset.PIIPatterns)
	if err != nil {
		return nil, fmt.Errorf("loading PII patterns: %w", err)
	}
	return &PrivacyAgent{bus: b, patterns: set}, nil
}

func (a *PrivacyAgent) Name() string { return datatypes.AgentPrivacy }

// Check serializes all populated fields into one blob and applies the
// detection table.
func (a *PrivacyAgent) Check(_ context.Context, sub datatypes.Submission, investigationID string) (datatypes.CheckResult, error) {
	card := newScorecard()
	var detections []datatypes.PIIDetection

	allText := sub.AsText()
	for _, hit := range ApplyPatternSet(allText, a.patterns) {
		samples := make([]string, 0, maxMaskedSamples)
		for _, m := range hit.Matches {
			if len(samples) == maxMaskedSamples {
				break
			}
			samples = append(samples, datatypes.MaskSample(m))
		}
		detections = append(detections, datatypes.PIIDetection{
			Type:     hit.Pattern.Name,
			Count:    hit.Count,
			Severity: hit.Pattern.Severity,
			Samples:  samples,
		})

		plural := ""
		if hit.Count > 1 {
			plural = "s"
		}
		card.penalize(hit.Pattern.Penalty*hit.Count, "",
			fmt.Sprintf("%s detected (%d instance%s)", hit.Pattern.Name, hit.Count, plural))

		severity := datatypes.FindingWarning
		if hit.Pattern.Severity == datatypes.SeverityCritical {
			severity = datatypes.FindingCritical
		}
		a.bus.Finding(a.Name(),
			fmt.Sprintf("Detected %d %s(s) in submission", hit.Count, hit.Pattern.Name),
			severity, investigationID)
	}

	criticalCount := 0
	for _, d := range detections {
		if d.Severity == datatypes.SeverityCritical {
			criticalCount++
		}
	}
	if criticalCount > 0 {
		card.note(fmt.Sprintf(
			"CRITICAL: Found %d types of sensitive PII that should not be submitted", criticalCount))
		a.bus.Communication(a.Name(), datatypes.AgentCompliance,
			"Critical PII detected in submission - enhanced privacy controls required",
			datatypes.PriorityHigh, investigationID)
	}

	servicesText := strings.ToLower(sub.ServicesDescription)
	handlesPII := false
	for _, kw := range piiServiceKeywords {
		if strings.Contains(servicesText, kw) {
			handlesPII = true
			break
		}
	}
	if handlesPII {
		card.note("Vendor services may involve handling personal data")
		a.bus.Communication(a.Name(), datatypes.AgentCompliance,
			"Vendor services suggest PII handling - verify GDPR/CCPA compliance",
			datatypes.PriorityMedium, investigationID)
	}

	if len(detections) == 0 {
		card.note("No sensitive PII detected in submission")
	} else {
		card.note(fmt.Sprintf("Detected %d types of PII in submission documents", len(detections)))
		card.note("Recommendation: Implement data masking before storage")
	}

	score := card.finish()
	confidence := datatypes.ConfidenceHigh
	if len(detections) > 0 {
		confidence = datatypes.ConfidenceMedium
	}

	return datatypes.CheckResult{
		Agent:          a.Name(),
		Findings:       card.findings,
		RiskIndicators: card.riskIndicators,
		Score:          score,
		Confidence:     confidence,
		Privacy: &datatypes.PrivacyDetails{
			Detections:           detections,
			PrivacyRating:        privacyRating(score),
			RequiresDataMasking:  criticalCount > 0,
			HandlesPII:           handlesPII,
			HasCriticalDetection: criticalCount > 0,
		},
	}, nil
}

// privacyRating bands the privacy score for reporting.
func privacyRating(score int) string {
	switch {
	case score > 80:
		return "Excellent"
	case score > 60:
		return "Good"
	case score > 40:
		return "Needs Attention"
	default:
		return "Critical Issues"
	}
}
