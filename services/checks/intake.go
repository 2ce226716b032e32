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

	"github.com/AleutianAI/VendorSentry/pkg/validation"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// requiredIntakeFields are the fields a submission must populate. Each
// missing one costs 10 points.
var requiredIntakeFields = []string{
	"companyName",
	"address",
	"email",
	"phone",
	"businessType",
	"servicesDescription",
}

// terseFieldThreshold is the average populated-field length below which the
// submission is considered suspiciously terse.
const terseFieldThreshold = 5.0

// IntakeAgent validates completeness and basic format quality of the raw
// submission. It runs first and unguarded: its failure aborts the whole
// investigation, because downstream checkers assume a minimally coherent
// record.
type IntakeAgent struct {
	bus *bus.Bus
}

func NewIntakeAgent(b *bus.Bus) *IntakeAgent {
	return &IntakeAgent{bus: b}
}

func (a *IntakeAgent) Name() string { return datatypes.AgentIntake }

// Check scores data completeness and shape validity.
func (a *IntakeAgent) Check(_ context.Context, sub datatypes.Submission, investigationID string) (datatypes.CheckResult, error) {
	card := newScorecard()

	byName := map[string]string{
		"companyName":         sub.CompanyName,
		"address":             sub.Address,
		"email":               sub.Email,
		"phone":               sub.Phone,
		"businessType":        sub.BusinessType,
		"servicesDescription": sub.ServicesDescription,
	}
	var missing []string
	for _, name := range requiredIntakeFields {
		if strings.TrimSpace(byName[name]) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		card.penalize(len(missing)*10,
			fmt.Sprintf("Missing required information: %s", strings.Join(missing, ", ")),
			fmt.Sprintf("Missing %d required fields", len(missing)))
		a.bus.Finding(a.Name(),
			fmt.Sprintf("Missing fields: %s", strings.Join(missing, ", ")),
			datatypes.FindingWarning, investigationID)
	} else {
		card.note("All required fields provided")
	}

	if sub.Email != "" {
		if !validation.IsValidEmail(sub.Email) {
			card.penalize(15,
				fmt.Sprintf("Email format appears invalid: %s", sub.Email),
				"Invalid email format")
			a.bus.Finding(a.Name(), "Invalid email format detected",
				datatypes.FindingWarning, investigationID)
		} else {
			card.note("Email format valid")
		}
	}

	if sub.Phone != "" {
		if !validation.IsValidPhone(sub.Phone) {
			card.penalize(10,
				fmt.Sprintf("Phone format appears invalid: %s", sub.Phone),
				"Invalid phone format")
		} else {
			card.note("Phone format valid")
		}
	}

	if sub.TaxID != "" {
		if !validation.IsValidEIN(sub.TaxID) {
			card.penalize(20,
				"Tax ID does not match standard EIN format",
				"Tax ID format invalid")
			a.bus.Communication(a.Name(), datatypes.AgentFinancial,
				"Tax ID format appears invalid - please verify",
				datatypes.PriorityHigh, investigationID)
		} else {
			card.note("Tax ID format appears valid")
		}
	} else {
		card.penalize(15, "Tax ID not provided", "No Tax ID provided")
	}

	if sub.Website != "" {
		if validation.IsValidURL(sub.Website) {
			card.note("Website URL format valid")
			a.bus.Communication(a.Name(), datatypes.AgentDigital,
				fmt.Sprintf("Website provided: %s - please investigate", sub.Website),
				datatypes.PriorityMedium, investigationID)
		} else {
			card.penalize(10, "Website URL format invalid", "Invalid website URL")
		}
	}

	// Data quality: very short values across the board suggest a throwaway
	// submission. Skipped when nothing was populated at all; the missing
	// field penalties already cover that.
	populated := sub.PopulatedFields()
	if len(populated) > 0 {
		total := 0
		for _, f := range populated {
			total += len(f.Value)
		}
		if avg := float64(total) / float64(len(populated)); avg < terseFieldThreshold {
			card.penalize(15,
				"Many fields contain very little information",
				"Suspiciously short field values")
		}
	}

	score := card.finish()
	completeness := (len(requiredIntakeFields) - len(missing)) * 100 / len(requiredIntakeFields)

	return datatypes.CheckResult{
		Agent:          a.Name(),
		Findings:       card.findings,
		RiskIndicators: card.riskIndicators,
		Score:          score,
		Confidence:     scoreConfidence(score),
		Intake: &datatypes.IntakeDetails{
			MissingFields:          missing,
			CompletenessPercentage: completeness,
		},
	}, nil
}
