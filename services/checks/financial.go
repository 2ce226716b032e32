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
	"log/slog"
	"strconv"
	"strings"

	"github.com/AleutianAI/VendorSentry/pkg/validation"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// invalidEINPrefixes are IRS campus prefixes that have never been issued.
var invalidEINPrefixes = map[int]bool{
	7: true, 8: true, 9: true,
	17: true, 18: true, 19: true,
	28: true, 29: true,
	49: true,
	69: true, 70: true,
	78: true, 79: true,
	89: true,
}

// FinancialAgent checks the vendor's financial identifiers and claims: EIN
// shape and prefix validity, revenue-versus-age plausibility, business
// structure, and insurance coverage.
type FinancialAgent struct {
	bus    *bus.Bus
	oracle oracle.Oracle // nil disables enrichment
}

// NewFinancialAgent builds the checker. orc may be nil.
func NewFinancialAgent(b *bus.Bus, orc oracle.Oracle) *FinancialAgent {
	return &FinancialAgent{bus: b, oracle: orc}
}

func (a *FinancialAgent) Name() string { return datatypes.AgentFinancial }

func (a *FinancialAgent) Check(ctx context.Context, sub datatypes.Submission, investigationID string) (datatypes.CheckResult, error) {
	card := newScorecard()
	details := datatypes.FinancialDetails{
		TaxIDProvided:   sub.TaxID != "",
		RevenueProvided: sub.AnnualRevenue != "",
	}

	if !details.TaxIDProvided {
		details.TaxIDIssue = true
		card.penalize(25,
			"No Tax ID (EIN) provided - cannot verify business registration",
			"No Tax ID provided")
		a.bus.Finding(a.Name(), "Vendor submitted no Tax ID for verification",
			datatypes.FindingWarning, investigationID)
	} else if validation.IsValidEIN(sub.TaxID) {
		details.TaxIDFormatValid = true
		card.note(fmt.Sprintf("Tax ID format is valid: %s", maskTaxID(sub.TaxID)))

		prefix := einPrefix(sub.TaxID)
		if prefix < 1 || prefix > 99 || invalidEINPrefixes[prefix] {
			details.TaxIDIssue = true
			card.penalize(20,
				fmt.Sprintf("Tax ID prefix %02d was never issued by the IRS", prefix),
				"Tax ID prefix is invalid")
			a.bus.Communication(a.Name(), datatypes.AgentDigital,
				"Suspicious Tax ID detected - please verify company registration",
				datatypes.PriorityHigh, investigationID)
		} else {
			details.TaxIDPrefixValid = true
		}
	} else {
		details.TaxIDIssue = true
		card.penalize(20,
			fmt.Sprintf("Tax ID format is invalid: expected XX-XXXXXXX, got %q", sub.TaxID),
			"Tax ID format invalid")
	}

	years := parseYears(sub.YearsInBusiness)
	details.YearsInBusiness = years

	if details.RevenueProvided {
		revenue, ok := parseRevenue(sub.AnnualRevenue)
		switch {
		case ok && revenue > 0:
			card.note(fmt.Sprintf("Annual revenue reported: $%s", formatAmount(revenue)))
			if years < 2 && revenue > 1_000_000 {
				details.HighRevenueNewCompany = true
				card.penalize(15,
					fmt.Sprintf("Company less than 2 years old claims $%s annual revenue", formatAmount(revenue)),
					"Unusually high revenue for new company")
				a.bus.Finding(a.Name(),
					"High revenue claim inconsistent with company age",
					datatypes.FindingWarning, investigationID)
			}
			if years > 10 && revenue < 50_000 {
				card.penalize(10,
					"Revenue unusually low for a company of this age", "")
			}
		default:
			card.penalize(10,
				fmt.Sprintf("Could not parse annual revenue value: %q", sub.AnnualRevenue), "")
		}
	} else {
		card.penalize(15,
			"No annual revenue information provided",
			"No revenue information")
	}

	switch {
	case years == 0:
		card.penalize(5, "No business history on record", "No business history")
		a.bus.Communication(a.Name(), datatypes.AgentRisk,
			"New vendor with no business history - recommend enhanced monitoring",
			datatypes.PriorityMedium, investigationID)
	case years < 2:
		card.penalize(3, fmt.Sprintf("Company is new: %d year(s) in business", years), "")
	case years >= 5:
		card.note(fmt.Sprintf("Established business: %d years of operating history", years))
	}

	if bt := strings.ToLower(sub.BusinessType); bt != "" {
		switch {
		case strings.Contains(bt, "sole proprietorship") || strings.Contains(bt, "individual"):
			card.penalize(10,
				"Sole proprietorship carries higher counterparty risk than incorporated entities", "")
		case strings.Contains(bt, "llc") || strings.Contains(bt, "corporation"):
			card.note(fmt.Sprintf("Incorporated business structure: %s", sub.BusinessType))
		}
	}

	insurance := strings.ToLower(sub.InsuranceInfo)
	if insurance == "" || strings.Contains(insurance, "none") {
		card.penalize(15,
			"No insurance information provided",
			"No insurance information")
		a.bus.Communication(a.Name(), datatypes.AgentCompliance,
			"Vendor has no declared insurance coverage - flag for compliance review",
			datatypes.PriorityMedium, investigationID)
	} else {
		details.HasInsurance = true
		card.note(fmt.Sprintf("Insurance coverage declared: %s", sub.InsuranceInfo))
		if strings.Contains(insurance, "cyber") {
			card.note("Cyber liability coverage included")
		} else {
			card.penalize(5, "Insurance declared but no cyber liability coverage mentioned", "")
		}
	}

	advisory := a.enrich(ctx, sub, card, investigationID)

	score := card.finish()
	result := datatypes.CheckResult{
		Agent:          a.Name(),
		Findings:       card.findings,
		RiskIndicators: card.riskIndicators,
		Score:          score,
		Confidence:     datatypes.ConfidenceLow,
		Financial:      &details,
	}
	if details.TaxIDProvided && details.RevenueProvided {
		result.Confidence = datatypes.ConfidenceMedium
	}
	if advisory != nil {
		mergeAdvisory(&result, *advisory)
	}
	return result, nil
}

func (a *FinancialAgent) enrich(ctx context.Context, sub datatypes.Submission, card *scorecard, investigationID string) *oracle.Advisory {
	if a.oracle == nil {
		return nil
	}

	a.bus.Activity(a.Name(), "Running AI analysis of financial profile...", investigationID, nil)

	rolePrompt := `You are a Financial Investigation specialist assessing vendor financial credibility.

Return JSON with this structure:
{
  "findings": ["finding 1", "finding 2"],
  "riskIndicators": ["risk 1", "risk 2"],
  "score": <number 0-100, where 100 is most credible>,
  "confidence": "high" | "medium" | "low",
  "redFlags": ["flag 1", "flag 2"]
}`

	dataPrompt := fmt.Sprintf(`Analyze this vendor's financial profile:

Tax ID Provided: %t
Annual Revenue: %s
Years in Business: %s
Business Type: %s
Insurance: %s

Assess:
1. Is the revenue plausible for the company age and business type?
2. Are there gaps in the financial picture that warrant follow-up?
3. What financial red flags, if any, do you see?`,
		sub.TaxID != "",
		orNotSpecified(sub.AnnualRevenue), orNotSpecified(sub.YearsInBusiness),
		orNotSpecified(sub.BusinessType), orNotSpecified(sub.InsuranceInfo))

	adv, err := a.oracle.Advise(ctx, rolePrompt, dataPrompt)
	if err != nil {
		slog.Warn("financial enrichment failed", "error", err)
		card.note(unavailableNote)
		return nil
	}

	if len(adv.RedFlags) > 0 {
		a.bus.Communication(a.Name(), datatypes.AgentRisk,
			fmt.Sprintf("AI flagged financial concerns: %s", strings.Join(adv.RedFlags, "; ")),
			datatypes.PriorityHigh, investigationID)
	}
	return &adv
}

// einPrefix returns the leading two digits of an EIN, -1 on parse failure.
func einPrefix(taxID string) int {
	digits := strings.ReplaceAll(validation.StripSpaces(taxID), "-", "")
	if len(digits) < 2 {
		return -1
	}
	prefix, err := strconv.Atoi(digits[:2])
	if err != nil {
		return -1
	}
	return prefix
}

// maskTaxID hides all but the last two digits of an EIN for log-safe output.
func maskTaxID(taxID string) string {
	digits := strings.ReplaceAll(validation.StripSpaces(taxID), "-", "")
	if len(digits) < 4 {
		return "**-*******"
	}
	return fmt.Sprintf("**-*****%s", digits[len(digits)-2:])
}

// parseRevenue parses a dollar amount, tolerating "$" and "," formatting.
func parseRevenue(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseYears parses a years-in-business value, defaulting to 0.
func parseYears(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// formatAmount renders a dollar value with thousands separators.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
