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
	"errors"
	"testing"

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

func TestFinancialSolidProfile(t *testing.T) {
	b := bus.New()
	agent := NewFinancialAgent(b, nil)

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-1")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if res.Score != 100 {
		t.Errorf("score = %d, want 100", res.Score)
	}
	if res.Confidence != datatypes.ConfidenceMedium {
		t.Errorf("confidence = %q, want medium", res.Confidence)
	}
	d := res.Financial
	if d == nil {
		t.Fatal("financial details missing")
	}
	if !d.TaxIDProvided || !d.TaxIDFormatValid || !d.TaxIDPrefixValid || d.TaxIDIssue {
		t.Errorf("tax ID details = %+v, want fully valid", d)
	}
	if d.YearsInBusiness != 10 || !d.HasInsurance {
		t.Errorf("details = %+v, want 10 years and insurance", d)
	}
}

func TestFinancialNeverIssuedEINPrefix(t *testing.T) {
	b := bus.New()
	agent := NewFinancialAgent(b, nil)

	sub := completeSubmission()
	sub.TaxID = "07-1234567"

	res, err := agent.Check(context.Background(), sub, "inv-2")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if res.Score != 80 {
		t.Errorf("score = %d, want 80", res.Score)
	}
	if !res.Financial.TaxIDIssue {
		t.Error("TaxIDIssue should be set for a never-issued prefix")
	}
	if res.Financial.TaxIDPrefixValid {
		t.Error("TaxIDPrefixValid should be false")
	}
	if !hasString(res.RiskIndicators, "Tax ID prefix is invalid") {
		t.Errorf("risk indicators = %v, want prefix indicator", res.RiskIndicators)
	}

	comms := b.RecordsOfKind("inv-2", datatypes.RecordCommunication)
	escalated := false
	for _, rec := range comms {
		if rec.To == datatypes.AgentDigital && rec.Priority == datatypes.PriorityHigh &&
			rec.Message == "Suspicious Tax ID detected - please verify company registration" {
			escalated = true
		}
	}
	if !escalated {
		t.Error("expected a high-priority escalation to the digital checker")
	}
}

func TestFinancialHighRevenueNewCompany(t *testing.T) {
	b := bus.New()
	agent := NewFinancialAgent(b, nil)

	sub := completeSubmission()
	sub.YearsInBusiness = "1"
	sub.AnnualRevenue = "$2,000,000"

	res, err := agent.Check(context.Background(), sub, "inv-3")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// 15 for the implausible revenue, 3 for being a new company.
	if res.Score != 82 {
		t.Errorf("score = %d, want 82", res.Score)
	}
	if !res.Financial.HighRevenueNewCompany {
		t.Error("HighRevenueNewCompany should be set")
	}
	if !hasString(res.RiskIndicators, "Unusually high revenue for new company") {
		t.Errorf("risk indicators = %v, want revenue indicator", res.RiskIndicators)
	}
}

func TestFinancialEmptySubmission(t *testing.T) {
	b := bus.New()
	agent := NewFinancialAgent(b, nil)

	res, err := agent.Check(context.Background(), datatypes.Submission{}, "inv-4")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// 25 no tax ID, 15 no revenue, 5 no history, 15 no insurance.
	if res.Score != 40 {
		t.Errorf("score = %d, want 40", res.Score)
	}
	if res.Confidence != datatypes.ConfidenceLow {
		t.Errorf("confidence = %q, want low", res.Confidence)
	}
	if !res.Financial.TaxIDIssue {
		t.Error("absent tax ID should set TaxIDIssue")
	}

	comms := b.RecordsOfKind("inv-4", datatypes.RecordCommunication)
	var toRisk, toCompliance bool
	for _, rec := range comms {
		switch rec.To {
		case datatypes.AgentRisk:
			toRisk = true
		case datatypes.AgentCompliance:
			toCompliance = true
		}
	}
	if !toRisk || !toCompliance {
		t.Errorf("comms toRisk=%t toCompliance=%t, want both", toRisk, toCompliance)
	}
}

func TestFinancialScoringVariants(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*datatypes.Submission)
		wantScore int
	}{
		{"sole proprietorship", func(s *datatypes.Submission) {
			s.BusinessType = "Sole Proprietorship"
		}, 90},
		{"old company low revenue", func(s *datatypes.Submission) {
			s.YearsInBusiness = "15"
			s.AnnualRevenue = "$20,000"
		}, 90},
		{"insurance none", func(s *datatypes.Submission) {
			s.InsuranceInfo = "none"
		}, 85},
		{"insurance without cyber", func(s *datatypes.Submission) {
			s.InsuranceInfo = "General liability"
		}, 95},
		{"unparseable revenue", func(s *datatypes.Submission) {
			s.AnnualRevenue = "confidential"
		}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bus.New()
			agent := NewFinancialAgent(b, nil)
			sub := completeSubmission()
			tt.mutate(&sub)

			res, err := agent.Check(context.Background(), sub, "inv-5")
			if err != nil {
				t.Fatalf("Check returned error: %v", err)
			}
			if res.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", res.Score, tt.wantScore)
			}
		})
	}
}

func TestFinancialOracleRedFlags(t *testing.T) {
	b := bus.New()
	advScore := 40.0
	orc := &stubOracle{advisory: oracle.Advisory{
		Score:    &advScore,
		RedFlags: []string{"Revenue claim unverifiable"},
	}}
	agent := NewFinancialAgent(b, orc)

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-6")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if res.Score != 70 {
		t.Errorf("score = %d, want 70 (100 averaged with 40)", res.Score)
	}

	comms := b.RecordsOfKind("inv-6", datatypes.RecordCommunication)
	flagged := false
	for _, rec := range comms {
		if rec.To == datatypes.AgentRisk && rec.Priority == datatypes.PriorityHigh {
			flagged = true
		}
	}
	if !flagged {
		t.Error("red flags should escalate to the risk synthesizer")
	}
}

func TestFinancialOracleScoreOutOfRangeClamped(t *testing.T) {
	b := bus.New()
	advScore := 300.0
	agent := NewFinancialAgent(b, &stubOracle{advisory: oracle.Advisory{Score: &advScore}})

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-6b")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// The advisory value clamps to 100 before merging, so the checker can
	// never leave the 0-100 scoring range.
	if res.Score != 100 {
		t.Errorf("score = %d, want 100", res.Score)
	}
}

func TestFinancialOracleFailureDegrades(t *testing.T) {
	b := bus.New()
	agent := NewFinancialAgent(b, &stubOracle{err: errors.New("timeout")})

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-7")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("score = %d, want unchanged 100", res.Score)
	}
	if !hasString(res.Findings, unavailableNote) {
		t.Errorf("findings = %v, want the unavailable note", res.Findings)
	}
}

func TestMaskTaxID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"12-3456789", "**-*****89"},
		{"123456789", "**-*****89"},
		{"12", "**-*******"},
		{"", "**-*******"},
	}
	for _, tt := range tests {
		if got := maskTaxID(tt.in); got != tt.want {
			t.Errorf("maskTaxID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{2000000, "2,000,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
