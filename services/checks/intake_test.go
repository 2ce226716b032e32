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
	"testing"

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

func TestIntakeCompleteSubmission(t *testing.T) {
	b := bus.New()
	agent := NewIntakeAgent(b)

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-1")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if res.Score != 100 {
		t.Errorf("score = %d, want 100", res.Score)
	}
	if res.Confidence != datatypes.ConfidenceHigh {
		t.Errorf("confidence = %q, want high", res.Confidence)
	}
	if res.Intake == nil {
		t.Fatal("intake details missing")
	}
	if len(res.Intake.MissingFields) != 0 {
		t.Errorf("missing fields = %v, want none", res.Intake.MissingFields)
	}
	if res.Intake.CompletenessPercentage != 100 {
		t.Errorf("completeness = %d, want 100", res.Intake.CompletenessPercentage)
	}
	if !hasString(res.Findings, "All required fields provided") {
		t.Errorf("findings missing completeness note: %v", res.Findings)
	}

	// A valid website should have produced a handoff notice to the digital
	// checker.
	comms := b.RecordsOfKind("inv-1", datatypes.RecordCommunication)
	found := false
	for _, rec := range comms {
		if rec.To == datatypes.AgentDigital {
			found = true
		}
	}
	if !found {
		t.Error("expected a website handoff communication to the digital checker")
	}
}

func TestIntakeEmptySubmission(t *testing.T) {
	b := bus.New()
	agent := NewIntakeAgent(b)

	res, err := agent.Check(context.Background(), datatypes.Submission{}, "inv-2")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// Six missing required fields at 10 points each, plus 15 for the absent
	// tax ID.
	if res.Score != 25 {
		t.Errorf("score = %d, want 25", res.Score)
	}
	if res.Confidence != datatypes.ConfidenceLow {
		t.Errorf("confidence = %q, want low", res.Confidence)
	}
	if got := len(res.Intake.MissingFields); got != 6 {
		t.Errorf("missing fields = %d, want 6", got)
	}
	if res.Intake.CompletenessPercentage != 0 {
		t.Errorf("completeness = %d, want 0", res.Intake.CompletenessPercentage)
	}
	if !hasString(res.RiskIndicators, "Missing 6 required fields") {
		t.Errorf("risk indicators = %v, want missing-fields indicator", res.RiskIndicators)
	}
}

func TestIntakeInvalidFormats(t *testing.T) {
	b := bus.New()
	agent := NewIntakeAgent(b)

	sub := completeSubmission()
	sub.Email = "not-an-email"
	sub.Phone = "call me"
	sub.TaxID = "123456"

	res, err := agent.Check(context.Background(), sub, "inv-3")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// 15 for the email, 10 for the phone, 20 for the malformed EIN.
	if res.Score != 55 {
		t.Errorf("score = %d, want 55", res.Score)
	}
	if !hasString(res.RiskIndicators, "Invalid email format") {
		t.Errorf("risk indicators = %v, want invalid email", res.RiskIndicators)
	}
	if !hasString(res.RiskIndicators, "Invalid phone format") {
		t.Errorf("risk indicators = %v, want invalid phone", res.RiskIndicators)
	}
	if !hasString(res.RiskIndicators, "Tax ID format invalid") {
		t.Errorf("risk indicators = %v, want invalid tax ID", res.RiskIndicators)
	}

	// The bad EIN should have escalated to the financial checker.
	comms := b.RecordsOfKind("inv-3", datatypes.RecordCommunication)
	found := false
	for _, rec := range comms {
		if rec.To == datatypes.AgentFinancial && rec.Priority == datatypes.PriorityHigh {
			found = true
		}
	}
	if !found {
		t.Error("expected a high-priority escalation to the financial checker")
	}
}

func TestIntakeTerseSubmission(t *testing.T) {
	b := bus.New()
	agent := NewIntakeAgent(b)

	sub := datatypes.Submission{
		CompanyName:         "Ab",
		Address:             "1a",
		Email:               "x@y.zz",
		Phone:               "555",
		BusinessType:        "qq",
		ServicesDescription: "ok",
	}

	res, err := agent.Check(context.Background(), sub, "inv-4")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if !hasString(res.RiskIndicators, "Suspiciously short field values") {
		t.Errorf("risk indicators = %v, want terse-submission indicator", res.RiskIndicators)
	}
	if res.Intake.CompletenessPercentage != 100 {
		t.Errorf("completeness = %d, want 100 (all fields populated, just terse)",
			res.Intake.CompletenessPercentage)
	}
}
