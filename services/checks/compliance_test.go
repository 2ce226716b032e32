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

func TestComplianceHealthcareWithoutHIPAA(t *testing.T) {
	b := bus.New()
	agent := NewComplianceAgent(b, nil)

	sub := datatypes.Submission{
		CompanyName:         "MedRecords LLC",
		ServicesDescription: "Medical patient data management",
	}

	res, err := agent.Check(context.Background(), sub, "inv-1")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// Gaps: no certifications, missing HIPAA, no insurance, data handling
	// without a privacy program, no security controls.
	if res.Score != 15 {
		t.Errorf("score = %d, want 15", res.Score)
	}
	d := res.Compliance
	if d == nil {
		t.Fatal("compliance details missing")
	}
	if d.Industry != "healthcare" {
		t.Errorf("industry = %q, want healthcare", d.Industry)
	}
	if len(d.Gaps) != 5 {
		t.Errorf("gaps = %v, want 5", d.Gaps)
	}
	if !d.RequiresAdditionalReview {
		t.Error("more than two gaps should require additional review")
	}
	if !hasString(d.Gaps, "Healthcare services offered without HIPAA compliance") {
		t.Errorf("gaps = %v, want the HIPAA gap", d.Gaps)
	}

	comms := b.RecordsOfKind("inv-1", datatypes.RecordCommunication)
	var escalated, privacyNotified bool
	for _, rec := range comms {
		if rec.To == datatypes.AgentRisk && rec.Priority == datatypes.PriorityHigh {
			escalated = true
		}
		if rec.To == datatypes.AgentPrivacy {
			privacyNotified = true
		}
	}
	if !escalated {
		t.Error("the HIPAA gap should escalate to the risk synthesizer")
	}
	if !privacyNotified {
		t.Error("data handling without a privacy program should notify the privacy checker")
	}
}

func TestComplianceCertifiedVendor(t *testing.T) {
	b := bus.New()
	agent := NewComplianceAgent(b, nil)

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-2")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	// Only gap: the submission mentions no recognizable security controls.
	if res.Score != 85 {
		t.Errorf("score = %d, want 85", res.Score)
	}
	if res.Confidence != datatypes.ConfidenceMedium {
		t.Errorf("confidence = %q, want medium", res.Confidence)
	}
	d := res.Compliance
	if d.Industry != "general" {
		t.Errorf("industry = %q, want general when no industry keyword matches", d.Industry)
	}
	if len(d.Certifications) != 2 ||
		!hasString(d.Certifications, "SOC 2") || !hasString(d.Certifications, "ISO 27001") {
		t.Errorf("certifications = %v, want SOC 2 and ISO 27001", d.Certifications)
	}
	if d.RequiresAdditionalReview {
		t.Error("a single gap must not require additional review")
	}
}

func TestComplianceCertificationAliases(t *testing.T) {
	b := bus.New()
	agent := NewComplianceAgent(b, nil)

	sub := datatypes.Submission{
		ServicesDescription: "Public sector records systems",
		Certifications:      "We are soc2 certified and fedramp authorized, with AES encryption and MFA",
	}

	res, err := agent.Check(context.Background(), sub, "inv-3")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	d := res.Compliance
	if !hasString(d.Certifications, "SOC 2") || !hasString(d.Certifications, "FedRAMP") {
		t.Errorf("certifications = %v, want SOC 2 and FedRAMP via aliases", d.Certifications)
	}
	if d.Industry != "government" {
		t.Errorf("industry = %q, want government", d.Industry)
	}
	// FedRAMP satisfies the government rule, so the only gap is the missing
	// insurance declaration.
	if len(d.Gaps) != 1 {
		t.Errorf("gaps = %v, want only the insurance gap", d.Gaps)
	}
	// Buckets are evaluated in a fixed order, so the slice is deterministic.
	if len(d.MentionedControls) != 2 ||
		d.MentionedControls[0] != "encryption" || d.MentionedControls[1] != "access control" {
		t.Errorf("controls = %v, want [encryption, access control]", d.MentionedControls)
	}
}

func TestComplianceFirstIndustryMatchWins(t *testing.T) {
	// "payment" appears in both the financial and ecommerce rules; only the
	// financial rule, listed first, should fire.
	b := bus.New()
	agent := NewComplianceAgent(b, nil)

	sub := datatypes.Submission{
		ServicesDescription: "Payment processing for merchants",
		Certifications:      "PCI DSS compliant",
		InsuranceInfo:       "cyber insurance",
	}

	res, err := agent.Check(context.Background(), sub, "inv-4")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	d := res.Compliance
	if d.Industry != "financial" {
		t.Errorf("industry = %q, want financial", d.Industry)
	}
	if !hasString(d.Gaps, "Financial services offered without SOC 2 or ISO 27001 certification") {
		t.Errorf("gaps = %v, want the financial-certification gap", d.Gaps)
	}
	if hasString(d.Gaps, "E-commerce services offered without PCI DSS certification") {
		t.Errorf("gaps = %v, ecommerce rule should not have fired", d.Gaps)
	}
}

func TestComplianceOracleGapsAppended(t *testing.T) {
	b := bus.New()
	orc := &stubOracle{advisory: oracle.Advisory{
		ComplianceGaps: []string{"No data processing agreement on file"},
	}}
	agent := NewComplianceAgent(b, orc)

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-5")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if !hasString(res.Compliance.Gaps, "No data processing agreement on file") {
		t.Errorf("gaps = %v, want the advisory gap appended", res.Compliance.Gaps)
	}
	// No advisory score, so the rule-based score stands.
	if res.Score != 85 {
		t.Errorf("score = %d, want 85", res.Score)
	}
}

func TestComplianceOracleFailureDegrades(t *testing.T) {
	b := bus.New()
	agent := NewComplianceAgent(b, &stubOracle{err: errors.New("unreachable")})

	res, err := agent.Check(context.Background(), completeSubmission(), "inv-6")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if res.Score != 85 {
		t.Errorf("score = %d, want unchanged 85", res.Score)
	}
	if !hasString(res.Findings, unavailableNote) {
		t.Errorf("findings = %v, want the unavailable note", res.Findings)
	}
}
