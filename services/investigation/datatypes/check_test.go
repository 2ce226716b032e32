// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMaskSample(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ssn keeps edges", "123-45-6789", "12*******89"},
		{"five chars", "12345", "12*45"},
		{"four chars masked wholesale", "1234", "***"},
		{"one char masked wholesale", "x", "***"},
		{"empty masked wholesale", "", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskSample(tt.input); got != tt.want {
				t.Errorf("MaskSample(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMaskSampleNeverLeaksMiddle(t *testing.T) {
	input := "4111-1111-1111-1111"
	got := MaskSample(input)

	if strings.Contains(got, "1111-") {
		t.Errorf("MaskSample leaked middle digits: %q", got)
	}
	if len(got) != len(input) {
		t.Errorf("MaskSample changed length: got %d, want %d", len(got), len(input))
	}
}

func TestConfidenceWeight(t *testing.T) {
	tests := []struct {
		level ConfidenceLevel
		want  int
	}{
		{ConfidenceLow, 1},
		{ConfidenceMedium, 2},
		{ConfidenceHigh, 3},
		{ConfidenceLevel("garbage"), 1},
	}

	for _, tt := range tests {
		if got := tt.level.Weight(); got != tt.want {
			t.Errorf("Weight(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestSeverityUnmarshalYAML(t *testing.T) {
	var s Severity
	if err := yaml.Unmarshal([]byte(`critical`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != SeverityCritical {
		t.Errorf("got %q, want %q", s, SeverityCritical)
	}

	if err := yaml.Unmarshal([]byte(`catastrophic`), &s); err == nil {
		t.Error("expected error for unknown severity, got nil")
	}
}

func TestCheckSetScores(t *testing.T) {
	set := CheckSet{
		Intake:     CheckResult{Agent: AgentIntake, Score: 90},
		Digital:    CheckResult{Agent: AgentDigital, Score: 80},
		Privacy:    CheckResult{Agent: AgentPrivacy, Score: 70},
		Financial:  CheckResult{Agent: AgentFinancial, Score: 60},
		Compliance: CheckResult{Agent: AgentCompliance, Score: 50},
	}

	scores := set.Scores()
	if len(scores) != 5 {
		t.Fatalf("expected 5 scores, got %d", len(scores))
	}
	if scores[AgentFinancial] != 60 {
		t.Errorf("financial score = %d, want 60", scores[AgentFinancial])
	}
	if len(set.All()) != 5 {
		t.Errorf("All() returned %d results, want 5", len(set.All()))
	}
}

func TestSubmissionAsText(t *testing.T) {
	sub := Submission{CompanyName: "Acme Corp", Email: "ops@acme.com"}
	text := sub.AsText()

	if !strings.Contains(text, "companyName: Acme Corp") {
		t.Errorf("AsText missing company line: %q", text)
	}
	if !strings.Contains(text, "email: ops@acme.com") {
		t.Errorf("AsText missing email line: %q", text)
	}
	if strings.Contains(text, "phone") {
		t.Errorf("AsText included empty field: %q", text)
	}
}

func TestSubmissionPopulatedFields(t *testing.T) {
	sub := Submission{CompanyName: "Acme", Phone: "415-555-0134"}
	fields := sub.PopulatedFields()

	if len(fields) != 2 {
		t.Fatalf("expected 2 populated fields, got %d", len(fields))
	}
	if fields[0].Name != "companyName" {
		t.Errorf("field order changed: first = %q", fields[0].Name)
	}
}
