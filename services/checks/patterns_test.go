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
	"testing"

	"github.com/AleutianAI/VendorSentry/services/checks/ruleset"
)

func TestLoadPatternSetEmbedded(t *testing.T) {
	set, err := LoadPatternSet(ruleset.PIIPatterns)
	if err != nil {
		t.Fatalf("embedded pattern table failed to load: %v", err)
	}
	if len(set) == 0 {
		t.Fatal("embedded pattern table is empty")
	}

	for _, p := range set {
		if p.Name == "" {
			t.Error("pattern with empty name")
		}
		if p.Regex == nil {
			t.Errorf("pattern %q has nil regex", p.Name)
		}
		if p.Penalty <= 0 {
			t.Errorf("pattern %q has non-positive penalty %d", p.Name, p.Penalty)
		}
	}
}

func TestLoadPatternSetRejectsBadRegex(t *testing.T) {
	raw := []byte(`
patterns:
  - name: "Broken"
    regex: "([unclosed"
    severity: "low"
    penalty: 5
`)
	if _, err := LoadPatternSet(raw); err == nil {
		t.Error("expected error for invalid regex, got nil")
	}
}

func TestLoadPatternSetRejectsBadSeverity(t *testing.T) {
	raw := []byte(`
patterns:
  - name: "Odd"
    regex: "x"
    severity: "apocalyptic"
    penalty: 5
`)
	if _, err := LoadPatternSet(raw); err == nil {
		t.Error("expected error for unknown severity, got nil")
	}
}

func TestApplyPatternSetDetections(t *testing.T) {
	set, err := LoadPatternSet(ruleset.PIIPatterns)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	text := "Contact John, SSN 123-45-6789, card 4111-1111-1111-1111, or 123-45-6789 again"
	hits := ApplyPatternSet(text, set)

	byName := map[string]PatternMatch{}
	for _, h := range hits {
		byName[h.Pattern.Name] = h
	}

	ssn, ok := byName["Social Security Number"]
	if !ok {
		t.Fatal("SSN not detected")
	}
	if ssn.Count != 2 {
		t.Errorf("SSN count = %d, want 2", ssn.Count)
	}

	if _, ok := byName["Credit Card"]; !ok {
		t.Error("credit card not detected")
	}
}

func TestApplyPatternSetCleanText(t *testing.T) {
	set, err := LoadPatternSet(ruleset.PIIPatterns)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	hits := ApplyPatternSet("companyName: Acme Corp\nservicesDescription: cloud consulting", set)
	if len(hits) != 0 {
		t.Errorf("expected no detections in clean text, got %v", hits)
	}
}

func BenchmarkApplyPatternSet(b *testing.B) {
	set, err := LoadPatternSet(ruleset.PIIPatterns)
	if err != nil {
		b.Fatalf("load: %v", err)
	}
	text := "Acme Corp, EIN 12-3456789, contact ops@acme.com at 415-555-0134. " +
		"SSN 123-45-6789 buried in paperwork. DOB: 01/02/1980."

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ApplyPatternSet(text, set)
	}
}
