// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package oracle wraps the external LLM enrichment call used to augment the
// rule-based checkers.
//
// The oracle is advisory only. Every caller treats a failed or timed-out
// call as "no advisory" and continues on its rule-based score; nothing in
// the pipeline depends on the oracle for correctness.
package oracle

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// Oracle produces a structured advisory from a role prompt (the analysis
// persona plus the required JSON shape) and a data prompt (the facts to
// analyze).
type Oracle interface {
	Advise(ctx context.Context, rolePrompt, dataPrompt string) (Advisory, error)
}

// Advisory is the oracle's response. Every field is optional: the model may
// return any subset, and a schema mismatch degrades to the Raw-only shape
// produced by ParseAdvisory rather than an error.
type Advisory struct {
	Findings             []string `json:"findings"`
	RiskIndicators       []string `json:"riskIndicators"`
	Score                *float64 `json:"score"`
	Confidence           string   `json:"confidence"`
	ComplianceGaps       []string `json:"complianceGaps"`
	Recommendations      []string `json:"recommendations"`
	RedFlags             []string `json:"redFlags"`
	LegitimacyConcerns   []string `json:"legitimacyConcerns"`
	ExecutiveInsights    []string `json:"executiveInsights"`
	KeyRisks             []string `json:"keyRisks"`
	MitigationStrategies []string `json:"mitigationStrategies"`

	// Raw is the unparsed model output, kept for diagnostics.
	Raw string `json:"-"`
}

// MergeScore averages the advisory score into a rule-based score. With no
// advisory score the rule-based score stands. The advisory score is clamped
// to [0, 100] first so a malformed model response cannot push a checker
// outside the scoring range.
func (a Advisory) MergeScore(ruleScore int) int {
	if a.Score == nil {
		return ruleScore
	}
	advisory := math.Min(100, math.Max(0, *a.Score))
	return int(math.Round((float64(ruleScore) + advisory) / 2))
}

// degradedScore is the neutral score attached to an unparseable response.
const degradedScore = 50.0

// fencedJSON extracts the body of a markdown code fence, json-tagged or
// plain.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\n(.*?)\n```")

// ParseAdvisory decodes a model response into an Advisory.
//
// Models frequently wrap JSON in markdown fences; the fence body is
// preferred when present. A response that still fails to decode degrades
// gracefully: the raw text becomes a single low-confidence finding with a
// neutral score, never an error.
func ParseAdvisory(content string) Advisory {
	payload := content
	if m := fencedJSON.FindStringSubmatch(content); m != nil {
		payload = m[1]
	}

	var adv Advisory
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &adv); err != nil {
		score := degradedScore
		return Advisory{
			Findings:   []string{content},
			Score:      &score,
			Confidence: "low",
			Raw:        content,
		}
	}
	adv.Raw = content
	return adv
}
