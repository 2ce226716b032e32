// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package checks implements the five independent scoring checkers that feed
// the risk synthesizer, plus the run boundary that isolates their failures.
//
// Each checker starts from a perfect score of 100 and deducts fixed
// penalties for issues it finds in the submission. Scoring tables are
// declarative where practical (see the industry rules in compliance.go and
// the embedded PII ruleset) so the numbers are testable apart from the
// checkers.
package checks

import (
	"context"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// Checker is one independent scoring module. Check inspects the submission
// and returns a structured result; it must not mutate the submission and
// must not let anything escape except through the returned error.
type Checker interface {
	// Name returns the checker's display name, used on bus records.
	Name() string

	// Check scores the submission for this checker's concern. The
	// investigation id only tags side-channel records.
	Check(ctx context.Context, sub datatypes.Submission, investigationID string) (datatypes.CheckResult, error)
}

// scorecard accumulates a checker's deductions from the perfect score.
// Deliberately no floor mid-run; the floor applies once at finish.
type scorecard struct {
	score          int
	findings       []string
	riskIndicators []string
}

func newScorecard() *scorecard {
	return &scorecard{score: 100}
}

// penalize deducts points and records a finding. An empty indicator records
// a note-only deduction.
func (s *scorecard) penalize(points int, finding, indicator string) {
	s.score -= points
	if finding != "" {
		s.findings = append(s.findings, finding)
	}
	if indicator != "" {
		s.riskIndicators = append(s.riskIndicators, indicator)
	}
}

func (s *scorecard) note(finding string) {
	s.findings = append(s.findings, finding)
}

// finish floors the score at zero.
func (s *scorecard) finish() int {
	if s.score < 0 {
		s.score = 0
	}
	return s.score
}

// scoreConfidence bands a score into the confidence scale used by the
// intake validator.
func scoreConfidence(score int) datatypes.ConfidenceLevel {
	switch {
	case score > 70:
		return datatypes.ConfidenceHigh
	case score > 40:
		return datatypes.ConfidenceMedium
	default:
		return datatypes.ConfidenceLow
	}
}

// mergeAdvisory folds a successful oracle advisory into a rule-based
// result: the scores are averaged and the advisory's findings and risk
// indicators are appended verbatim.
func mergeAdvisory(res *datatypes.CheckResult, adv oracle.Advisory) {
	res.Findings = append(res.Findings, adv.Findings...)
	res.RiskIndicators = append(res.RiskIndicators, adv.RiskIndicators...)
	res.Score = adv.MergeScore(res.Score)
}

// unavailableNote is appended when the oracle call fails; the checker
// continues on its rule-based score alone.
const unavailableNote = "Note: AI analysis unavailable, using rule-based assessment only"
