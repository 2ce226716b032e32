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

import "time"

// RiskLevel bands the synthesized risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Recommendation is the action derived 1:1 from the risk level.
type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendReview  Recommendation = "review"
	RecommendReject  Recommendation = "reject"
)

// RiskReport is the synthesizer's final verdict for one investigation.
//
// RiskScore uses the inverted scale: 0..100 with 100 meaning most risky. It
// is always the clamped result of the weighted computation over all five
// checker scores (or their fallback equivalents).
type RiskReport struct {
	RiskScore      int             `json:"riskScore"`
	RiskLevel      RiskLevel       `json:"riskLevel"`
	Recommendation Recommendation  `json:"recommendation"`
	Summary        string          `json:"summary"`
	Findings       []string        `json:"findings"`
	CriticalIssues []string        `json:"criticalIssues"`
	Warnings       []string        `json:"warnings"`
	Contradictions []string        `json:"contradictions"`
	AgentScores    map[string]int  `json:"agentScores"`
	Confidence     ConfidenceLevel `json:"confidence"`
}

// Investigation is the persisted record of one full pipeline run: the input,
// every checker's output, the risk verdict, and the side-channel records
// captured along the way. It is assembled exactly once by the coordinator;
// consumers never observe a partially populated record.
type Investigation struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`

	Submission Submission `json:"submission"`
	Results    CheckSet   `json:"agentResults"`

	RiskReport `json:"riskReport"`

	// Messages is the ordered side-channel log for this investigation id.
	Messages []BusRecord `json:"interAgentMessages"`

	// Error is set when the pipeline short-circuited; the report above then
	// holds the conservative default verdict.
	Error string `json:"error,omitempty"`
}
