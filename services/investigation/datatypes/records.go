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

// Agent display names used on bus records and check results.
const (
	AgentIntake     = "Intake Agent"
	AgentDigital    = "Digital Forensics Agent"
	AgentPrivacy    = "Privacy Guardian Agent"
	AgentFinancial  = "Financial Sleuth Agent"
	AgentCompliance = "Compliance Orchestrator Agent"
	AgentRisk       = "Risk Synthesizer Agent"
	AgentSystem     = "System"
)

// RecordKind discriminates the three side-channel record shapes.
type RecordKind string

const (
	RecordActivity      RecordKind = "activity"
	RecordCommunication RecordKind = "communication"
	RecordFinding       RecordKind = "finding"
)

// Notice priorities on communication records.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Finding severities on finding records.
const (
	FindingInfo     = "info"
	FindingWarning  = "warning"
	FindingCritical = "critical"
)

// BusRecord is one entry on the investigation side channel.
//
// The three kinds populate different field subsets: activity records carry
// Agent/Action/Metadata, communication records carry From/To/Message/Priority,
// finding records carry Agent/Finding/Severity. Inter-checker communications
// are observability artifacts only; no checker waits on another's notice.
type BusRecord struct {
	ID              string     `json:"id"`
	Kind            RecordKind `json:"type"`
	Timestamp       time.Time  `json:"timestamp"`
	InvestigationID string     `json:"investigationId"`

	Agent    string         `json:"agent,omitempty"`
	Action   string         `json:"action,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`

	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Message  string `json:"message,omitempty"`
	Priority string `json:"priority,omitempty"`

	Finding  string `json:"finding,omitempty"`
	Severity string `json:"severity,omitempty"`
}
