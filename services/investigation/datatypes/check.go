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
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfidenceLevel expresses how much weight a checker puts behind its own
// score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Weight maps a confidence level onto the 1..3 scale used for the
// majority-vote overall confidence. Unknown values count as low.
func (c ConfidenceLevel) Weight() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// Severity classifies how damaging a detected pattern is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// UnmarshalYAML rejects severities outside the known set so a typo in an
// embedded rule table fails at load time instead of silently scoring wrong.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	incoming := Severity(raw)
	switch incoming {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		*s = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for Severity: %q", incoming)
	}
}

// PIIDetection reports one class of sensitive identifier found in a
// submission.
type PIIDetection struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Severity Severity `json:"severity"`
	// Samples holds at most two masked examples of the matched text.
	Samples []string `json:"samples"`
}

// maskFiller replaces the hidden middle of a masked sample.
const maskFiller = "*"

// MaskSample redacts a matched PII string for display. The first and last
// two characters survive; everything between becomes filler. Strings of four
// characters or fewer are replaced wholesale so nothing of them leaks.
func MaskSample(s string) string {
	if len(s) <= 4 {
		return strings.Repeat(maskFiller, 3)
	}
	return s[:2] + strings.Repeat(maskFiller, len(s)-4) + s[len(s)-2:]
}

// CheckResult is the structured output of a single checker.
//
// Findings are human-readable sentences; RiskIndicators are terse tags. Score
// is 0..100 with 100 meaning least risky. At most one of the detail pointers
// is set, identifying which checker produced the result; a fallback result
// synthesized by the run boundary carries none of them, and Error holds the
// failure message.
type CheckResult struct {
	Agent          string          `json:"agent"`
	Findings       []string        `json:"findings"`
	RiskIndicators []string        `json:"riskIndicators"`
	Score          int             `json:"score"`
	Confidence     ConfidenceLevel `json:"confidence"`
	Error          string          `json:"error,omitempty"`

	Intake     *IntakeDetails     `json:"intake,omitempty"`
	Digital    *DigitalDetails    `json:"digital,omitempty"`
	Privacy    *PrivacyDetails    `json:"privacy,omitempty"`
	Financial  *FinancialDetails  `json:"financial,omitempty"`
	Compliance *ComplianceDetails `json:"compliance,omitempty"`
}

// IntakeDetails carries the intake validator's structured extras.
type IntakeDetails struct {
	MissingFields          []string `json:"missingFields"`
	CompletenessPercentage int      `json:"completenessPercentage"`
}

// DigitalDetails carries the digital-presence checker's structured extras.
// SuspiciousTLD is the explicit flag behind the synthesizer's
// suspicious-footprint addition; it replaces sniffing indicator strings.
type DigitalDetails struct {
	WebsiteProvided  bool `json:"websiteProvided"`
	EmailDomainMatch bool `json:"emailDomainMatch"`
	SuspiciousTLD    bool `json:"suspiciousTld"`
	WebsiteReachable bool `json:"websiteReachable"`
}

// PrivacyDetails carries the PII scanner's structured extras.
type PrivacyDetails struct {
	Detections           []PIIDetection `json:"piiDetected"`
	PrivacyRating        string         `json:"privacyRating"`
	RequiresDataMasking  bool           `json:"requiresDataMasking"`
	HandlesPII           bool           `json:"handlesPii"`
	HasCriticalDetection bool           `json:"hasCriticalDetection"`
}

// FinancialDetails carries the financial checker's structured extras.
//
// TaxIDIssue is true when the tax identifier was absent, malformed, or had an
// invalid IRS prefix; HighRevenueNewCompany is true when a company under two
// years old declared more than a million in revenue. Both are read by the
// risk synthesizer instead of re-parsing indicator text.
type FinancialDetails struct {
	TaxIDProvided         bool `json:"taxIdProvided"`
	TaxIDFormatValid      bool `json:"taxIdFormatValid"`
	TaxIDPrefixValid      bool `json:"taxIdPrefixValid"`
	TaxIDIssue            bool `json:"taxIdIssue"`
	RevenueProvided       bool `json:"revenueProvided"`
	YearsInBusiness       int  `json:"yearsInBusiness"`
	HasInsurance          bool `json:"hasInsurance"`
	HighRevenueNewCompany bool `json:"highRevenueNewCompany"`
}

// ComplianceDetails carries the compliance checker's structured extras.
type ComplianceDetails struct {
	Certifications           []string `json:"certifications"`
	Industry                 string   `json:"industry"`
	Gaps                     []string `json:"complianceGaps"`
	MentionedControls        []string `json:"mentionedControls"`
	RequiresAdditionalReview bool     `json:"requiresAdditionalReview"`
}

// CheckSet groups the five checker results for one investigation.
type CheckSet struct {
	Intake     CheckResult `json:"intake"`
	Digital    CheckResult `json:"digital"`
	Privacy    CheckResult `json:"privacy"`
	Financial  CheckResult `json:"financial"`
	Compliance CheckResult `json:"compliance"`
}

// Scores returns the per-checker score snapshot keyed the way the risk
// report records it.
func (s CheckSet) Scores() map[string]int {
	return map[string]int{
		"intake":     s.Intake.Score,
		"digital":    s.Digital.Score,
		"privacy":    s.Privacy.Score,
		"financial":  s.Financial.Score,
		"compliance": s.Compliance.Score,
	}
}

// All returns the five results in a fixed order.
func (s CheckSet) All() []CheckResult {
	return []CheckResult{s.Intake, s.Digital, s.Privacy, s.Financial, s.Compliance}
}
