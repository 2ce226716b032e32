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
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// certification maps a canonical framework name to the aliases it may
// appear under in free text.
type certification struct {
	Name    string
	Aliases []string
}

// knownCertifications is the recognized framework table, matched against
// the lowercased certifications and services text.
var knownCertifications = []certification{
	{Name: "SOC 2", Aliases: []string{"soc 2", "soc2", "soc ii"}},
	{Name: "ISO 27001", Aliases: []string{"iso 27001", "iso27001"}},
	{Name: "PCI DSS", Aliases: []string{"pci", "pci dss", "pci-dss"}},
	{Name: "HIPAA", Aliases: []string{"hipaa", "health insurance portability"}},
	{Name: "GDPR", Aliases: []string{"gdpr", "general data protection"}},
	{Name: "FedRAMP", Aliases: []string{"fedramp", "fed ramp"}},
}

// industryRule describes one regulated industry: the keywords that place a
// vendor in it, the certifications that satisfy it, and the penalty for a
// gap. Rules are evaluated in order; the first keyword match wins.
type industryRule struct {
	Industry  string
	Keywords  []string
	Satisfies []string
	Penalty   int
	Gap       string
	Escalate  string // non-empty means notify the risk synthesizer
}

var industryRules = []industryRule{
	{
		Industry:  "healthcare",
		Keywords:  []string{"health", "medical", "patient", "hipaa", "clinical"},
		Satisfies: []string{"HIPAA"},
		Penalty:   25,
		Gap:       "Healthcare services offered without HIPAA compliance",
		Escalate:  "Healthcare services detected but no HIPAA compliance - HIGH RISK",
	},
	{
		Industry:  "financial",
		Keywords:  []string{"financial", "banking", "payment", "transaction", "money"},
		Satisfies: []string{"SOC 2", "ISO 27001"},
		Penalty:   20,
		Gap:       "Financial services offered without SOC 2 or ISO 27001 certification",
	},
	{
		Industry:  "government",
		Keywords:  []string{"government", "federal", "state", "public sector", "fedramp"},
		Satisfies: []string{"FedRAMP"},
		Penalty:   15,
		Gap:       "Government services offered without FedRAMP authorization",
	},
	{
		Industry:  "ecommerce",
		Keywords:  []string{"ecommerce", "e-commerce", "payment", "credit card", "shopping"},
		Satisfies: []string{"PCI DSS"},
		Penalty:   15,
		Gap:       "E-commerce services offered without PCI DSS certification",
	},
}

// controlBucket groups recognizable security-control mentions. Buckets are
// a slice so MentionedControls comes out in a stable order.
type controlBucket struct {
	Control  string
	Keywords []string
}

var securityControlBuckets = []controlBucket{
	{"encryption", []string{"encryption", "encrypted", "aes", "tls", "ssl"}},
	{"access control", []string{"access control", "authentication", "authorization", "mfa", "2fa"}},
	{"monitoring", []string{"monitoring", "logging", "audit", "siem"}},
	{"backup", []string{"backup", "disaster recovery", "business continuity"}},
}

// dataHandlingKeywords suggest the vendor processes customer data.
var dataHandlingKeywords = []string{"data", "information", "personal", "customer", "user"}

// ComplianceAgent maps the vendor's declared certifications against the
// regulatory requirements implied by its line of business and records the
// resulting gaps.
type ComplianceAgent struct {
	bus    *bus.Bus
	oracle oracle.Oracle // nil disables enrichment
}

// NewComplianceAgent builds the checker. orc may be nil.
func NewComplianceAgent(b *bus.Bus, orc oracle.Oracle) *ComplianceAgent {
	return &ComplianceAgent{bus: b, oracle: orc}
}

func (a *ComplianceAgent) Name() string { return datatypes.AgentCompliance }

func (a *ComplianceAgent) Check(ctx context.Context, sub datatypes.Submission, investigationID string) (datatypes.CheckResult, error) {
	card := newScorecard()
	details := datatypes.ComplianceDetails{Industry: "general"}
	var gaps []string

	certsText := strings.ToLower(sub.Certifications)
	servicesText := strings.ToLower(sub.ServicesDescription)
	combined := certsText + " " + servicesText

	for _, cert := range knownCertifications {
		for _, alias := range cert.Aliases {
			if strings.Contains(combined, alias) {
				details.Certifications = append(details.Certifications, cert.Name)
				break
			}
		}
	}

	if len(details.Certifications) == 0 {
		gaps = append(gaps, "No security certifications provided")
		card.penalize(20,
			"No recognized security certifications found in submission", "")
		a.bus.Finding(a.Name(), "Vendor claims no security certifications",
			datatypes.FindingWarning, investigationID)
	} else {
		card.note(fmt.Sprintf("Recognized certifications: %s",
			strings.Join(details.Certifications, ", ")))
	}

	for _, rule := range industryRules {
		if !containsAny(servicesText, rule.Keywords) {
			continue
		}
		details.Industry = rule.Industry
		card.note(fmt.Sprintf("Industry classification: %s (requires %s)",
			rule.Industry, strings.Join(rule.Satisfies, " or ")))
		if !hasAnyCertification(details.Certifications, rule.Satisfies) {
			gaps = append(gaps, rule.Gap)
			card.penalize(rule.Penalty, rule.Gap, "")
			if rule.Escalate != "" {
				a.bus.Communication(a.Name(), datatypes.AgentRisk,
					rule.Escalate, datatypes.PriorityHigh, investigationID)
			}
		}
		break
	}

	insurance := strings.ToLower(sub.InsuranceInfo)
	if insurance == "" || strings.Contains(insurance, "none") {
		gaps = append(gaps, "No liability insurance declared")
		card.penalize(15, "No liability insurance declared", "")
	} else if strings.Contains(insurance, "cyber") {
		card.note("Cyber liability insurance declared")
	} else {
		card.penalize(5, "Insurance declared without cyber liability coverage", "")
	}

	if containsAny(servicesText, dataHandlingKeywords) &&
		!strings.Contains(combined, "gdpr") && !strings.Contains(combined, "privacy") {
		gaps = append(gaps, "Handles data but mentions no privacy compliance program")
		card.penalize(10,
			"Services involve data handling but submission mentions no privacy program", "")
		a.bus.Communication(a.Name(), datatypes.AgentPrivacy,
			"Vendor handles data without a declared privacy program - please correlate with PII findings",
			datatypes.PriorityMedium, investigationID)
	}

	for _, bucket := range securityControlBuckets {
		if containsAny(combined, bucket.Keywords) {
			details.MentionedControls = append(details.MentionedControls, bucket.Control)
		}
	}
	if len(details.MentionedControls) == 0 {
		gaps = append(gaps, "No security controls mentioned")
		card.penalize(15, "Submission mentions no recognizable security controls", "")
	} else {
		card.note(fmt.Sprintf("Security controls mentioned: %s",
			strings.Join(details.MentionedControls, ", ")))
	}

	advisory := a.enrich(ctx, sub, details, card, investigationID)
	if advisory != nil {
		gaps = append(gaps, advisory.ComplianceGaps...)
	}

	details.Gaps = gaps
	details.RequiresAdditionalReview = len(gaps) > 2

	score := card.finish()
	result := datatypes.CheckResult{
		Agent:          a.Name(),
		Findings:       card.findings,
		RiskIndicators: card.riskIndicators,
		Score:          score,
		Confidence:     datatypes.ConfidenceLow,
		Compliance:     &details,
	}
	if len(details.Certifications) > 0 {
		result.Confidence = datatypes.ConfidenceMedium
	}
	if advisory != nil {
		mergeAdvisory(&result, *advisory)
	}
	return result, nil
}

func (a *ComplianceAgent) enrich(ctx context.Context, sub datatypes.Submission, details datatypes.ComplianceDetails, card *scorecard, investigationID string) *oracle.Advisory {
	if a.oracle == nil {
		return nil
	}

	a.bus.Activity(a.Name(), "Running AI compliance gap analysis...", investigationID, nil)

	rolePrompt := `You are a Compliance specialist evaluating whether a vendor meets regulatory requirements for their industry.

Return JSON with this structure:
{
  "findings": ["finding 1", "finding 2"],
  "riskIndicators": ["risk 1", "risk 2"],
  "score": <number 0-100, where 100 is fully compliant>,
  "confidence": "high" | "medium" | "low",
  "complianceGaps": ["gap 1", "gap 2"],
  "recommendations": ["recommendation 1", "recommendation 2"]
}`

	dataPrompt := fmt.Sprintf(`Evaluate this vendor's compliance posture:

Services: %s
Certifications Claimed: %s
Recognized Frameworks: %s
Industry Classification: %s
Insurance: %s

Assess:
1. What regulatory frameworks apply to this line of business?
2. What gaps exist between requirements and the certifications claimed?
3. What should the vendor be asked to provide before approval?`,
		orNotSpecified(sub.ServicesDescription), orNotSpecified(sub.Certifications),
		orNotSpecified(strings.Join(details.Certifications, ", ")),
		orNotSpecified(details.Industry), orNotSpecified(sub.InsuranceInfo))

	adv, err := a.oracle.Advise(ctx, rolePrompt, dataPrompt)
	if err != nil {
		slog.Warn("compliance enrichment failed", "error", err)
		card.note(unavailableNote)
		return nil
	}
	return &adv
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasAnyCertification(held, wanted []string) bool {
	for _, w := range wanted {
		for _, h := range held {
			if h == w {
				return true
			}
		}
	}
	return false
}
