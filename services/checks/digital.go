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
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AleutianAI/VendorSentry/pkg/validation"
	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// suspiciousTLDs are low-reputation top-level domains common in throwaway
// registrations.
var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".buzz", ".club"}

// freeEmailProviders are consumer mail domains; a business submitting one
// instead of a corporate domain loses points.
var freeEmailProviders = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"aol.com":     true,
}

// genericNameTerms are filler business words; a name built from several of
// them is a weak legitimacy signal.
var genericNameTerms = []string{"solutions", "services", "group", "international", "global"}

// DefaultProbeTimeout bounds the website reachability probe.
const DefaultProbeTimeout = 5 * time.Second

// DigitalAgent investigates the vendor's declared web presence: website
// shape and reputation heuristics, a best-effort reachability probe, and
// email/website domain consistency. An optional oracle advisory is averaged
// into the rule-based score.
type DigitalAgent struct {
	bus    *bus.Bus
	oracle oracle.Oracle // nil disables enrichment
	client *http.Client
}

// NewDigitalAgent builds the checker. orc may be nil (enrichment disabled);
// client may be nil, in which case a probe client with DefaultProbeTimeout
// is used.
func NewDigitalAgent(b *bus.Bus, orc oracle.Oracle, client *http.Client) *DigitalAgent {
	if client == nil {
		client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	return &DigitalAgent{bus: b, oracle: orc, client: client}
}

func (a *DigitalAgent) Name() string { return datatypes.AgentDigital }

// Check scores the digital footprint. Network and oracle failures are
// converted to penalties or notes; they never escape the checker.
func (a *DigitalAgent) Check(ctx context.Context, sub datatypes.Submission, investigationID string) (datatypes.CheckResult, error) {
	card := newScorecard()
	details := datatypes.DigitalDetails{WebsiteProvided: sub.Website != ""}
	var advisory *oracle.Advisory

	if !details.WebsiteProvided {
		card.penalize(20,
			"No company website provided - unable to verify digital presence",
			"No website provided")
		a.bus.Finding(a.Name(), "No website provided for verification",
			datatypes.FindingWarning, investigationID)
	} else if u, ok := parseWebsite(sub.Website); !ok {
		card.penalize(20,
			fmt.Sprintf("Website URL format invalid: %s", sub.Website),
			"Invalid website URL format")
	} else {
		host := u.Hostname()
		card.note(fmt.Sprintf("Website URL: %s", host))

		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				details.SuspiciousTLD = true
				card.penalize(25,
					fmt.Sprintf("Domain uses suspicious TLD: %s", host),
					"Suspicious domain extension")
				a.bus.Communication(a.Name(), datatypes.AgentRisk,
					fmt.Sprintf("Suspicious domain TLD detected: %s", host),
					datatypes.PriorityHigh, investigationID)
				break
			}
		}

		if validation.IsIPv4Address(host) {
			card.penalize(30,
				"Website URL is an IP address - professional businesses use domain names",
				"Website is IP address, not domain")
		}

		if a.probe(ctx, u.String()) {
			details.WebsiteReachable = true
			card.note("Website is reachable")
		} else {
			card.penalize(15,
				"Unable to reach website - may be offline or blocking automated requests",
				"Website unreachable")
			a.bus.Finding(a.Name(), fmt.Sprintf("Website unreachable: %s", u.String()),
				datatypes.FindingWarning, investigationID)
		}

		advisory = a.enrich(ctx, sub, card, investigationID)
	}

	// Email/website consistency runs whenever both values exist, even when
	// the website did not parse; the comparison works on raw labels.
	if sub.Email != "" && sub.Website != "" {
		emailDomain := strings.ToLower(emailDomain(sub.Email))
		websiteLabel := strings.ToLower(firstDomainLabel(sub.Website))

		switch {
		case freeEmailProviders[emailDomain]:
			card.penalize(15,
				"Company uses free email provider - professional businesses typically use custom domains",
				"Using free email provider")
			a.bus.Finding(a.Name(),
				"Vendor using free email provider instead of corporate domain",
				datatypes.FindingWarning, investigationID)
		case websiteLabel != "" && !strings.Contains(emailDomain, websiteLabel):
			card.penalize(10,
				"Email domain does not match company website",
				"Email domain does not match website")
		default:
			details.EmailDomainMatch = true
			card.note("Email domain matches company website")
		}
	}

	if name := sub.CompanyName; name != "" {
		lower := strings.ToLower(name)
		generic := 0
		for _, term := range genericNameTerms {
			if strings.Contains(lower, term) {
				generic++
			}
		}
		if generic >= 2 {
			card.penalize(10, "Company name uses multiple generic business terms", "")
		}
		if len(name) < 5 {
			card.penalize(5, "Company name is unusually short", "")
		}
	}

	score := card.finish()
	result := datatypes.CheckResult{
		Agent:          a.Name(),
		Findings:       card.findings,
		RiskIndicators: card.riskIndicators,
		Score:          score,
		Confidence:     datatypes.ConfidenceLow,
		Digital:        &details,
	}
	if details.WebsiteProvided {
		result.Confidence = datatypes.ConfidenceMedium
	}
	if advisory != nil {
		mergeAdvisory(&result, *advisory)
	}
	return result, nil
}

// probe performs a best-effort HEAD request. Any failure means unreachable;
// it is a scoring signal, not an error.
func (a *DigitalAgent) probe(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// enrich runs the oracle advisory for the digital footprint. A nil return
// means the oracle was disabled or failed; the caller continues rule-based.
func (a *DigitalAgent) enrich(ctx context.Context, sub datatypes.Submission, card *scorecard, investigationID string) *oracle.Advisory {
	if a.oracle == nil {
		return nil
	}

	a.bus.Activity(a.Name(), "Running AI analysis of digital footprint...", investigationID, nil)

	rolePrompt := `You are a Digital Forensics specialist analyzing a vendor's legitimacy based on their digital presence.

Your job is to assess authenticity indicators from the provided information.

Return JSON with this structure:
{
  "findings": ["finding 1", "finding 2", "finding 3"],
  "riskIndicators": ["risk 1", "risk 2"],
  "score": <number 0-100, where 100 is most legitimate>,
  "confidence": "high" | "medium" | "low",
  "legitimacyConcerns": ["concern 1", "concern 2"]
}`

	dataPrompt := fmt.Sprintf(`Analyze this vendor's digital presence:

Company Name: %s
Website: %s
Business Type: %s
Years in Business: %s
Email Domain: %s

Assess:
1. Does the email domain match the website domain? If not, is it suspicious?
2. Does the company name sound legitimate for their business type?
3. Are there any red flags in the digital footprint?
4. What additional verification would you recommend?`,
		sub.CompanyName, sub.Website,
		orNotSpecified(sub.BusinessType), orNotSpecified(sub.YearsInBusiness),
		orNotSpecified(emailDomain(sub.Email)))

	adv, err := a.oracle.Advise(ctx, rolePrompt, dataPrompt)
	if err != nil {
		slog.Warn("digital footprint enrichment failed", "error", err)
		card.note(unavailableNote)
		return nil
	}

	if len(adv.LegitimacyConcerns) > 0 {
		a.bus.Communication(a.Name(), datatypes.AgentRisk,
			fmt.Sprintf("AI detected legitimacy concerns: %s", strings.Join(adv.LegitimacyConcerns, "; ")),
			datatypes.PriorityMedium, investigationID)
	}
	return &adv
}

// parseWebsite parses a declared website, tolerating a missing scheme.
func parseWebsite(raw string) (*url.URL, bool) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

// emailDomain returns the part after '@', or "" when absent.
func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}

// firstDomainLabel strips scheme and leading www. from a website value and
// returns the first dot-separated label of what remains.
func firstDomainLabel(website string) string {
	domain := website
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.Index(domain, "."); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

// orNotSpecified substitutes prompt-friendly text for empty values.
func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
