// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ingest extracts structured submission fields from unstructured
// vendor documents (OCR output, pasted onboarding forms, emails).
//
// Extraction is best-effort pattern matching. Every field carries its own
// confidence so downstream review can distinguish a labeled "Tax ID:" hit
// from a bare number found mid-text.
package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// ExtractedField is one parsed value plus how sure the parser is about it.
type ExtractedField struct {
	Value      string                    `json:"value"`
	Confidence datatypes.ConfidenceLevel `json:"confidence"`
}

// ParsedDocument holds every field the parser attempts, found or not.
type ParsedDocument struct {
	CompanyName     ExtractedField `json:"companyName"`
	TaxID           ExtractedField `json:"taxId"`
	Email           ExtractedField `json:"email"`
	Phone           ExtractedField `json:"phone"`
	Address         ExtractedField `json:"address"`
	BusinessType    ExtractedField `json:"businessType"`
	Services        ExtractedField `json:"services"`
	YearsInBusiness ExtractedField `json:"yearsInBusiness"`
	AnnualRevenue   ExtractedField `json:"annualRevenue"`
	Insurance       ExtractedField `json:"insurance"`
	Certifications  ExtractedField `json:"certifications"`
}

// ToSubmission maps the parsed fields onto a submission, dropping the
// per-field confidence.
func (d ParsedDocument) ToSubmission() datatypes.Submission {
	return datatypes.Submission{
		CompanyName:         d.CompanyName.Value,
		TaxID:               d.TaxID.Value,
		Email:               d.Email.Value,
		Phone:               d.Phone.Value,
		Address:             d.Address.Value,
		BusinessType:        d.BusinessType.Value,
		ServicesDescription: d.Services.Value,
		YearsInBusiness:     d.YearsInBusiness.Value,
		AnnualRevenue:       d.AnnualRevenue.Value,
		InsuranceInfo:       d.Insurance.Value,
		Certifications:      d.Certifications.Value,
	}
}

var (
	companyNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Company\s*Name[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)Business\s*Name[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)Legal\s*Name[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)Name\s*of\s*Business[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?m)^([A-Z][A-Za-z\s&,.]+(?:Inc|LLC|Corp|Corporation|Ltd|Limited))`),
	}
	taxIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Tax\s*ID[:\s]+(\d{2}-?\d{7})`),
		regexp.MustCompile(`(?i)EIN[:\s]+(\d{2}-?\d{7})`),
		regexp.MustCompile(`(?i)Employer\s*Identification\s*Number[:\s]+(\d{2}-?\d{7})`),
		regexp.MustCompile(`\b(\d{2}-\d{7})\b`),
	}
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Phone[:\s]+([+]?1?\s*\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4})`),
		regexp.MustCompile(`(?i)Tel[:\s]+([+]?1?\s*\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4})`),
		regexp.MustCompile(`\b([+]?1?\s*\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4})\b`),
	}
	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Address[:\s]+([^\n]+(?:\n[^\n]+)?)`),
		regexp.MustCompile(`(?i)Street[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)[^\n]+)`),
	}
	servicesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Services[:\s]+([^\n]+(?:\n[^\n]+)*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?i)Description[:\s]+([^\n]+(?:\n[^\n]+)*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?i)Business\s+Description[:\s]+([^\n]+(?:\n[^\n]+)*?)(?:\n\n|\z)`),
	}
	yearsPattern    = regexp.MustCompile(`(?i)Years\s+in\s+Business[:\s]+(\d+)`)
	foundedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Established[:\s]+(\d{4})`),
		regexp.MustCompile(`(?i)Founded[:\s]+(\d{4})`),
		regexp.MustCompile(`(?i)Since[:\s]+(\d{4})`),
	}
	revenuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Annual\s+Revenue[:\s]+\$?([\d,]+(?:\.\d{2})?)\s*([MB])?`),
		regexp.MustCompile(`(?i)Revenue[:\s]+\$?([\d,]+(?:\.\d{2})?)\s*([MB])?`),
	}
	insurancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Insurance[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)Policy[:\s#]+([^\n]+)`),
		regexp.MustCompile(`(?i)GL\s+Policy[:\s#]+([^\n]+)`),
	}
	certificationTable = []struct {
		pattern *regexp.Regexp
		label   string
	}{
		{regexp.MustCompile(`(?i)SOC\s*2`), "SOC2 Type II"},
		{regexp.MustCompile(`(?i)ISO\s*27001`), "ISO 27001"},
		{regexp.MustCompile(`(?i)PCI\s*DSS`), "PCI DSS"},
		{regexp.MustCompile(`(?i)HIPAA`), "HIPAA Compliant"},
	}
	businessTypeTable = []struct {
		pattern *regexp.Regexp
		label   string
	}{
		{regexp.MustCompile(`(?i)software\s+development|software\s+engineering|technology\s+services`), "Software Development"},
		{regexp.MustCompile(`(?i)consulting|advisory|professional\s+services`), "Consulting"},
		{regexp.MustCompile(`(?i)manufacturing|production|fabrication`), "Manufacturing"},
		{regexp.MustCompile(`(?i)retail|e-commerce|online\s+store`), "Retail"},
		{regexp.MustCompile(`(?i)healthcare|medical|health\s+services`), "Healthcare"},
		{regexp.MustCompile(`(?i)financial|banking|investment`), "Financial Services"},
		{regexp.MustCompile(`(?i)construction|building|contractor`), "Construction"},
	}
)

// ParseVendorDocument extracts every supported field from raw document
// text. Empty input yields a document of empty low-confidence fields.
func ParseVendorDocument(text string) ParsedDocument {
	if strings.TrimSpace(text) == "" {
		return ParsedDocument{
			CompanyName: notFound(), TaxID: notFound(), Email: notFound(),
			Phone: notFound(), Address: notFound(), BusinessType: notFound(),
			Services: notFound(), YearsInBusiness: notFound(), AnnualRevenue: notFound(),
			Insurance: notFound(), Certifications: notFound(),
		}
	}

	return ParsedDocument{
		CompanyName:     extractCompanyName(text),
		TaxID:           extractTaxID(text),
		Email:           extractEmail(text),
		Phone:           firstMatch(text, phonePatterns, datatypes.ConfidenceHigh),
		Address:         extractAddress(text),
		BusinessType:    extractBusinessType(text),
		Services:        extractServices(text),
		YearsInBusiness: extractYears(text),
		AnnualRevenue:   extractRevenue(text),
		Insurance:       firstMatch(text, insurancePatterns, datatypes.ConfidenceHigh),
		Certifications:  extractCertifications(text),
	}
}

func notFound() ExtractedField {
	return ExtractedField{Confidence: datatypes.ConfidenceLow}
}

func firstMatch(text string, patterns []*regexp.Regexp, conf datatypes.ConfidenceLevel) ExtractedField {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return ExtractedField{Value: strings.TrimSpace(m[1]), Confidence: conf}
		}
	}
	return notFound()
}

func extractCompanyName(text string) ExtractedField {
	if f := firstMatch(text, companyNamePatterns, datatypes.ConfidenceHigh); f.Value != "" {
		return f
	}

	// Fall back to a plausible capitalized line near the top.
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 5 && len(trimmed) < 60 &&
			trimmed[0] >= 'A' && trimmed[0] <= 'Z' {
			return ExtractedField{Value: trimmed, Confidence: datatypes.ConfidenceMedium}
		}
	}
	return notFound()
}

func extractTaxID(text string) ExtractedField {
	f := firstMatch(text, taxIDPatterns, datatypes.ConfidenceHigh)
	if f.Value == "" {
		return f
	}
	// Normalize to the dashed EIN form.
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, f.Value)
	if len(digits) == 9 {
		f.Value = digits[:2] + "-" + digits[2:]
	}
	return f
}

func extractEmail(text string) ExtractedField {
	if m := emailPattern.FindString(text); m != "" {
		return ExtractedField{Value: m, Confidence: datatypes.ConfidenceHigh}
	}
	return notFound()
}

func extractAddress(text string) ExtractedField {
	f := firstMatch(text, addressPatterns, datatypes.ConfidenceHigh)
	f.Value = strings.TrimSpace(strings.ReplaceAll(f.Value, "\n", ", "))
	return f
}

func extractBusinessType(text string) ExtractedField {
	for _, entry := range businessTypeTable {
		if entry.pattern.MatchString(text) {
			return ExtractedField{Value: entry.label, Confidence: datatypes.ConfidenceMedium}
		}
	}
	return notFound()
}

func extractServices(text string) ExtractedField {
	f := firstMatch(text, servicesPatterns, datatypes.ConfidenceHigh)
	f.Value = strings.TrimSpace(strings.ReplaceAll(f.Value, "\n", " "))
	return f
}

func extractYears(text string) ExtractedField {
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		return ExtractedField{Value: m[1], Confidence: datatypes.ConfidenceHigh}
	}
	// A founding year converts to an age.
	for _, p := range foundedPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			year, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			age := time.Now().Year() - year
			if age < 0 {
				age = 0
			}
			return ExtractedField{Value: strconv.Itoa(age), Confidence: datatypes.ConfidenceHigh}
		}
	}
	return notFound()
}

func extractRevenue(text string) ExtractedField {
	for _, p := range revenuePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount := strings.ReplaceAll(m[1], ",", "")
		switch m[2] {
		case "M", "m":
			amount = "$" + amount + "M"
		case "B", "b":
			amount = "$" + amount + "B"
		default:
			amount = "$" + amount
		}
		return ExtractedField{Value: amount, Confidence: datatypes.ConfidenceMedium}
	}
	return notFound()
}

func extractCertifications(text string) ExtractedField {
	var certs []string
	for _, entry := range certificationTable {
		if entry.pattern.MatchString(text) {
			certs = append(certs, entry.label)
		}
	}
	if len(certs) == 0 {
		return notFound()
	}
	return ExtractedField{Value: strings.Join(certs, ", "), Confidence: datatypes.ConfidenceHigh}
}
