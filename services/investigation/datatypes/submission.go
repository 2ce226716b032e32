// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the shared data model for vendor investigations:
// the submitted intake record, per-checker results, the synthesized risk
// report, and the side-channel records emitted while an investigation runs.
//
// Types here are plain data. Once a checker returns a CheckResult, and once
// the coordinator assembles an Investigation, nothing mutates them again.
package datatypes

import "strings"

// Submission is the raw vendor-onboarding record under investigation.
//
// Every field is free text and optional; absence is meaningful and drives
// penalties in the checkers. A Submission is immutable once an investigation
// starts.
type Submission struct {
	CompanyName         string `json:"companyName"`
	TaxID               string `json:"taxId"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	BusinessType        string `json:"businessType"`
	ServicesDescription string `json:"servicesDescription"`
	YearsInBusiness     string `json:"yearsInBusiness"`
	AnnualRevenue       string `json:"annualRevenue"`
	InsuranceInfo       string `json:"insuranceInfo"`
	Certifications      string `json:"certifications"`
	Website             string `json:"website"`
}

// Field is one named submission value.
type Field struct {
	Name  string
	Value string
}

// Fields returns all submission fields in a fixed order.
//
// The order matters for anything that serializes the submission (the PII
// scanner's text blob, oracle prompts): a stable order keeps repeated runs
// on the same submission byte-identical.
func (s Submission) Fields() []Field {
	return []Field{
		{"companyName", s.CompanyName},
		{"taxId", s.TaxID},
		{"email", s.Email},
		{"phone", s.Phone},
		{"address", s.Address},
		{"businessType", s.BusinessType},
		{"servicesDescription", s.ServicesDescription},
		{"yearsInBusiness", s.YearsInBusiness},
		{"annualRevenue", s.AnnualRevenue},
		{"insuranceInfo", s.InsuranceInfo},
		{"certifications", s.Certifications},
		{"website", s.Website},
	}
}

// PopulatedFields returns only the fields with non-blank values.
func (s Submission) PopulatedFields() []Field {
	var out []Field
	for _, f := range s.Fields() {
		if strings.TrimSpace(f.Value) != "" {
			out = append(out, f)
		}
	}
	return out
}

// AsText serializes the populated fields as one "key: value" line per field.
// This is the blob the PII scanner and the oracle prompts work over.
func (s Submission) AsText() string {
	var b strings.Builder
	for _, f := range s.PopulatedFields() {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
