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
	"errors"
	"net/http"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
	"github.com/AleutianAI/VendorSentry/services/oracle"
)

// roundTripFunc adapts a function to http.RoundTripper so tests can script
// the website probe without a network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// reachableClient answers every probe with 200 OK.
func reachableClient() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
	})}
}

// unreachableClient fails every probe.
func unreachableClient() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
}

// stubOracle returns a fixed advisory or error.
type stubOracle struct {
	advisory oracle.Advisory
	err      error
}

func (s *stubOracle) Advise(_ context.Context, _, _ string) (oracle.Advisory, error) {
	if s.err != nil {
		return oracle.Advisory{}, s.err
	}
	return s.advisory, nil
}

// completeSubmission is a well-formed vendor submission used across tests.
func completeSubmission() datatypes.Submission {
	return datatypes.Submission{
		CompanyName:         "Acme Technology Partners",
		TaxID:               "12-3456789",
		Email:               "ops@acmetech.com",
		Phone:               "415-555-0134",
		Address:             "100 Market Street, San Francisco, CA",
		BusinessType:        "LLC",
		ServicesDescription: "Cloud infrastructure consulting",
		YearsInBusiness:     "10",
		AnnualRevenue:       "$5,000,000",
		InsuranceInfo:       "General liability and cyber insurance",
		Certifications:      "SOC 2, ISO 27001",
		Website:             "https://www.acmetech.com",
	}
}

func hasString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
