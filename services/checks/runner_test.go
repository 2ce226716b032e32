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
	"strings"
	"testing"

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// scriptedChecker is a Checker stub whose behavior is fixed up front.
type scriptedChecker struct {
	name   string
	result datatypes.CheckResult
	err    error
	panics bool
}

func (c *scriptedChecker) Name() string { return c.name }

func (c *scriptedChecker) Check(context.Context, datatypes.Submission, string) (datatypes.CheckResult, error) {
	if c.panics {
		panic("scripted panic")
	}
	return c.result, c.err
}

func TestRunSafelyPassesThroughResult(t *testing.T) {
	b := bus.New()
	c := &scriptedChecker{
		name:   "Stub Agent",
		result: datatypes.CheckResult{Agent: "Stub Agent", Score: 88, Confidence: datatypes.ConfidenceHigh},
	}

	res := RunSafely(context.Background(), c, datatypes.Submission{}, "inv-1", b)

	if res.Score != 88 || res.Error != "" {
		t.Errorf("result = %+v, want the checker's own result", res)
	}

	acts := b.RecordsOfKind("inv-1", datatypes.RecordActivity)
	if len(acts) != 2 {
		t.Fatalf("activity records = %d, want start and completion", len(acts))
	}
	if acts[0].Metadata["status"] != "running" {
		t.Errorf("first activity status = %v, want running", acts[0].Metadata["status"])
	}
	if acts[1].Metadata["status"] != "complete" || acts[1].Metadata["score"] != 88 {
		t.Errorf("completion metadata = %v, want complete with score 88", acts[1].Metadata)
	}
}

func TestRunSafelyConvertsError(t *testing.T) {
	b := bus.New()
	c := &scriptedChecker{name: "Stub Agent", err: errors.New("upstream lookup failed")}

	res := RunSafely(context.Background(), c, datatypes.Submission{}, "inv-2", b)

	if res.Score != fallbackScore {
		t.Errorf("score = %d, want fallback %d", res.Score, fallbackScore)
	}
	if res.Error != "upstream lookup failed" {
		t.Errorf("error = %q, want the checker's error", res.Error)
	}
	if res.Confidence != datatypes.ConfidenceLow {
		t.Errorf("confidence = %q, want low", res.Confidence)
	}
	if len(res.Findings) != 1 || !strings.HasPrefix(res.Findings[0], "Agent encountered an error:") {
		t.Errorf("findings = %v, want a single error finding", res.Findings)
	}

	acts := b.RecordsOfKind("inv-2", datatypes.RecordActivity)
	if len(acts) != 2 || acts[1].Metadata["status"] != "error" {
		t.Errorf("activity records = %+v, want an error status", acts)
	}
}

func TestRunSafelyRecoversPanic(t *testing.T) {
	b := bus.New()
	c := &scriptedChecker{name: "Stub Agent", panics: true}

	res := RunSafely(context.Background(), c, datatypes.Submission{}, "inv-3", b)

	if res.Score != fallbackScore {
		t.Errorf("score = %d, want fallback %d", res.Score, fallbackScore)
	}
	if !strings.Contains(res.Error, "scripted panic") {
		t.Errorf("error = %q, want the panic message", res.Error)
	}
	if !hasString(res.RiskIndicators, "Unable to complete analysis") {
		t.Errorf("risk indicators = %v, want the fallback indicator", res.RiskIndicators)
	}

	acts := b.RecordsOfKind("inv-3", datatypes.RecordActivity)
	if len(acts) != 2 || acts[1].Metadata["status"] != "error" {
		t.Errorf("activity records = %+v, want an error status", acts)
	}
}
