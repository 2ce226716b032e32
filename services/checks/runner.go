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

	"github.com/AleutianAI/VendorSentry/services/investigation/bus"
	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// fallbackScore is the neutral score reported for a checker that failed;
// the synthesizer treats it as a middling signal rather than an alarm.
const fallbackScore = 50

// RunSafely executes one checker and guarantees a usable result: errors and
// panics are converted into a neutral fallback CheckResult so a single
// failing checker never takes down the investigation. Start, completion and
// failure are announced on the bus.
func RunSafely(ctx context.Context, c Checker, sub datatypes.Submission, investigationID string, b *bus.Bus) (result datatypes.CheckResult) {
	name := c.Name()
	b.Activity(name, "Starting analysis...", investigationID,
		map[string]any{"status": "running"})

	defer func() {
		if r := recover(); r != nil {
			slog.Error("checker panicked", "agent", name, "panic", r)
			result = fallbackResult(name, fmt.Sprintf("panic: %v", r))
			b.Activity(name, "Analysis failed", investigationID,
				map[string]any{"status": "error"})
		}
	}()

	result, err := c.Check(ctx, sub, investigationID)
	if err != nil {
		slog.Error("checker failed", "agent", name, "error", err)
		b.Activity(name, "Analysis failed", investigationID,
			map[string]any{"status": "error"})
		return fallbackResult(name, err.Error())
	}

	b.Activity(name, "Analysis complete", investigationID,
		map[string]any{"status": "complete", "score": result.Score})
	return result
}

// fallbackResult is the substitute for a checker that could not finish.
func fallbackResult(agent, msg string) datatypes.CheckResult {
	return datatypes.CheckResult{
		Agent:          agent,
		Findings:       []string{fmt.Sprintf("Agent encountered an error: %s", msg)},
		RiskIndicators: []string{"Unable to complete analysis"},
		Score:          fallbackScore,
		Confidence:     datatypes.ConfidenceLow,
		Error:          msg,
	}
}
