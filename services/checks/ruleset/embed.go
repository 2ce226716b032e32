// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ruleset embeds the declarative detection tables shipped with the
// binary. Keeping the tables in YAML makes the scoring policy reviewable
// and testable without touching checker code.
package ruleset

import _ "embed"

// PIIPatterns is the sensitive-identifier detection table used by the
// privacy checker: one entry per identifier class with its regex, severity,
// and per-instance penalty.
//
//go:embed pii_patterns.yaml
var PIIPatterns []byte
