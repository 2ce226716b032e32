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
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/VendorSentry/services/investigation/datatypes"
)

// WeightedPattern is one entry of a declarative detection table: a compiled
// regex with the severity and per-instance penalty its matches carry.
type WeightedPattern struct {
	Name     string
	Regex    *regexp.Regexp
	Severity datatypes.Severity
	Penalty  int
}

// PatternMatch reports all hits of one WeightedPattern in a text.
type PatternMatch struct {
	Pattern WeightedPattern
	Count   int
	Matches []string
}

// ApplyPatternSet runs every pattern over the text and returns one
// PatternMatch per pattern that hit, in table order.
func ApplyPatternSet(text string, set []WeightedPattern) []PatternMatch {
	var out []PatternMatch
	for _, p := range set {
		matches := p.Regex.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		out = append(out, PatternMatch{
			Pattern: p,
			Count:   len(matches),
			Matches: matches,
		})
	}
	return out
}

// patternTable is the YAML shape of an embedded detection table.
type patternTable struct {
	Patterns []patternSpec `yaml:"patterns"`
}

type patternSpec struct {
	Name     string             `yaml:"name"`
	Regex    string             `yaml:"regex"`
	Severity datatypes.Severity `yaml:"severity"`
	Penalty  int                `yaml:"penalty"`
}

// LoadPatternSet parses and compiles an embedded YAML detection table.
func LoadPatternSet(raw []byte) ([]WeightedPattern, error) {
	var table patternTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded pattern table: %w", err)
	}

	set := make([]WeightedPattern, 0, len(table.Patterns))
	for _, spec := range table.Patterns {
		re, err := regexp.Compile(spec.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile the regex %s: %w", spec.Regex, err)
		}
		set = append(set, WeightedPattern{
			Name:     spec.Name,
			Regex:    re,
			Severity: spec.Severity,
			Penalty:  spec.Penalty,
		})
	}
	return set, nil
}
