// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

// readLogFile decodes the day-stamped log file written under dir.
func readLogFile(t *testing.T, dir, service string) []map[string]any {
	t.Helper()

	name := service + "_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestFileLoggingWritesJSON(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Service: "gateway", LogDir: dir, Quiet: true})

	logger.Info("investigation started", "investigation_id", "inv-1")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readLogFile(t, dir, "gateway")
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0]["msg"] != "investigation started" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["service"] != "gateway" {
		t.Errorf("service = %v, want gateway", entries[0]["service"])
	}
	if entries[0]["investigation_id"] != "inv-1" {
		t.Errorf("investigation_id = %v", entries[0]["investigation_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Service: "cli", LogDir: dir, Quiet: true, Level: LevelWarn})

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("kept as well")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readLogFile(t, dir, "cli")
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 at warn level", len(entries))
	}
	if entries[0]["msg"] != "kept" || entries[1]["msg"] != "kept as well" {
		t.Errorf("kept the wrong records: %v", entries)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Service: "cli", LogDir: dir, Quiet: true})

	child := logger.With("request_id", "req-7")
	child.Info("handled")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readLogFile(t, dir, "cli")
	if len(entries) != 1 || entries[0]["request_id"] != "req-7" {
		t.Errorf("entries = %v, want request_id from With", entries)
	}
}

func TestQuietWithoutFileDiscards(t *testing.T) {
	logger := New(Config{Quiet: true})

	// Nothing to write to; must not panic and Close has nothing to release.
	logger.Info("goes nowhere")
	if err := logger.Close(); err != nil {
		t.Errorf("Close = %v, want nil without a file", err)
	}
}

func TestDefaultServiceFileName(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Quiet: true})

	logger.Info("named by fallback")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readLogFile(t, dir, "vendorsentry")
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 in the fallback-named file", len(entries))
	}
}
