// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command vendorsentry runs the vendor onboarding risk service.
//
// # Configuration
//
// An optional config.yaml next to the binary provides defaults;
// environment variables override it:
//
//   - VENDORSENTRY_PORT: HTTP server port (default: 12310)
//   - VENDORSENTRY_STORAGE_DIR: investigation store path (default: ./data/investigations)
//   - VENDORSENTRY_ORACLE_ENABLED: "true" enables AI enrichment
//   - ORACLE_API_KEY: oracle API key (or /run/secrets/oracle_api_key)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector
//
// # Usage
//
//	# Serve the HTTP API
//	vendorsentry serve
//
//	# One-shot investigation of a submission file
//	vendorsentry investigate submission.json
//
//	# Extract submission fields from a raw document
//	vendorsentry parse vendor_doc.txt
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var config FileConfig

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// config.yaml is optional; env vars and flags cover everything.
		yamlFile, err := os.ReadFile("config.yaml")
		if err != nil {
			return
		}
		if err := yaml.Unmarshal(yamlFile, &config); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}
}
