// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL targets NVIDIA NIM, which speaks the OpenAI chat
	// completions protocol.
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"

	// DefaultModel is fast and available on the free tier.
	DefaultModel = "meta/llama-3.1-8b-instruct"

	// DefaultTimeout bounds a single advisory call.
	DefaultTimeout = 30 * time.Second

	secretPath = "/run/secrets/oracle_api_key"
)

// ClientConfig configures the NIM-backed oracle client. Zero values fall
// back to the defaults above; an empty APIKey falls back to the
// ORACLE_API_KEY environment variable, then the container secret.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat completions endpoint and parses the
// response into an Advisory. It implements Oracle.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Client, resolving the API key from config, environment,
// or container secret in that order.
func NewClient(cfg ClientConfig) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ORACLE_API_KEY")
	}
	if apiKey == "" {
		keyBytes, err := os.ReadFile(secretPath)
		if err != nil {
			slog.Error("oracle API key not configured and secret not found", "path", secretPath)
			return nil, fmt.Errorf("oracle API key not configured")
		}
		apiKey = strings.TrimSpace(string(keyBytes))
		slog.Info("Read the oracle API key from container secrets")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
		slog.Warn("oracle model not set, using default", "model", model)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	apiCfg := openai.DefaultConfig(apiKey)
	apiCfg.BaseURL = baseURL

	slog.Info("Initializing enrichment oracle client", "base_url", baseURL, "model", model)
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// Advise sends the prompts and parses the reply. The call is bounded by the
// configured timeout; a timeout surfaces as an error for the caller to
// swallow.
func (c *Client) Advise(ctx context.Context, rolePrompt, dataPrompt string) (Advisory, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rolePrompt},
			{Role: openai.ChatMessageRoleUser, Content: dataPrompt},
		},
		// Low temperature keeps advisory runs close to deterministic.
		Temperature: 0.2,
		TopP:        0.9,
		MaxTokens:   1024,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Warn("oracle call failed", "error", err)
		return Advisory{}, fmt.Errorf("oracle call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("oracle returned no choices")
		return Advisory{}, fmt.Errorf("oracle returned no choices")
	}

	return ParseAdvisory(resp.Choices[0].Message.Content), nil
}

// TestConnection asks the model for a fixed acknowledgement and reports
// whether it arrived. Used by health checks; never by the pipeline.
func (c *Client) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	adv, err := c.Advise(ctx,
		`You are a helpful assistant. Return JSON with a single field "status" set to "connected".`,
		"Test connection")
	if err != nil {
		return false
	}
	return strings.Contains(adv.Raw, "connected")
}
