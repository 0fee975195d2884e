/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

type config struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	ExtractionModel string `env:"RECEIPT_EXTRACTION_MODEL, default=gpt-4o-mini"`
	AuditModel      string `env:"RECEIPT_AUDIT_MODEL, default=gpt-4o-mini"`
	GraderModel     string `env:"RECEIPT_GRADER_MODEL, default=gpt-4o-mini"`

	Concurrency int `env:"RECEIPT_EVAL_CONCURRENCY, default=8"`
}

func loadConfig(ctx context.Context) (*config, error) {
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &cfg, nil
}

// apiKeyFor returns the provider credential matching the model prefix.
func (c *config) apiKeyFor(model string) (string, error) {
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "claude-"):
		if c.AnthropicAPIKey == "" {
			return "", fmt.Errorf("ANTHROPIC_API_KEY is required for model %s", model)
		}
		return c.AnthropicAPIKey, nil
	case strings.HasPrefix(lower, "gemini-"):
		if c.GeminiAPIKey == "" {
			return "", fmt.Errorf("GEMINI_API_KEY is required for model %s", model)
		}
		return c.GeminiAPIKey, nil
	default:
		if c.OpenAIAPIKey == "" {
			return "", fmt.Errorf("OPENAI_API_KEY is required for model %s", model)
		}
		return c.OpenAIAPIKey, nil
	}
}
