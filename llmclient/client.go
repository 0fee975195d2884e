/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/kwasham/receipt-processing-api/retry"
)

// Request is one completion request. ImageJPEG, when set, is attached to
// the user turn as an inline image.
type Request struct {
	// System is the system instruction; may be empty.
	System string
	// Prompt is the user turn.
	Prompt string
	// ImageJPEG is optional raw JPEG bytes.
	ImageJPEG []byte
}

// Completer is the contract every provider implements.
type Completer interface {
	// Complete runs one model call and returns the response text.
	Complete(ctx context.Context, req Request) (string, error)
}

// settings is the shared provider configuration assembled from options.
type settings struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxTokens   int64
	temperature float64
	retry       retry.Config
}

// Option configures a provider client.
type Option func(*settings) error

// WithAPIKey sets the provider credential.
func WithAPIKey(key string) Option {
	return func(s *settings) error {
		if key == "" {
			return fmt.Errorf("api key cannot be empty")
		}
		s.apiKey = key
		return nil
	}
}

// WithBaseURL overrides the provider endpoint, e.g. for a proxy or a test
// server.
func WithBaseURL(url string) Option {
	return func(s *settings) error {
		if url == "" {
			return fmt.Errorf("base URL cannot be empty")
		}
		s.baseURL = url
		return nil
	}
}

// WithHTTPClient substitutes the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		s.httpClient = client
		return nil
	}
}

// WithMaxTokens bounds the response length.
func WithMaxTokens(tokens int64) Option {
	return func(s *settings) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		s.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature. Extraction and judging
// want near-deterministic output, so the default is low.
func WithTemperature(temp float64) Option {
	return func(s *settings) error {
		if temp < 0 || temp > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %v", temp)
		}
		s.temperature = temp
		return nil
	}
}

// WithRetryConfig overrides the backoff used for transient provider
// errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		s.retry = cfg
		return nil
	}
}

// openaiReasoningModel matches OpenAI's o-series model names (o1, o3-mini,
// o4-mini, ...).
var openaiReasoningModel = regexp.MustCompile(`^o\d`)

// New builds the Completer for the given model identifier. The provider
// is chosen by model-name prefix; there is no runtime probing.
func New(ctx context.Context, model string, opts ...Option) (Completer, error) {
	s := settings{
		maxTokens:   4096,
		temperature: 0.1,
		retry:       retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "gpt-") || openaiReasoningModel.MatchString(lower):
		return newOpenAI(model, s), nil
	case strings.HasPrefix(lower, "claude-"):
		return newClaude(model, s), nil
	case strings.HasPrefix(lower, "gemini-"):
		return newGemini(ctx, model, s)
	default:
		return nil, fmt.Errorf("unsupported model: %s (expected gpt-*, o*, claude-*, or gemini-*)", model)
	}
}
