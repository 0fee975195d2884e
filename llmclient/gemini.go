/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package llmclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/kwasham/receipt-processing-api/retry"
)

type geminiClient struct {
	client *genai.Client
	model  string
	cfg    settings
}

func newGemini(ctx context.Context, model string, cfg settings) (*geminiClient, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.httpClient != nil {
		clientConfig.HTTPClient = cfg.httpClient
	}
	if cfg.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{
		client: client,
		model:  model,
		cfg:    cfg,
	}, nil
}

// Complete implements Completer.
func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	requestID := uuid.New().String()
	log := clog.FromContext(ctx).With("request_id", requestID).With("model", c.model)

	var parts []*genai.Part
	if len(req.ImageJPEG) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.ImageJPEG, "image/jpeg"))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(float32(c.cfg.temperature)),
		MaxOutputTokens: int32(c.cfg.maxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	log.Debug("Sending completion request")
	resp, err := retry.WithBackoff(ctx, c.cfg.retry, "gemini completion", isRetryableGeminiError,
		func() (*genai.GenerateContentResponse, error) {
			return c.client.Models.GenerateContent(ctx, c.model, contents, config)
		})
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini completion: no text content in response")
	}
	return text, nil
}

// isRetryableGeminiError matches rate-limit and availability failures by
// message; the genai SDK does not expose a stable typed error for these.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"429",
		"RESOURCE_EXHAUSTED",
		"Resource exhausted",
		"rate limit",
		"quota exceeded",
		"Overloaded",
		"503",
		"Internal error",
		"server error",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
