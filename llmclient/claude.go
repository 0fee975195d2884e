/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package llmclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/kwasham/receipt-processing-api/retry"
)

type claudeClient struct {
	client anthropic.Client
	model  string
	cfg    settings
}

func newClaude(model string, cfg settings) *claudeClient {
	opts := []anthropicoption.RequestOption{}
	if cfg.apiKey != "" {
		opts = append(opts, anthropicoption.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(cfg.httpClient))
	}
	return &claudeClient{
		client: anthropic.NewClient(opts...),
		model:  model,
		cfg:    cfg,
	}
}

// Complete implements Completer.
func (c *claudeClient) Complete(ctx context.Context, req Request) (string, error) {
	requestID := uuid.New().String()
	log := clog.FromContext(ctx).With("request_id", requestID).With("model", c.model)

	var blocks []anthropic.ContentBlockParamUnion
	if len(req.ImageJPEG) > 0 {
		b64 := base64.StdEncoding.EncodeToString(req.ImageJPEG)
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/jpeg", b64))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.cfg.maxTokens,
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: blocks,
		}},
		Temperature: anthropic.Float(c.cfg.temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	log.Debug("Sending completion request")
	message, err := retry.WithBackoff(ctx, c.cfg.retry, "claude completion", isRetryableClaudeError,
		func() (*anthropic.Message, error) {
			return c.client.Messages.New(ctx, params)
		})
	if err != nil {
		return "", fmt.Errorf("claude completion: %w", err)
	}

	var text strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("claude completion: no text content in response")
	}
	return text.String(), nil
}

// isRetryableClaudeError reports whether the error is worth retrying:
// rate limits (429), service availability (503), gateway timeouts (504),
// and Anthropic's overloaded response (529).
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case 429, 503, 504, 529:
		return true
	}
	return false
}
