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

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kwasham/receipt-processing-api/retry"
)

type openaiClient struct {
	client openai.Client
	model  string
	cfg    settings
}

func newOpenAI(model string, cfg settings) *openaiClient {
	opts := []option.RequestOption{}
	if cfg.apiKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.httpClient))
	}
	return &openaiClient{
		client: openai.NewClient(opts...),
		model:  model,
		cfg:    cfg,
	}
}

// Complete implements Completer.
func (c *openaiClient) Complete(ctx context.Context, req Request) (string, error) {
	requestID := uuid.New().String()
	log := clog.FromContext(ctx).With("request_id", requestID).With("model", c.model)

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	if len(req.ImageJPEG) > 0 {
		url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.ImageJPEG)
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}),
			openai.TextContentPart(req.Prompt),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.Prompt))
	}

	params := openai.ChatCompletionNewParams{
		Model:               c.model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(c.cfg.maxTokens),
		Temperature:         openai.Float(c.cfg.temperature),
	}

	log.Debug("Sending completion request")
	resp, err := retry.WithBackoff(ctx, c.cfg.retry, "openai completion", isRetryableOpenAIError,
		func() (*openai.ChatCompletion, error) {
			return c.client.Chat.Completions.New(ctx, params)
		})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// isRetryableOpenAIError reports whether the error is a rate limit or a
// server-side failure worth retrying.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
