/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package openaievals implements the evalrun.Platform interface against
// the OpenAI Evals REST API.
package openaievals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/kwasham/receipt-processing-api/evalrun"
	"github.com/kwasham/receipt-processing-api/retry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client talks to the OpenAI Evals endpoints. It implements
// evalrun.Platform.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      retry.Config
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the API endpoint, e.g. for a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return errors.New("base URL cannot be empty")
		}
		c.baseURL = strings.TrimRight(url, "/")
		return nil
	}
}

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithRetryConfig overrides the backoff used for 429 and 5xx responses.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		c.retry = cfg
		return nil
	}
}

// NewClient builds a Client with the given credential.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("api key cannot be empty")
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		retry:      retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}
	return c, nil
}

// CreateDefinition implements evalrun.Platform. It registers an eval
// with a custom item schema; include_sample_schema stays false because
// runs replay recorded predictions instead of sampling new ones.
func (c *Client) CreateDefinition(ctx context.Context, name string, itemSchema map[string]any, graders []evalrun.Grader) (string, error) {
	body := map[string]any{
		"name": name,
		"data_source_config": map[string]any{
			"type":                  "custom",
			"item_schema":           itemSchema,
			"include_sample_schema": false,
		},
		"testing_criteria": graders,
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/evals", body, &out); err != nil {
		return "", fmt.Errorf("creating eval %q: %w", name, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("creating eval %q: response carried no id", name)
	}
	return out.ID, nil
}

// SubmitRun implements evalrun.Platform. The dataset is attached inline
// as file content.
func (c *Client) SubmitRun(ctx context.Context, evalID, name string, dataset []evalrun.DatasetItem) (*evalrun.Run, error) {
	body := map[string]any{
		"name": name,
		"data_source": map[string]any{
			"type": "jsonl",
			"source": map[string]any{
				"type":    "file_content",
				"content": dataset,
			},
		},
	}

	var out struct {
		ID        string `json:"id"`
		ReportURL string `json:"report_url"`
	}
	if err := c.post(ctx, "/evals/"+evalID+"/runs", body, &out); err != nil {
		return nil, fmt.Errorf("submitting run for eval %s: %w", evalID, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("submitting run for eval %s: response carried no id", evalID)
	}
	return &evalrun.Run{ID: out.ID, ReportURL: out.ReportURL}, nil
}

// statusError carries the HTTP status for retry classification.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openai status %d: %s", e.status, e.body)
}

func isRetryableStatus(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.status == 429 || se.status >= 500
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	reqID := uuid.New().String()
	log := clog.FromContext(ctx).With("req_id", reqID).With("path", path)

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	url := c.baseURL + path

	raw, err := retry.WithBackoff(ctx, c.retry, "openai evals "+path, isRetryableStatus, func() ([]byte, error) {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				log.With("error", err.Error()).Warn("Response body close failed")
			}
		}()

		raw, _ := io.ReadAll(resp.Body)
		log.With("status", resp.StatusCode).
			With("bytes", len(raw)).
			With("elapsed_ms", time.Since(start).Milliseconds()).
			Debug("Evals API response")

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &statusError{status: resp.StatusCode, body: string(raw)}
		}
		return raw, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
