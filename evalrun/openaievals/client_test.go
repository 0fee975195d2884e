/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaievals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kwasham/receipt-processing-api/evalrun"
	"github.com/kwasham/receipt-processing-api/receipts"
	"github.com/kwasham/receipt-processing-api/retry"
)

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
}

func TestCreateDefinition(t *testing.T) {
	var got struct {
		Name             string `json:"name"`
		DataSourceConfig struct {
			Type                string         `json:"type"`
			ItemSchema          map[string]any `json:"item_schema"`
			IncludeSampleSchema bool           `json:"include_sample_schema"`
		} `json:"data_source_config"`
		TestingCriteria []map[string]any `json:"testing_criteria"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evals" {
			t.Errorf("path = %s, want /evals", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.Write([]byte(`{"id": "eval_123"}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	require.NoError(t, err)

	id, err := client.CreateDefinition(context.Background(), "receipt-eval",
		map[string]any{"type": "object"}, evalrun.DefaultGraders())
	require.NoError(t, err)
	require.Equal(t, "eval_123", id)
	require.Equal(t, "custom", got.DataSourceConfig.Type)
	require.False(t, got.DataSourceConfig.IncludeSampleSchema)
	require.Len(t, got.TestingCriteria, 18)
}

func TestSubmitRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evals/eval_123/runs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			Name       string `json:"name"`
			DataSource struct {
				Type   string `json:"type"`
				Source struct {
					Type    string           `json:"type"`
					Content []map[string]any `json:"content"`
				} `json:"source"`
			} `json:"data_source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if body.DataSource.Type != "jsonl" || body.DataSource.Source.Type != "file_content" {
			t.Errorf("data_source = %+v", body.DataSource)
		}
		if len(body.DataSource.Source.Content) != 1 {
			t.Errorf("content items = %d, want 1", len(body.DataSource.Source.Content))
		} else if _, ok := body.DataSource.Source.Content[0]["item"]; !ok {
			t.Error("dataset item missing the item envelope")
		}
		w.Write([]byte(`{"id": "run_9", "report_url": "https://platform.openai.com/r/9"}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	if err != nil {
		t.Fatal(err)
	}

	dataset := []evalrun.DatasetItem{{Item: &receipts.EvaluationRecord{ReceiptImagePath: "fuel.jpg"}}}
	run, err := client.SubmitRun(context.Background(), "eval_123", "receipt-eval-run", dataset)
	if err != nil {
		t.Fatalf("SubmitRun() = %v", err)
	}
	if run.ID != "run_9" || run.ReportURL != "https://platform.openai.com/r/9" {
		t.Errorf("run = %+v", run)
	}
}

func TestRetriesRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id": "eval_retry"}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	if err != nil {
		t.Fatal(err)
	}
	id, err := client.CreateDefinition(context.Background(), "e", map[string]any{}, nil)
	if err != nil {
		t.Fatalf("CreateDefinition() = %v", err)
	}
	if id != "eval_retry" || calls != 2 {
		t.Errorf("id = %s after %d calls, want eval_retry after 2", id, calls)
	}
}

func TestNon2xxIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "unknown grader type"}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.CreateDefinition(context.Background(), "e", map[string]any{}, nil)
	if err == nil {
		t.Fatal("CreateDefinition() = nil error for a 400")
	}
	if !strings.Contains(err.Error(), "unknown grader type") {
		t.Errorf("error %v does not include the response body", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error %v does not include the status", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("NewClient(empty key) = nil error")
	}
	if _, err := NewClient("sk-test", WithBaseURL("")); err == nil {
		t.Error("WithBaseURL(empty) accepted")
	}
	if _, err := NewClient("sk-test", WithHTTPClient(nil)); err == nil {
		t.Error("WithHTTPClient(nil) accepted")
	}
}
