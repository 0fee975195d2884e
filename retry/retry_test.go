/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("rate limited")

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts: attempts,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  2 * time.Millisecond,
	}
}

func TestWithBackoffSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := WithBackoff(context.Background(), fastConfig(3), "op", func(error) bool { return true }, func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("WithBackoff() = %v", err)
	}
	if got != 42 || calls != 1 {
		t.Errorf("got %d after %d calls, wanted 42 after 1", got, calls)
	}
}

func TestWithBackoffRetriesTransientErrors(t *testing.T) {
	calls := 0
	got, err := WithBackoff(context.Background(), fastConfig(5), "op", func(error) bool { return true }, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("WithBackoff() = %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, wanted ok after 3", got, calls)
	}
}

func TestWithBackoffStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("invalid request")
	calls := 0
	_, err := WithBackoff(context.Background(), fastConfig(5), "op", func(err error) bool {
		return errors.Is(err, errTransient)
	}, func() (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("WithBackoff() = %v, wanted permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, wanted 1 for a non-retryable error", calls)
	}
}

func TestWithBackoffExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := WithBackoff(context.Background(), fastConfig(2), "extract", func(error) bool { return true }, func() (int, error) {
		calls++
		return 0, errTransient
	})
	if err == nil {
		t.Fatal("WithBackoff() = nil error after exhausting attempts")
	}
	if !errors.Is(err, errTransient) {
		t.Errorf("error %v does not wrap the last failure", err)
	}
	if !strings.Contains(err.Error(), "extract") {
		t.Errorf("error %v does not name the operation", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, wanted 3 (initial + 2 retries)", calls)
	}
}

func TestWithBackoffHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{MaxAttempts: 5, BaseBackoff: time.Minute, MaxBackoff: time.Minute}
	_, err := WithBackoff(ctx, cfg, "op", func(error) bool { return true }, func() (int, error) {
		return 0, errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WithBackoff() = %v, wanted context.Canceled", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if err := (Config{MaxAttempts: -1}).Validate(); err == nil {
		t.Error("Validate() accepted negative attempts")
	}
	if err := (Config{BaseBackoff: -time.Second}).Validate(); err == nil {
		t.Error("Validate() accepted negative backoff")
	}
}
