/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package modeljson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload returns the JSON content of a model response. It prefers the
// body of the first ```json fence, then any bare ``` fence, and finally
// falls back to the region between the first '{' and the last '}' so that
// a response with leading or trailing prose still decodes.
func Payload(response string) string {
	if body, ok := fencedBlock(response, "```json"); ok {
		return body
	}
	if body, ok := fencedBlock(response, "```"); ok {
		return body
	}

	trimmed := strings.TrimSpace(response)
	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return trimmed
	}
	var end int
	if trimmed[start] == '{' {
		end = strings.LastIndex(trimmed, "}")
	} else {
		end = strings.LastIndex(trimmed, "]")
	}
	if end <= start {
		return trimmed
	}
	return trimmed[start : end+1]
}

// fencedBlock extracts the body of the first code fence opened by the
// given marker.
func fencedBlock(s, marker string) (string, bool) {
	open := strings.Index(s, marker+"\n")
	if open < 0 {
		return "", false
	}
	body := s[open+len(marker)+1:]
	end := strings.Index(body, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// Decode recovers the JSON content of a model response and unmarshals it
// into T.
func Decode[T any](response string) (T, error) {
	var out T
	payload := Payload(response)
	if payload == "" {
		return out, fmt.Errorf("response contains no JSON payload")
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("decoding model response: %w", err)
	}
	return out, nil
}
