/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package llmclient provides a single narrow surface over the model
// providers used for extraction and judging: one Complete call that takes
// a prompt (optionally with an image) and returns the model's text.
//
// The provider is selected from the model identifier:
//
//   - gpt-* and o*-* models use the OpenAI SDK
//   - claude-* models use the Anthropic SDK
//   - gemini-* models use Google's GenAI SDK
//
// Providers are never probed dynamically; an unknown prefix is an error.
package llmclient
