/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package modeljson recovers JSON payloads from language-model text
// responses. Models asked for JSON frequently wrap it in markdown code
// fences or surround it with prose; Decode tolerates both.
package modeljson
