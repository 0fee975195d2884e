/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package costmodel turns the confusion matrix of an evaluation run into
// classification metrics and a projected annual operating cost.
//
// All derived values are pure functions of the counts and the cost
// parameters; nothing here is cached or persisted, so summaries can never
// go stale.
package costmodel
