/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package judge produces audit decisions for extracted receipts.
//
// Two implementations exist: a model judge that prompts an LLM with
// worked examples, and a policy judge that adapts the deterministic audit
// policy. Both satisfy the same single-method interface so the evaluation
// pipeline can swap them freely.
package judge
