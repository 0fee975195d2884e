/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package extraction turns receipt images into structured ReceiptDetails
// using a vision model.
//
// Extraction is a best-effort collaborator: the pipeline must keep moving
// when a model call fails. Run wraps an Extractor so failures yield a
// degenerate placeholder plus the error, and callers decide how to record
// the failure rather than aborting a batch.
package extraction
