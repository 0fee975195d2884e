/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas from the receipt data model. The
// schemas serve two purposes: instructing models what shape to extract
// into, and describing the item layout of remote evaluation definitions.
package schema
