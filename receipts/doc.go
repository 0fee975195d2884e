/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package receipts defines the data model shared by extraction, auditing,
// and evaluation: the structured contents of a single retail receipt, the
// audit decision made about it, and the paired ground-truth/prediction
// record used for accuracy evaluations.
//
// Monetary fields are deliberately strings. Extraction preserves the exact
// text printed on the receipt (including formatting and precision), and
// numeric interpretation is left to consumers such as the audit policy.
package receipts
