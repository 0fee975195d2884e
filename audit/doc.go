/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package audit implements the deterministic audit policy: the
// four-criterion rule that decides whether a receipt needs human review.
//
// A receipt must be audited when any of the following is violated:
//
//  1. The purchase is travel related (fuel, lodging, airfare, vehicle
//     rental, or ordinary vehicle maintenance).
//  2. The total does not exceed the configured spending ceiling.
//  3. The line items and tax sum to the stated total.
//  4. No handwritten note carries the audit marker.
//
// The policy is pure: it performs no I/O, never mutates its input, and is
// safe for concurrent use. The travel category boundary and the marker
// matching semantics are configuration, not code, because both are fuzzy
// judgments the business may want to adjust.
package audit
