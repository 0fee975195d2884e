/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package receipts

// AuditDecision records the outcome of applying the four audit criteria to
// one receipt. For a policy-produced decision, NeedsAudit must equal the
// logical OR of the four criterion flags; violating that relation is a
// policy bug. The model judge's error fallback is the one exception: it
// sets NeedsAudit alone, since no criterion was actually evaluated.
type AuditDecision struct {
	// NotTravelRelated is true when nothing on the receipt matches a
	// travel-expense category.
	NotTravelRelated bool `json:"not_travel_related"`

	// AmountOverLimit is true when the receipt total strictly exceeds the
	// configured ceiling.
	AmountOverLimit bool `json:"amount_over_limit"`

	// MathError is true when the line items plus tax deviate from the
	// stated total by more than the configured tolerance.
	MathError bool `json:"math_error"`

	// HandwrittenX is true when a handwritten note contains the configured
	// marker.
	HandwrittenX bool `json:"handwritten_x"`

	// Reasoning explains the decision criterion by criterion.
	Reasoning string `json:"reasoning"`

	// NeedsAudit is the derived final determination.
	NeedsAudit bool `json:"needs_audit"`
}

// Consistent reports whether NeedsAudit equals the OR of the criterion
// flags.
func (d *AuditDecision) Consistent() bool {
	return d.NeedsAudit == (d.NotTravelRelated || d.AmountOverLimit || d.MathError || d.HandwrittenX)
}
