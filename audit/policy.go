/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package audit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kwasham/receipt-processing-api/receipts"
)

// Policy is the deterministic audit rule. Construct with New; the zero
// value is not usable.
type Policy struct {
	amountLimit   float64
	mathTolerance float64
	noteMarker    string
	markerFold    bool // case-insensitive marker match when true
	travel        CategorySet
}

// Option configures a Policy.
type Option func(*Policy) error

// WithAmountLimit sets the spending ceiling above which a receipt must be
// audited. The comparison is strict: a total exactly at the limit passes.
func WithAmountLimit(limit float64) Option {
	return func(p *Policy) error {
		if limit <= 0 {
			return fmt.Errorf("amount limit must be positive, got %v", limit)
		}
		p.amountLimit = limit
		return nil
	}
}

// WithMathTolerance sets the allowed deviation between the summed line
// items plus tax and the stated total.
func WithMathTolerance(tol float64) Option {
	return func(p *Policy) error {
		if tol < 0 {
			return fmt.Errorf("math tolerance cannot be negative, got %v", tol)
		}
		p.mathTolerance = tol
		return nil
	}
}

// WithNoteMarker sets the literal text that flags a handwritten note for
// audit.
func WithNoteMarker(marker string) Option {
	return func(p *Policy) error {
		if marker == "" {
			return fmt.Errorf("note marker cannot be empty")
		}
		p.noteMarker = marker
		return nil
	}
}

// WithCaseInsensitiveMarker controls whether the note marker matches
// regardless of case. The default is a case-sensitive literal match.
func WithCaseInsensitiveMarker(fold bool) Option {
	return func(p *Policy) error {
		p.markerFold = fold
		return nil
	}
}

// WithTravelCategories replaces the travel-expense allow-list.
func WithTravelCategories(set CategorySet) Option {
	return func(p *Policy) error {
		if set.Empty() {
			return fmt.Errorf("travel category set cannot be empty")
		}
		p.travel = set
		return nil
	}
}

// New builds a Policy with the default business parameters: a $50 ceiling,
// one cent of arithmetic tolerance, and a case-sensitive "X" note marker.
func New(opts ...Option) (*Policy, error) {
	p := &Policy{
		amountLimit:   50.0,
		mathTolerance: 0.01,
		noteMarker:    "X",
		travel:        DefaultTravelCategories(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("applying policy option: %w", err)
		}
	}
	return p, nil
}

// Evaluate applies the four audit criteria to one receipt. It never
// mutates the receipt. Malformed monetary text yields a *FieldError; the
// ctx parameter exists for interface symmetry with model-backed judges and
// is not used for I/O.
func (p *Policy) Evaluate(_ context.Context, r *receipts.ReceiptDetails) (*receipts.AuditDecision, error) {
	notTravel := !p.travelRelated(r)

	overLimit, total, err := p.overLimit(r)
	if err != nil {
		return nil, err
	}

	mathErr, lineSum, err := p.mathError(r)
	if err != nil {
		return nil, err
	}

	handwritten := p.markedNote(r.HandwrittenNotes)

	decision := &receipts.AuditDecision{
		NotTravelRelated: notTravel,
		AmountOverLimit:  overLimit,
		MathError:        mathErr,
		HandwrittenX:     handwritten,
	}
	decision.NeedsAudit = notTravel || overLimit || mathErr || handwritten
	decision.Reasoning = p.explain(decision, total, lineSum)
	return decision, nil
}

// travelRelated reports whether anything on the receipt matches the travel
// allow-list.
func (p *Policy) travelRelated(r *receipts.ReceiptDetails) bool {
	if r.Merchant != nil && p.travel.Matches(*r.Merchant) {
		return true
	}
	for _, item := range r.Items {
		if item.Category != nil && p.travel.Matches(*item.Category) {
			return true
		}
		if item.Description != nil && p.travel.Matches(*item.Description) {
			return true
		}
	}
	return false
}

// overLimit parses the stated total and compares it against the ceiling.
// A receipt without a stated total cannot violate the limit.
func (p *Policy) overLimit(r *receipts.ReceiptDetails) (bool, float64, error) {
	if r.Total == nil {
		return false, 0, nil
	}
	total, err := parseAmount("total", *r.Total)
	if err != nil {
		return false, 0, err
	}
	return total > p.amountLimit, total, nil
}

// mathError checks that the line items plus tax reproduce the stated total
// within the tolerance. Absent subtotal and tax count as zero; a receipt
// without a stated total has nothing to contradict.
func (p *Policy) mathError(r *receipts.ReceiptDetails) (bool, float64, error) {
	if r.Total == nil {
		return false, 0, nil
	}
	total, err := parseAmount("total", *r.Total)
	if err != nil {
		return false, 0, err
	}

	var sum float64
	for i, item := range r.Items {
		amount, err := lineTotal(i, item)
		if err != nil {
			return false, 0, err
		}
		sum += amount
	}

	if r.Tax != nil {
		tax, err := parseAmount("tax", *r.Tax)
		if err != nil {
			return false, 0, err
		}
		sum += tax
	}

	return math.Abs(sum-total) > p.mathTolerance+1e-9, sum, nil
}

// lineTotal resolves the amount one line item contributes: its stated
// total when present, otherwise price times quantity, otherwise the price
// alone. Items with no monetary fields contribute nothing.
func lineTotal(index int, item receipts.LineItem) (float64, error) {
	if item.Total != nil {
		return parseAmount(fmt.Sprintf("items[%d].total", index), *item.Total)
	}
	if item.ItemPrice == nil {
		return 0, nil
	}
	price, err := parseAmount(fmt.Sprintf("items[%d].item_price", index), *item.ItemPrice)
	if err != nil {
		return 0, err
	}
	if item.Quantity == nil {
		return price, nil
	}
	qty, err := parseAmount(fmt.Sprintf("items[%d].quantity", index), *item.Quantity)
	if err != nil {
		return 0, err
	}
	return price * qty, nil
}

// markedNote reports whether any handwritten note contains the marker.
func (p *Policy) markedNote(notes []string) bool {
	marker := p.noteMarker
	for _, note := range notes {
		if p.markerFold {
			if strings.Contains(strings.ToLower(note), strings.ToLower(marker)) {
				return true
			}
			continue
		}
		if strings.Contains(note, marker) {
			return true
		}
	}
	return false
}

// explain writes the criterion-by-criterion reasoning in the house style:
// numbered findings followed by the final determination.
func (p *Policy) explain(d *receipts.AuditDecision, total, lineSum float64) string {
	var sb strings.Builder

	if d.NotTravelRelated {
		sb.WriteString("1. No item or merchant matches a travel-expense category, so NOT_TRAVEL_RELATED is true. ")
	} else {
		sb.WriteString("1. The purchase matches a travel-expense category, so NOT_TRAVEL_RELATED is false. ")
	}

	if d.AmountOverLimit {
		fmt.Fprintf(&sb, "2. The total $%.2f exceeds the $%.2f limit, so AMOUNT_OVER_LIMIT is true. ", total, p.amountLimit)
	} else {
		fmt.Fprintf(&sb, "2. The total does not exceed the $%.2f limit, so AMOUNT_OVER_LIMIT is false. ", p.amountLimit)
	}

	if d.MathError {
		fmt.Fprintf(&sb, "3. The line items and tax sum to $%.2f but the stated total is $%.2f, so MATH_ERROR is true. ", lineSum, total)
	} else {
		sb.WriteString("3. The line items and tax sum to the stated total, so MATH_ERROR is false. ")
	}

	if d.HandwrittenX {
		fmt.Fprintf(&sb, "4. A handwritten note contains %q, so HANDWRITTEN_X is true. ", p.noteMarker)
	} else {
		fmt.Fprintf(&sb, "4. No handwritten note contains %q, so HANDWRITTEN_X is false. ", p.noteMarker)
	}

	if d.NeedsAudit {
		sb.WriteString("At least one criterion is violated, so the receipt needs auditing.")
	} else {
		sb.WriteString("No criterion is violated, so the receipt does not need auditing.")
	}
	return sb.String()
}

// parseAmount interprets monetary text, tolerating currency symbols,
// thousands separators, and surrounding whitespace.
func parseAmount(field, value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &FieldError{Field: field, Value: value}
	}
	return f, nil
}
