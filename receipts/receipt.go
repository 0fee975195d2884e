/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package receipts

// Location is the merchant location printed on a receipt.
type Location struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zipcode *string `json:"zipcode"`
}

// LineItem is a single purchased item. Every field is optional; the model
// performs no arithmetic on these values.
type LineItem struct {
	Description *string `json:"description"`
	ProductCode *string `json:"product_code"`
	Category    *string `json:"category"`
	ItemPrice   *string `json:"item_price"`
	SalePrice   *string `json:"sale_price"`
	Quantity    *string `json:"quantity"`
	Total       *string `json:"total"`
}

// ReceiptDetails is the complete structured content of one receipt.
// Items and HandwrittenNotes may be empty but are never nil after
// Normalize; all other fields are optional.
type ReceiptDetails struct {
	Merchant         *string    `json:"merchant"`
	Location         Location   `json:"location"`
	Time             *string    `json:"time"`
	Items            []LineItem `json:"items"`
	Subtotal         *string    `json:"subtotal"`
	Tax              *string    `json:"tax"`
	Total            *string    `json:"total"`
	HandwrittenNotes []string   `json:"handwritten_notes"`
}

// Normalize ensures the two sequence fields are present. Decoded JSON and
// model output frequently omit empty arrays; the data model requires them
// to be non-nil.
func (r *ReceiptDetails) Normalize() {
	if r.Items == nil {
		r.Items = []LineItem{}
	}
	if r.HandwrittenNotes == nil {
		r.HandwrittenNotes = []string{}
	}
}

// Degenerate returns the explicit empty placeholder recorded when
// extraction fails. It carries no data but satisfies the data model's
// sequence invariants, so downstream grading scores it as a total miss
// instead of aborting.
func Degenerate() *ReceiptDetails {
	return &ReceiptDetails{
		Items:            []LineItem{},
		HandwrittenNotes: []string{},
	}
}

// String is a convenience for building optional text fields in literals
// and tests.
func String(s string) *string { return &s }
