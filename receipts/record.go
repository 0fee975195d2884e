/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package receipts

// EvaluationRecord pairs one receipt's ground truth with the predictions
// produced for it. Records are immutable once built and correspond
// one-to-one with a single receipt image; the JSON field names are the item
// schema submitted to the evaluation platform.
type EvaluationRecord struct {
	ReceiptImagePath        string         `json:"receipt_image_path"`
	CorrectReceiptDetails   ReceiptDetails `json:"correct_receipt_details"`
	PredictedReceiptDetails ReceiptDetails `json:"predicted_receipt_details"`
	CorrectAuditDecision    AuditDecision  `json:"correct_audit_decision"`
	PredictedAuditDecision  AuditDecision  `json:"predicted_audit_decision"`
}
