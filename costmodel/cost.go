/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package costmodel

import "fmt"

// CostParams parameterizes the business model behind the cost projection.
// Every constant is configuration so variant business models can be
// evaluated by substitution.
type CostParams struct {
	// AuditCost is the cost of manually auditing one receipt.
	AuditCost float64 `json:"audit_cost"`
	// MissedAuditCost is the expected loss when a receipt that needed an
	// audit slips through.
	MissedAuditCost float64 `json:"missed_audit_cost"`
	// Volume is the number of receipts processed per year.
	Volume float64 `json:"volume"`
	// AuditFraction is the fraction of receipts that truly require audit.
	AuditFraction float64 `json:"audit_fraction"`
}

// DefaultCostParams returns the reference business model: a million
// receipts a year, 5% of which need auditing, $2 per audit, $30 per
// missed audit.
func DefaultCostParams() CostParams {
	return CostParams{
		AuditCost:       2.0,
		MissedAuditCost: 30.0,
		Volume:          1_000_000,
		AuditFraction:   0.05,
	}
}

// Validate checks the parameters describe a coherent model.
func (p CostParams) Validate() error {
	if p.AuditCost < 0 || p.MissedAuditCost < 0 {
		return fmt.Errorf("costs cannot be negative")
	}
	if p.Volume <= 0 {
		return fmt.Errorf("volume must be positive, got %v", p.Volume)
	}
	if p.AuditFraction < 0 || p.AuditFraction > 1 {
		return fmt.Errorf("audit fraction must be in [0, 1], got %v", p.AuditFraction)
	}
	return nil
}

// Project computes the total annual operating cost for a system with the
// given error rates. Of Volume receipts, AuditFraction truly require
// audit; false negatives among those each incur MissedAuditCost, every
// receipt flagged for audit (caught positives plus false positives among
// the remainder) incurs AuditCost, and every receipt incurs
// perReceiptCost regardless of outcome.
func (p CostParams) Project(fpRate, fnRate, perReceiptCost float64) float64 {
	needsAudit := p.Volume * p.AuditFraction
	noAudit := p.Volume - needsAudit

	missedAudits := needsAudit * fnRate
	totalAudits := needsAudit*(1-fnRate) + noAudit*fpRate

	return totalAudits*p.AuditCost +
		missedAudits*p.MissedAuditCost +
		p.Volume*perReceiptCost
}
