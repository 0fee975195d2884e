/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/kwasham/receipt-processing-api/audit"
	"github.com/kwasham/receipt-processing-api/llmclient"
	"github.com/kwasham/receipt-processing-api/modeljson"
	"github.com/kwasham/receipt-processing-api/receipts"
)

// Judge decides whether a receipt needs auditing.
type Judge interface {
	Judge(ctx context.Context, details *receipts.ReceiptDetails) (*receipts.AuditDecision, error)
}

// modelJudge prompts an LLM with the audit criteria and worked examples.
type modelJudge struct {
	completer llmclient.Completer
	system    string
}

// NewModel builds a model-backed Judge. A model failure never aborts the
// caller: the judge falls back to a needs-audit decision, since a receipt
// that could not be evaluated must be reviewed by a human.
func NewModel(completer llmclient.Completer) (Judge, error) {
	if completer == nil {
		return nil, errors.New("completer cannot be nil")
	}
	system, err := auditPrompt()
	if err != nil {
		return nil, fmt.Errorf("building audit prompt: %w", err)
	}
	return &modelJudge{completer: completer, system: system}, nil
}

// Judge implements Judge.
func (m *modelJudge) Judge(ctx context.Context, details *receipts.ReceiptDetails) (*receipts.AuditDecision, error) {
	log := clog.FromContext(ctx)

	receiptJSON, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding receipt details: %w", err)
	}

	response, err := m.completer.Complete(ctx, llmclient.Request{
		System: m.system,
		Prompt: fmt.Sprintf("Audit this receipt data:\n\n%s", receiptJSON),
	})
	if err != nil {
		log.With("error", err.Error()).Error("Model audit failed, falling back to needs-audit")
		return fallbackDecision(err), nil
	}

	decision, err := modeljson.Decode[receipts.AuditDecision](response)
	if err != nil {
		log.With("error", err.Error()).Error("Unparseable audit response, falling back to needs-audit")
		return fallbackDecision(err), nil
	}
	return &decision, nil
}

// fallbackDecision is the conservative decision recorded when the model
// judge cannot produce one. No criterion flag is asserted: nothing was
// evaluated, the receipt simply needs a human.
func fallbackDecision(cause error) *receipts.AuditDecision {
	return &receipts.AuditDecision{
		NotTravelRelated: false,
		AmountOverLimit:  false,
		MathError:        false,
		HandwrittenX:     false,
		Reasoning:        fmt.Sprintf("Audit error: %v", cause),
		NeedsAudit:       true,
	}
}

// policyJudge adapts the deterministic audit policy to the Judge
// interface.
type policyJudge struct {
	policy *audit.Policy
}

// NewPolicy wraps an audit.Policy as a Judge.
func NewPolicy(policy *audit.Policy) (Judge, error) {
	if policy == nil {
		return nil, errors.New("policy cannot be nil")
	}
	return &policyJudge{policy: policy}, nil
}

// Judge implements Judge.
func (p *policyJudge) Judge(ctx context.Context, details *receipts.ReceiptDetails) (*receipts.AuditDecision, error) {
	return p.policy.Evaluate(ctx, details)
}
