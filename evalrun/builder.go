/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package evalrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/kwasham/receipt-processing-api/extraction"
	"github.com/kwasham/receipt-processing-api/groundtruth"
	"github.com/kwasham/receipt-processing-api/judge"
	"github.com/kwasham/receipt-processing-api/metrics"
	"github.com/kwasham/receipt-processing-api/receipts"
)

// Builder produces one EvaluationRecord per receipt image.
type Builder struct {
	Store     *groundtruth.Store
	Extractor extraction.Extractor
	Judge     judge.Judge
}

// NewBuilder validates the collaborators and returns a Builder.
func NewBuilder(store *groundtruth.Store, extractor extraction.Extractor, j judge.Judge) (*Builder, error) {
	if store == nil {
		return nil, errors.New("ground truth store cannot be nil")
	}
	if extractor == nil {
		return nil, errors.New("extractor cannot be nil")
	}
	if j == nil {
		return nil, errors.New("judge cannot be nil")
	}
	return &Builder{Store: store, Extractor: extractor, Judge: j}, nil
}

// Record builds the evaluation record for one image. Missing ground truth
// is an error; a failed extraction is not, it records the degenerate
// placeholder and judges that instead.
func (b *Builder) Record(ctx context.Context, imagePath string) (*receipts.EvaluationRecord, error) {
	filename := filepath.Base(imagePath)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	log := clog.FromContext(ctx).With("image", filename)

	correctDetails, err := b.Store.Details(stem)
	if err != nil {
		return nil, fmt.Errorf("loading correct details for %s: %w", stem, err)
	}
	correctDecision, err := b.Store.Decision(stem)
	if err != nil {
		return nil, fmt.Errorf("loading correct decision for %s: %w", stem, err)
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", imagePath, err)
	}

	outcome := extraction.Run(ctx, b.Extractor, image, filename)
	metrics.RecordExtraction(!outcome.Failed())
	if outcome.Failed() {
		log.With("error", outcome.Failure.Error()).
			Warn("Recording degenerate extraction for image")
	}

	decision, err := b.Judge.Judge(ctx, outcome.Details)
	if err != nil {
		return nil, fmt.Errorf("judging %s: %w", filename, err)
	}
	metrics.RecordAudit(decision.NeedsAudit)

	return &receipts.EvaluationRecord{
		ReceiptImagePath:        filename,
		CorrectReceiptDetails:   *correctDetails,
		PredictedReceiptDetails: *outcome.Details,
		CorrectAuditDecision:    *correctDecision,
		PredictedAuditDecision:  *decision,
	}, nil
}
