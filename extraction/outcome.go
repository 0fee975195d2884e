/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package extraction

import (
	"context"

	"github.com/chainguard-dev/clog"

	"github.com/kwasham/receipt-processing-api/receipts"
)

// Outcome is the result of one extraction attempt. On failure Details
// holds a degenerate placeholder and Failure holds the cause, so a caller
// can always record something for the image while still telling a failed
// extraction apart from a genuinely empty receipt.
type Outcome struct {
	Details *receipts.ReceiptDetails
	Failure error
}

// Failed reports whether the extraction failed and Details is a
// placeholder.
func (o Outcome) Failed() bool {
	return o.Failure != nil
}

// Run extracts the image and converts any failure into a degenerate
// Outcome. It never returns an error; batch callers use it so one bad
// image cannot sink its siblings.
func Run(ctx context.Context, e Extractor, image []byte, filename string) Outcome {
	details, err := e.Extract(ctx, image, filename)
	if err != nil {
		clog.FromContext(ctx).With("filename", filename).
			With("error", err.Error()).
			Error("Extraction failed, recording degenerate details")
		return Outcome{Details: receipts.Degenerate(), Failure: err}
	}
	return Outcome{Details: details}
}
