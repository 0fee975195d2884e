/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/kwasham/receipt-processing-api/llmclient"
	"github.com/kwasham/receipt-processing-api/modeljson"
	"github.com/kwasham/receipt-processing-api/receipts"
	"github.com/kwasham/receipt-processing-api/schema"
)

// Extractor extracts structured receipt details from an image.
type Extractor interface {
	// Extract parses the receipt image. The filename is used for logging
	// only; the image bytes are what the model sees.
	Extract(ctx context.Context, image []byte, filename string) (*receipts.ReceiptDetails, error)
}

// Service is a model-backed Extractor.
type Service struct {
	completer llmclient.Completer
	system    string
}

// NewService builds an Extractor backed by the given model client. The
// system instruction embeds the JSON schema of ReceiptDetails so the
// model returns a decodable object.
func NewService(completer llmclient.Completer) (*Service, error) {
	if completer == nil {
		return nil, errors.New("completer cannot be nil")
	}
	schemaJSON, err := schema.JSONFor[receipts.ReceiptDetails]()
	if err != nil {
		return nil, fmt.Errorf("reflecting receipt schema: %w", err)
	}
	system := fmt.Sprintf("%s\nRespond with a single JSON object matching this schema:\n%s", extractionPrompt, schemaJSON)
	return &Service{completer: completer, system: system}, nil
}

// Extract implements Extractor.
func (s *Service) Extract(ctx context.Context, image []byte, filename string) (*receipts.ReceiptDetails, error) {
	log := clog.FromContext(ctx).With("filename", filename)

	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}

	log.With("image_bytes", len(image)).Info("Extracting receipt details")
	response, err := s.completer.Complete(ctx, llmclient.Request{
		System:    s.system,
		Prompt:    "Extract the receipt details from this image according to the schema.",
		ImageJPEG: image,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting receipt details from %s: %w", filename, err)
	}

	details, err := modeljson.Decode[receipts.ReceiptDetails](response)
	if err != nil {
		log.With("error", err).Error("Failed to parse extraction response")
		return nil, fmt.Errorf("parsing extraction response for %s: %w", filename, err)
	}
	details.Normalize()
	return &details, nil
}
