/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package groundtruth reads labeled receipt data from disk.
//
// A ground truth directory holds two subdirectories keyed by image stem:
// extraction/<stem>.json with the correct ReceiptDetails and
// audit_results/<stem>.json with the correct AuditDecision.
package groundtruth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kwasham/receipt-processing-api/receipts"
)

// ErrNotFound reports that no ground truth file exists for a stem.
var ErrNotFound = errors.New("ground truth not found")

const (
	extractionDir = "extraction"
	auditDir      = "audit_results"
)

// Store reads ground truth files rooted at a directory. It is read-only
// and safe for concurrent use.
type Store struct {
	root string
}

// NewStore validates the root directory and returns a Store.
func NewStore(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("ground truth root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ground truth root %s is not a directory", root)
	}
	return &Store{root: root}, nil
}

// Details returns the correct receipt details for the image stem.
func (s *Store) Details(stem string) (*receipts.ReceiptDetails, error) {
	var details receipts.ReceiptDetails
	if err := s.read(filepath.Join(extractionDir, stem+".json"), &details); err != nil {
		return nil, err
	}
	details.Normalize()
	return &details, nil
}

// Decision returns the correct audit decision for the image stem.
func (s *Store) Decision(stem string) (*receipts.AuditDecision, error) {
	var decision receipts.AuditDecision
	if err := s.read(filepath.Join(auditDir, stem+".json"), &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

func (s *Store) read(rel string, out any) error {
	path := filepath.Join(s.root, rel)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
