/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package groundtruth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kwasham/receipt-processing-api/receipts"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStoreReadsDetailsAndDecision(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "extraction/fuel.json", `{
		"merchant": "Flying J #616",
		"location": {"city": "Frazier Park", "state": "CA", "zipcode": null},
		"time": "2024-10-01T13:23:00",
		"items": [],
		"subtotal": "49.39",
		"tax": null,
		"total": "49.39",
		"handwritten_notes": null
	}`)
	writeFixture(t, root, "audit_results/fuel.json", `{
		"not_travel_related": false,
		"amount_over_limit": false,
		"math_error": false,
		"handwritten_x": false,
		"reasoning": "All criteria pass.",
		"needs_audit": false
	}`)

	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}

	details, err := store.Details("fuel")
	if err != nil {
		t.Fatalf("Details() = %v", err)
	}
	want := &receipts.ReceiptDetails{
		Merchant: receipts.String("Flying J #616"),
		Location: receipts.Location{
			City:  receipts.String("Frazier Park"),
			State: receipts.String("CA"),
		},
		Time:             receipts.String("2024-10-01T13:23:00"),
		Items:            []receipts.LineItem{},
		Subtotal:         receipts.String("49.39"),
		Total:            receipts.String("49.39"),
		HandwrittenNotes: []string{},
	}
	if diff := cmp.Diff(want, details); diff != "" {
		t.Errorf("Details() mismatch (-want +got):\n%s", diff)
	}

	decision, err := store.Decision("fuel")
	if err != nil {
		t.Fatalf("Decision() = %v", err)
	}
	if decision.NeedsAudit {
		t.Error("NeedsAudit = true, want false")
	}
}

func TestStoreMissingStem(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}

	if _, err := store.Details("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Details(absent) = %v, want ErrNotFound", err)
	}
	if _, err := store.Decision("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Decision(absent) = %v, want ErrNotFound", err)
	}
}

func TestStoreMalformedJSON(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "extraction/bad.json", "{not json")

	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("NewStore() = %v", err)
	}
	_, err = store.Details("bad")
	if err == nil {
		t.Fatal("Details(bad) = nil error for malformed JSON")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("malformed JSON misreported as not found")
	}
}

func TestNewStoreValidatesRoot(t *testing.T) {
	if _, err := NewStore(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("NewStore() accepted a missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(file); err == nil {
		t.Error("NewStore() accepted a plain file as root")
	}
}
