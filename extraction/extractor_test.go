/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kwasham/receipt-processing-api/llmclient"
)

// fakeCompleter returns canned responses and records the request.
type fakeCompleter struct {
	response string
	err      error
	last     llmclient.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llmclient.Request) (string, error) {
	f.last = req
	return f.response, f.err
}

const fuelResponse = `{
  "merchant": "Flying J #616",
  "location": {"city": "Frazier Park", "state": "CA", "zipcode": null},
  "time": "2024-10-01T13:23:00",
  "items": [{
    "description": "Unleaded",
    "product_code": null,
    "category": "Fuel",
    "item_price": "4.459",
    "sale_price": null,
    "quantity": "11.076",
    "total": "49.39"
  }],
  "subtotal": "49.39",
  "tax": null,
  "total": "49.39",
  "handwritten_notes": ["yos -> home sequoia", "236660"]
}`

func TestServiceExtract(t *testing.T) {
	fake := &fakeCompleter{response: fuelResponse}
	svc, err := NewService(fake)
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}

	details, err := svc.Extract(context.Background(), []byte("jpeg-bytes"), "fuel.jpg")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if details.Merchant == nil || *details.Merchant != "Flying J #616" {
		t.Errorf("merchant = %v, want Flying J #616", details.Merchant)
	}
	if len(details.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(details.Items))
	}
	if details.Items[0].Category == nil || *details.Items[0].Category != "Fuel" {
		t.Errorf("category = %v, want Fuel", details.Items[0].Category)
	}
	if len(fake.last.ImageJPEG) == 0 {
		t.Error("Extract() did not attach the image to the request")
	}
	if !strings.Contains(fake.last.System, "handwritten_notes") {
		t.Error("system instruction does not embed the receipt schema")
	}
}

func TestServiceExtractFencedResponse(t *testing.T) {
	fake := &fakeCompleter{response: "Here is the extraction:\n```json\n" + fuelResponse + "\n```\n"}
	svc, err := NewService(fake)
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}
	details, err := svc.Extract(context.Background(), []byte("jpeg-bytes"), "fuel.jpg")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if details.Total == nil || *details.Total != "49.39" {
		t.Errorf("total = %v, want 49.39", details.Total)
	}
}

func TestServiceExtractNormalizesSequences(t *testing.T) {
	fake := &fakeCompleter{response: `{"merchant": "Corner Store"}`}
	svc, err := NewService(fake)
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}
	details, err := svc.Extract(context.Background(), []byte("jpeg-bytes"), "store.jpg")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if details.Items == nil || details.HandwrittenNotes == nil {
		t.Error("Extract() returned nil sequences after Normalize")
	}
}

func TestServiceExtractErrors(t *testing.T) {
	svc, err := NewService(&fakeCompleter{err: errors.New("rate limited")})
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}
	if _, err := svc.Extract(context.Background(), []byte("jpeg-bytes"), "fuel.jpg"); err == nil {
		t.Error("Extract() = nil error when the model call failed")
	}

	svc, err = NewService(&fakeCompleter{response: "no json here"})
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}
	if _, err := svc.Extract(context.Background(), []byte("jpeg-bytes"), "fuel.jpg"); err == nil {
		t.Error("Extract() = nil error for an unparseable response")
	}

	svc, err = NewService(&fakeCompleter{response: fuelResponse})
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}
	if _, err := svc.Extract(context.Background(), nil, "fuel.jpg"); err == nil {
		t.Error("Extract() = nil error for an empty image")
	}
}

func TestNewServiceRequiresCompleter(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Error("NewService(nil) = nil error")
	}
}

func TestRunWrapsFailures(t *testing.T) {
	failing := &fakeCompleter{err: errors.New("overloaded")}
	svc, err := NewService(failing)
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}

	outcome := Run(context.Background(), svc, []byte("jpeg-bytes"), "bad.jpg")
	if !outcome.Failed() {
		t.Fatal("Run() outcome not marked failed")
	}
	if outcome.Details == nil {
		t.Fatal("Run() returned nil details on failure")
	}
	if outcome.Details.Items == nil || outcome.Details.HandwrittenNotes == nil {
		t.Error("degenerate details have nil sequences")
	}
	if outcome.Details.Merchant != nil {
		t.Error("degenerate details carry data")
	}
}

func TestRunSuccess(t *testing.T) {
	svc, err := NewService(&fakeCompleter{response: fuelResponse})
	if err != nil {
		t.Fatalf("NewService() = %v", err)
	}
	outcome := Run(context.Background(), svc, []byte("jpeg-bytes"), "fuel.jpg")
	if outcome.Failed() {
		t.Fatalf("Run() failed: %v", outcome.Failure)
	}
	if outcome.Details.Merchant == nil || *outcome.Details.Merchant != "Flying J #616" {
		t.Errorf("merchant = %v, want Flying J #616", outcome.Details.Merchant)
	}
}
