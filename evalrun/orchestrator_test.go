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
	"sync"
	"testing"

	"github.com/kwasham/receipt-processing-api/groundtruth"
	"github.com/kwasham/receipt-processing-api/receipts"
)

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, filename string) (*receipts.ReceiptDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &receipts.ReceiptDetails{
		Merchant:         receipts.String("extracted " + filename),
		Items:            []receipts.LineItem{},
		HandwrittenNotes: []string{},
	}, nil
}

type fakeJudge struct {
	err error
}

func (f *fakeJudge) Judge(_ context.Context, _ *receipts.ReceiptDetails) (*receipts.AuditDecision, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &receipts.AuditDecision{Reasoning: "ok", NeedsAudit: false}, nil
}

type fakePlatform struct {
	mu          sync.Mutex
	defCalls    int
	runCalls    int
	defErr      error
	runErr      error
	lastDataset []DatasetItem
}

func (f *fakePlatform) CreateDefinition(_ context.Context, name string, _ map[string]any, _ []Grader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.defErr != nil {
		return "", f.defErr
	}
	f.defCalls++
	return fmt.Sprintf("eval-%s-%d", name, f.defCalls), nil
}

func (f *fakePlatform) SubmitRun(_ context.Context, evalID, _ string, dataset []DatasetItem) (*Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runErr != nil {
		return nil, f.runErr
	}
	f.runCalls++
	f.lastDataset = dataset
	return &Run{ID: fmt.Sprintf("run-%d", f.runCalls), ReportURL: "https://example.com/" + evalID}, nil
}

// fixture builds an image dir and matching ground truth for n receipts.
func fixture(t *testing.T, n int) (string, *groundtruth.Store) {
	t.Helper()
	root := t.TempDir()
	imageDir := filepath.Join(root, "images")
	for _, dir := range []string{imageDir, filepath.Join(root, "extraction"), filepath.Join(root, "audit_results")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for i := range n {
		stem := fmt.Sprintf("receipt%02d", i)
		if err := os.WriteFile(filepath.Join(imageDir, stem+".jpg"), []byte("jpeg"), 0o644); err != nil {
			t.Fatal(err)
		}
		details := fmt.Sprintf(`{"merchant": "Merchant %d", "items": [], "handwritten_notes": []}`, i)
		if err := os.WriteFile(filepath.Join(root, "extraction", stem+".json"), []byte(details), 0o644); err != nil {
			t.Fatal(err)
		}
		decision := `{"not_travel_related": false, "amount_over_limit": false, "math_error": false, "handwritten_x": false, "reasoning": "ok", "needs_audit": false}`
		if err := os.WriteFile(filepath.Join(root, "audit_results", stem+".json"), []byte(decision), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := groundtruth.NewStore(root)
	if err != nil {
		t.Fatal(err)
	}
	return imageDir, store
}

func newTestOrchestrator(t *testing.T, store *groundtruth.Store, extractor *fakeExtractor, platform *fakePlatform) *Orchestrator {
	t.Helper()
	builder, err := NewBuilder(store, extractor, &fakeJudge{})
	if err != nil {
		t.Fatal(err)
	}
	o, err := NewOrchestrator(builder, platform, WithConcurrency(4))
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestBuildDatasetOneRecordPerImage(t *testing.T) {
	imageDir, store := fixture(t, 5)
	o := newTestOrchestrator(t, store, &fakeExtractor{}, &fakePlatform{})

	dataset, err := o.BuildDataset(context.Background(), imageDir)
	if err != nil {
		t.Fatalf("BuildDataset() = %v", err)
	}
	if len(dataset) != 5 {
		t.Fatalf("len(dataset) = %d, want 5", len(dataset))
	}
	for i, item := range dataset {
		want := fmt.Sprintf("receipt%02d.jpg", i)
		if item.Item.ReceiptImagePath != want {
			t.Errorf("dataset[%d] = %s, want %s", i, item.Item.ReceiptImagePath, want)
		}
	}
}

func TestBuildDatasetFailingExtractorKeepsAllRecords(t *testing.T) {
	imageDir, store := fixture(t, 4)
	o := newTestOrchestrator(t, store, &fakeExtractor{err: errors.New("overloaded")}, &fakePlatform{})

	dataset, err := o.BuildDataset(context.Background(), imageDir)
	if err != nil {
		t.Fatalf("BuildDataset() = %v", err)
	}
	if len(dataset) != 4 {
		t.Fatalf("len(dataset) = %d, want 4 degenerate records", len(dataset))
	}
	for _, item := range dataset {
		if item.Item.PredictedReceiptDetails.Merchant != nil {
			t.Error("failed extraction should record degenerate details")
		}
		if item.Item.CorrectReceiptDetails.Merchant == nil {
			t.Error("ground truth missing from record")
		}
	}
}

func TestBuildDatasetSkipsRecordsWithoutGroundTruth(t *testing.T) {
	imageDir, store := fixture(t, 3)
	// An image with no ground truth files fails only its own record.
	if err := os.WriteFile(filepath.Join(imageDir, "unlabeled.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := newTestOrchestrator(t, store, &fakeExtractor{}, &fakePlatform{})

	dataset, err := o.BuildDataset(context.Background(), imageDir)
	if err != nil {
		t.Fatalf("BuildDataset() = %v", err)
	}
	if len(dataset) != 3 {
		t.Fatalf("len(dataset) = %d, want 3", len(dataset))
	}
}

func TestBuildDatasetEmptyDirErrors(t *testing.T) {
	o := newTestOrchestrator(t, fixtureStore(t), &fakeExtractor{}, &fakePlatform{})
	if _, err := o.BuildDataset(context.Background(), t.TempDir()); err == nil {
		t.Error("BuildDataset() = nil error for a directory with no images")
	}
}

func fixtureStore(t *testing.T) *groundtruth.Store {
	t.Helper()
	_, store := fixture(t, 1)
	return store
}

func TestEvaluateReusesDefinition(t *testing.T) {
	imageDir, store := fixture(t, 2)
	platform := &fakePlatform{}
	o := newTestOrchestrator(t, store, &fakeExtractor{}, platform)

	dataset, err := o.BuildDataset(context.Background(), imageDir)
	if err != nil {
		t.Fatal(err)
	}
	graders := DefaultGraders()

	first := o.Evaluate(context.Background(), "receipt-eval", dataset, graders)
	second := o.Evaluate(context.Background(), "receipt-eval", dataset, graders)
	if first.Status != "success" || second.Status != "success" {
		t.Fatalf("statuses = %s, %s", first.Status, second.Status)
	}
	if platform.defCalls != 1 {
		t.Errorf("defCalls = %d, want 1 (second run should hit the cache)", platform.defCalls)
	}
	if first.EvalID != second.EvalID {
		t.Errorf("eval ids differ: %s vs %s", first.EvalID, second.EvalID)
	}
	if platform.runCalls != 2 {
		t.Errorf("runCalls = %d, want 2", platform.runCalls)
	}
}

func TestEvaluateNewDefinitionForChangedGraders(t *testing.T) {
	imageDir, store := fixture(t, 1)
	platform := &fakePlatform{}
	o := newTestOrchestrator(t, store, &fakeExtractor{}, platform)

	dataset, err := o.BuildDataset(context.Background(), imageDir)
	if err != nil {
		t.Fatal(err)
	}

	o.Evaluate(context.Background(), "receipt-eval", dataset, ExtractionGraders())
	o.Evaluate(context.Background(), "receipt-eval", dataset, DefaultGraders())
	if platform.defCalls != 2 {
		t.Errorf("defCalls = %d, want 2 for distinct grader sets", platform.defCalls)
	}
}

func TestEvaluateCapturesPlatformFailures(t *testing.T) {
	imageDir, store := fixture(t, 1)
	o := newTestOrchestrator(t, store, &fakeExtractor{}, &fakePlatform{defErr: errors.New("boom")})

	dataset, err := o.BuildDataset(context.Background(), imageDir)
	if err != nil {
		t.Fatal(err)
	}
	result := o.Evaluate(context.Background(), "receipt-eval", dataset, DefaultGraders())
	if result.Status != "error" {
		t.Errorf("Status = %s, want error", result.Status)
	}
	if result.Err == nil {
		t.Error("Err = nil for a failed definition")
	}

	runFail := &fakePlatform{runErr: errors.New("run rejected")}
	o = newTestOrchestrator(t, store, &fakeExtractor{}, runFail)
	result = o.Evaluate(context.Background(), "receipt-eval", dataset, DefaultGraders())
	if result.Status != "error" || result.EvalID == "" {
		t.Errorf("result = %+v, want error status with eval id", result)
	}
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, store := fixture(t, 1)
	builder, err := NewBuilder(store, &fakeExtractor{}, &fakeJudge{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewOrchestrator(nil, &fakePlatform{}); err == nil {
		t.Error("NewOrchestrator(nil builder) = nil error")
	}
	if _, err := NewOrchestrator(builder, nil); err == nil {
		t.Error("NewOrchestrator(nil platform) = nil error")
	}
	if _, err := NewOrchestrator(builder, &fakePlatform{}, WithConcurrency(0)); err == nil {
		t.Error("WithConcurrency(0) accepted")
	}
}

func TestBuilderRecordJudgeError(t *testing.T) {
	imageDir, store := fixture(t, 1)
	builder, err := NewBuilder(store, &fakeExtractor{}, &fakeJudge{err: errors.New("bad policy input")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := builder.Record(context.Background(), filepath.Join(imageDir, "receipt00.jpg")); err == nil {
		t.Error("Record() = nil error when the judge failed")
	}
}
