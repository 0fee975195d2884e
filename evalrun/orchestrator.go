/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package evalrun

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"github.com/kwasham/receipt-processing-api/metrics"
	"github.com/kwasham/receipt-processing-api/receipts"
	"github.com/kwasham/receipt-processing-api/schema"
)

// DatasetItem wraps one record in the platform's dataset envelope.
type DatasetItem struct {
	Item *receipts.EvaluationRecord `json:"item"`
}

// Run identifies a submitted evaluation run.
type Run struct {
	ID        string
	ReportURL string
}

// Platform is the remote evaluation service. CreateDefinition registers
// an eval with an item schema and testing criteria and returns its id;
// SubmitRun attaches a dataset to an existing definition.
type Platform interface {
	CreateDefinition(ctx context.Context, name string, itemSchema map[string]any, graders []Grader) (string, error)
	SubmitRun(ctx context.Context, evalID, name string, dataset []DatasetItem) (*Run, error)
}

// EvalResult reports the outcome of one Evaluate call. Status is
// "success" or "error"; platform failures are captured in Err rather
// than propagated.
type EvalResult struct {
	Status    string
	EvalID    string
	RunID     string
	ReportURL string
	Err       error
}

// Orchestrator fans out record building and submits datasets for
// evaluation. Definitions are cached for the life of the process so a
// repeated Evaluate with the same name and graders reuses the remote
// definition.
type Orchestrator struct {
	builder     *Builder
	platform    Platform
	concurrency int

	mu          sync.Mutex
	definitions map[string]string
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithConcurrency bounds the number of records built in parallel.
func WithConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		o.concurrency = n
		return nil
	}
}

// NewOrchestrator builds an Orchestrator around a Builder and a Platform.
func NewOrchestrator(builder *Builder, platform Platform, opts ...OrchestratorOption) (*Orchestrator, error) {
	if builder == nil {
		return nil, errors.New("builder cannot be nil")
	}
	if platform == nil {
		return nil, errors.New("platform cannot be nil")
	}
	o := &Orchestrator{
		builder:     builder,
		platform:    platform,
		concurrency: 8,
		definitions: map[string]string{},
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying orchestrator option: %w", err)
		}
	}
	return o, nil
}

// imageExtensions are the receipt image formats discovered by
// BuildDataset.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// BuildDataset builds one dataset item per receipt image in the
// directory. Record failures are logged and that image is skipped;
// siblings are unaffected. Item order follows the sorted image names.
func (o *Orchestrator) BuildDataset(ctx context.Context, imageDir string) ([]DatasetItem, error) {
	log := clog.FromContext(ctx).With("image_dir", imageDir)

	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, fmt.Errorf("reading image directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(imageDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no receipt images found in %s", imageDir)
	}

	log.With("images", len(paths)).With("concurrency", o.concurrency).
		Info("Building evaluation dataset")

	records := make([]*receipts.EvaluationRecord, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(o.concurrency)
	for i, path := range paths {
		eg.Go(func() error {
			record, err := o.builder.Record(egCtx, path)
			metrics.RecordEvaluationRecord(err == nil)
			if err != nil {
				clog.FromContext(egCtx).With("image", filepath.Base(path)).
					With("error", err.Error()).
					Error("Skipping record")
				return nil
			}
			records[i] = record
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	dataset := make([]DatasetItem, 0, len(records))
	for _, record := range records {
		if record != nil {
			dataset = append(dataset, DatasetItem{Item: record})
		}
	}
	log.With("records", len(dataset)).With("skipped", len(paths)-len(dataset)).
		Info("Dataset build complete")
	return dataset, nil
}

// Evaluate registers (or reuses) the eval definition and submits the
// dataset as a run. Failures are reported in the result, never returned.
func (o *Orchestrator) Evaluate(ctx context.Context, name string, dataset []DatasetItem, graders []Grader) EvalResult {
	log := clog.FromContext(ctx).With("eval_name", name)

	evalID, err := o.definition(ctx, name, graders)
	if err != nil {
		metrics.RecordEvalRun(false)
		log.With("error", err.Error()).Error("Failed to create eval definition")
		return EvalResult{Status: "error", Err: err}
	}

	run, err := o.platform.SubmitRun(ctx, evalID, name+"-run", dataset)
	if err != nil {
		metrics.RecordEvalRun(false)
		log.With("error", err.Error()).Error("Failed to submit eval run")
		return EvalResult{Status: "error", EvalID: evalID, Err: err}
	}

	metrics.RecordEvalRun(true)
	log.With("eval_id", evalID).With("run_id", run.ID).
		With("report_url", run.ReportURL).
		Info("Evaluation run created")
	return EvalResult{
		Status:    "success",
		EvalID:    evalID,
		RunID:     run.ID,
		ReportURL: run.ReportURL,
	}
}

// definition returns the cached definition id for the name and grader
// set, creating it remotely on first use. The cache key incorporates a
// digest of the canonical grader JSON so changing any grader yields a new
// definition.
func (o *Orchestrator) definition(ctx context.Context, name string, graders []Grader) (string, error) {
	key, err := cacheKey(name, graders)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if id, ok := o.definitions[key]; ok {
		clog.FromContext(ctx).With("eval_id", id).Debug("Reusing cached eval definition")
		return id, nil
	}

	itemSchema, err := schema.MapFor[receipts.EvaluationRecord]()
	if err != nil {
		return "", fmt.Errorf("reflecting item schema: %w", err)
	}
	id, err := o.platform.CreateDefinition(ctx, name, itemSchema, graders)
	if err != nil {
		return "", fmt.Errorf("creating eval definition: %w", err)
	}
	o.definitions[key] = id
	return id, nil
}

func cacheKey(name string, graders []Grader) (string, error) {
	encoded, err := json.Marshal(graders)
	if err != nil {
		return "", fmt.Errorf("encoding graders: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return name + ":" + hex.EncodeToString(sum[:]), nil
}
