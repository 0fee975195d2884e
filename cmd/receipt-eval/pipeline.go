/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"github.com/kwasham/receipt-processing-api/audit"
	"github.com/kwasham/receipt-processing-api/evalrun"
	"github.com/kwasham/receipt-processing-api/evalrun/openaievals"
	"github.com/kwasham/receipt-processing-api/extraction"
	"github.com/kwasham/receipt-processing-api/groundtruth"
	"github.com/kwasham/receipt-processing-api/judge"
	"github.com/kwasham/receipt-processing-api/llmclient"
)

// newOrchestrator wires the full pipeline: ground truth store, extractor,
// judge, and the evals platform client.
func newOrchestrator(ctx context.Context, cfg *config, groundTruthDir, judgeKind string) (*evalrun.Orchestrator, error) {
	store, err := groundtruth.NewStore(groundTruthDir)
	if err != nil {
		return nil, err
	}

	extractionKey, err := cfg.apiKeyFor(cfg.ExtractionModel)
	if err != nil {
		return nil, err
	}
	extractionClient, err := llmclient.New(ctx, cfg.ExtractionModel, llmclient.WithAPIKey(extractionKey))
	if err != nil {
		return nil, err
	}
	extractor, err := extraction.NewService(extractionClient)
	if err != nil {
		return nil, err
	}

	j, err := newJudge(ctx, cfg, judgeKind)
	if err != nil {
		return nil, err
	}

	builder, err := evalrun.NewBuilder(store, extractor, j)
	if err != nil {
		return nil, err
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the evals platform")
	}
	platform, err := openaievals.NewClient(cfg.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}

	return evalrun.NewOrchestrator(builder, platform, evalrun.WithConcurrency(cfg.Concurrency))
}

func newJudge(ctx context.Context, cfg *config, kind string) (judge.Judge, error) {
	switch kind {
	case "policy":
		policy, err := audit.New()
		if err != nil {
			return nil, err
		}
		return judge.NewPolicy(policy)
	case "model":
		key, err := cfg.apiKeyFor(cfg.AuditModel)
		if err != nil {
			return nil, err
		}
		client, err := llmclient.New(ctx, cfg.AuditModel, llmclient.WithAPIKey(key))
		if err != nil {
			return nil, err
		}
		return judge.NewModel(client)
	default:
		return nil, fmt.Errorf("unknown judge %q (expected model or policy)", kind)
	}
}
