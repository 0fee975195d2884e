/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwasham/receipt-processing-api/evalrun"
)

func newEvaluateCommand() *cobra.Command {
	var (
		imageDir       string
		groundTruthDir string
		name           string
		judgeKind      string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Build the dataset and submit an evaluation run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			orchestrator, err := newOrchestrator(ctx, cfg, groundTruthDir, judgeKind)
			if err != nil {
				return err
			}
			dataset, err := orchestrator.BuildDataset(ctx, imageDir)
			if err != nil {
				return err
			}

			result := orchestrator.Evaluate(ctx, name, dataset, evalrun.GradersFor(cfg.GraderModel))
			out := map[string]any{
				"status": result.Status,
			}
			if result.EvalID != "" {
				out["eval_id"] = result.EvalID
			}
			if result.RunID != "" {
				out["run_id"] = result.RunID
			}
			if result.ReportURL != "" {
				out["report_url"] = result.ReportURL
			}
			if result.Err != nil {
				out["error"] = result.Err.Error()
			}
			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			if result.Err != nil {
				return fmt.Errorf("evaluation failed: %w", result.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory of receipt images")
	cmd.Flags().StringVar(&groundTruthDir, "ground-truth", "", "Ground truth directory")
	cmd.Flags().StringVar(&name, "name", "receipt-eval", "Evaluation name")
	cmd.Flags().StringVar(&judgeKind, "judge", "model", "Audit judge: model or policy")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("ground-truth")

	return cmd
}
