/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newDatasetCommand() *cobra.Command {
	var (
		imageDir       string
		groundTruthDir string
		outPath        string
		judgeKind      string
	)

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Build the evaluation dataset and emit it as JSONL",
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

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			for _, item := range dataset {
				if err := enc.Encode(item); err != nil {
					return fmt.Errorf("encoding dataset item: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory of receipt images")
	cmd.Flags().StringVar(&groundTruthDir, "ground-truth", "", "Ground truth directory")
	cmd.Flags().StringVar(&outPath, "out", "", "Write JSONL here instead of stdout")
	cmd.Flags().StringVar(&judgeKind, "judge", "model", "Audit judge: model or policy")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("ground-truth")

	return cmd
}
