/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kwasham/receipt-processing-api/audit"
	"github.com/kwasham/receipt-processing-api/receipts"
)

func newAuditCommand() *cobra.Command {
	var (
		amountLimit     float64
		noteMarker      string
		caseInsensitive bool
		categoriesFile  string
	)

	cmd := &cobra.Command{
		Use:   "audit <details.json>",
		Short: "Evaluate a receipt against the deterministic audit policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading receipt details: %w", err)
			}
			var details receipts.ReceiptDetails
			if err := json.Unmarshal(data, &details); err != nil {
				return fmt.Errorf("decoding receipt details: %w", err)
			}
			details.Normalize()

			opts := []audit.Option{
				audit.WithAmountLimit(amountLimit),
				audit.WithNoteMarker(noteMarker),
			}
			if caseInsensitive {
				opts = append(opts, audit.WithCaseInsensitiveMarker(true))
			}
			if categoriesFile != "" {
				categories, err := audit.LoadCategories(categoriesFile)
				if err != nil {
					return err
				}
				opts = append(opts, audit.WithTravelCategories(categories))
			}
			policy, err := audit.New(opts...)
			if err != nil {
				return err
			}

			decision, err := policy.Evaluate(cmd.Context(), &details)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(decision, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding decision: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amountLimit, "amount-limit", 50, "Audit threshold in dollars")
	cmd.Flags().StringVar(&noteMarker, "note-marker", "X", "Handwritten marker that flags a receipt")
	cmd.Flags().BoolVar(&caseInsensitive, "marker-case-insensitive", false, "Match the note marker case-insensitively")
	cmd.Flags().StringVar(&categoriesFile, "categories", "", "YAML file of travel category keywords")

	return cmd
}
