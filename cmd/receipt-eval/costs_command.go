/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/kwasham/receipt-processing-api/costmodel"
)

func newCostsCommand() *cobra.Command {
	var (
		counts         costmodel.ConfusionCounts
		perReceiptCost float64
		params         = costmodel.DefaultCostParams()
	)

	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Project audit workload costs from a confusion matrix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := costmodel.Summarize(counts, perReceiptCost, params)
			if err != nil {
				return err
			}
			return summary.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&counts.TP, "tp", 0, "Receipts correctly flagged for audit")
	cmd.Flags().IntVar(&counts.FP, "fp", 0, "Receipts incorrectly flagged for audit")
	cmd.Flags().IntVar(&counts.TN, "tn", 0, "Receipts correctly passed")
	cmd.Flags().IntVar(&counts.FN, "fn", 0, "Receipts incorrectly passed")
	cmd.Flags().Float64Var(&perReceiptCost, "per-receipt-cost", 0, "Model cost per receipt in dollars")
	cmd.Flags().Float64Var(&params.AuditCost, "audit-cost", params.AuditCost, "Cost of auditing one receipt")
	cmd.Flags().Float64Var(&params.MissedAuditCost, "missed-audit-cost", params.MissedAuditCost, "Cost of missing a receipt that needed auditing")
	cmd.Flags().Float64Var(&params.Volume, "volume", params.Volume, "Annual receipt volume")
	cmd.Flags().Float64Var(&params.AuditFraction, "audit-fraction", params.AuditFraction, "Fraction of receipts that genuinely need auditing")

	return cmd
}
