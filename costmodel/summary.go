/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package costmodel

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Summary combines the confusion counts, the derived metrics, and the
// projected annual cost for one evaluation run.
type Summary struct {
	Counts         ConfusionCounts `json:"counts"`
	Metrics        Metrics         `json:"metrics"`
	PerReceiptCost float64         `json:"per_receipt_cost"`
	AnnualCost     float64         `json:"annual_cost"`
}

// Summarize derives a Summary from raw counts. Summaries are computed on
// demand and never cached.
func Summarize(counts ConfusionCounts, perReceiptCost float64, params CostParams) (Summary, error) {
	if err := params.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid cost parameters: %w", err)
	}
	m := counts.Metrics()
	return Summary{
		Counts:         counts,
		Metrics:        m,
		PerReceiptCost: perReceiptCost,
		AnnualCost:     params.Project(m.FPRate, m.FNRate, perReceiptCost),
	}, nil
}

// Render writes the summary as a markdown-style table.
func (s Summary) Render(w io.Writer) error {
	table := newSummaryTable([]string{"Metric", "Value"}, w)

	rows := [][]string{
		{"Receipts", fmt.Sprintf("%d", s.Counts.Total())},
		{"TP / FP / TN / FN", fmt.Sprintf("%d / %d / %d / %d", s.Counts.TP, s.Counts.FP, s.Counts.TN, s.Counts.FN)},
		{"Accuracy", fmt.Sprintf("%.4f", s.Metrics.Accuracy)},
		{"Precision", fmt.Sprintf("%.4f", s.Metrics.Precision)},
		{"Recall", fmt.Sprintf("%.4f", s.Metrics.Recall)},
		{"F1", fmt.Sprintf("%.4f", s.Metrics.F1)},
		{"FP rate", fmt.Sprintf("%.4f", s.Metrics.FPRate)},
		{"FN rate", fmt.Sprintf("%.4f", s.Metrics.FNRate)},
		{"Per-receipt cost", fmt.Sprintf("$%.4f", s.PerReceiptCost)},
		{"Projected annual cost", fmt.Sprintf("$%.2f", s.AnnualCost)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("appending summary row: %w", err)
		}
	}
	return table.Render()
}

// newSummaryTable creates a table writer with the formatting used for all
// run reports.
func newSummaryTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 80,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
