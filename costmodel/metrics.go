/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package costmodel

// ConfusionCounts tallies needs-audit judgments against ground truth for
// one evaluation run. Positives are receipts that truly require audit.
type ConfusionCounts struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Total returns the number of judged receipts.
func (c ConfusionCounts) Total() int { return c.TP + c.FP + c.TN + c.FN }

// Metrics are the derived classification rates for a run.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	FPRate    float64 `json:"fp_rate"`
	FNRate    float64 `json:"fn_rate"`
}

// Metrics derives the classification rates. Any ratio with a zero
// denominator is 0 rather than an error; that degenerate-case policy keeps
// empty or one-sided runs reportable.
func (c ConfusionCounts) Metrics() Metrics {
	var m Metrics

	total := c.Total()
	if total == 0 {
		return m
	}

	positives := c.TP + c.FN
	negatives := c.FP + c.TN

	m.Accuracy = float64(c.TP+c.TN) / float64(total)
	if c.TP+c.FP > 0 {
		m.Precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if positives > 0 {
		m.Recall = float64(c.TP) / float64(positives)
		m.FNRate = float64(c.FN) / float64(positives)
	}
	if negatives > 0 {
		m.FPRate = float64(c.FP) / float64(negatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
