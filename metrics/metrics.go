/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics exposes Prometheus counters for pipeline activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_extractions_total",
			Help: "Total number of receipt extraction attempts",
		},
		[]string{"status"},
	)

	auditCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_audits_total",
			Help: "Total number of audit decisions produced",
		},
		[]string{"needs_audit"},
	)

	recordCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_records_total",
			Help: "Total number of evaluation records built",
		},
		[]string{"status"},
	)

	evalRunCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_runs_total",
			Help: "Total number of evaluation runs submitted",
		},
		[]string{"status"},
	)
)

// RecordExtraction counts one extraction attempt.
func RecordExtraction(ok bool) {
	extractionCounter.With(prometheus.Labels{"status": status(ok)}).Inc()
}

// RecordAudit counts one audit decision.
func RecordAudit(needsAudit bool) {
	label := "false"
	if needsAudit {
		label = "true"
	}
	auditCounter.With(prometheus.Labels{"needs_audit": label}).Inc()
}

// RecordEvaluationRecord counts one dataset record build.
func RecordEvaluationRecord(ok bool) {
	recordCounter.With(prometheus.Labels{"status": status(ok)}).Inc()
}

// RecordEvalRun counts one remote evaluation submission.
func RecordEvalRun(ok bool) {
	evalRunCounter.With(prometheus.Labels{"status": status(ok)}).Inc()
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
