// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

var (
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qbackup_run_duration_seconds",
			Help:    "Time taken by a complete backup run",
			Buckets: []float64{10, 30, 60, 300, 900, 1800, 3600},
		},
	)

	runTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbackup_run_total",
			Help: "Total number of backup runs",
		},
		[]string{"status"}, // success or fatal
	)

	collectionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbackup_collection_outcomes_total",
			Help: "Collections processed, by final status",
		},
		[]string{"status"}, // uploaded, not_found, error
	)

	collectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qbackup_collection_duration_seconds",
			Help:    "Time taken to back up a single collection",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 900},
		},
	)

	uploadedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qbackup_uploaded_bytes_total",
			Help: "Bytes uploaded to the object store",
		},
	)

	lastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qbackup_last_run_timestamp_seconds",
			Help: "Unix time the last backup run finished",
		},
	)

	lastRunCollections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qbackup_last_run_collections",
			Help: "Collections in the last backup run, by final status",
		},
		[]string{"status"},
	)
)

func observeRun(run *Run, status string) {
	runTotal.WithLabelValues(status).Inc()
	runDuration.Observe(run.Duration().Seconds())
	lastRunTimestamp.Set(float64(run.FinishedAt.Unix()))
	lastRunCollections.WithLabelValues(string(StatusUploaded)).Set(float64(run.Summary.Uploaded))
	lastRunCollections.WithLabelValues(string(StatusNotFound)).Set(float64(run.Summary.NotFound))
	lastRunCollections.WithLabelValues(string(StatusError)).Set(float64(run.Summary.Failed))
}

// WriteMetrics writes the default registry in the Prometheus text format
// to path, for pickup by the node exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return qberrors.WrapWithContext(qberrors.ErrCodeInternal, "failed to write metrics file", err,
			map[string]any{"path": path})
	}
	return nil
}
