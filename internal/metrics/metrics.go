/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package metrics exposes Prometheus metrics for the persistence core.

Unlike a server-wide metrics package, ledgerdb's callers may construct
many independent persistence controllers in one process (tests routinely
do), so Metrics never touches the global Prometheus registry. Each
instance owns a private *prometheus.Registry; embedders that want to
expose it decide how (promhttp.HandlerFor, a periodic scrape, etc.).
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the per-controller metric series.
type Metrics struct {
	registry *prometheus.Registry

	RecordsWritten    prometheus.Counter
	BytesWritten      prometheus.Counter
	Compactions       prometheus.Counter
	CompactionSeconds prometheus.Histogram
	CorruptRecords    prometheus.Counter
	FoldCorruptRatio  prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdb_records_written_total",
			Help: "Total records appended to the log.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdb_bytes_written_total",
			Help: "Total bytes appended to the log.",
		}),
		Compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdb_compactions_total",
			Help: "Total completed compactions.",
		}),
		CompactionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerdb_compaction_duration_seconds",
			Help:    "Wall-clock duration of a compaction, from backup-open to rename.",
			Buckets: prometheus.DefBuckets,
		}),
		CorruptRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdb_corrupt_records_total",
			Help: "Total corrupt records observed across all folds.",
		}),
		FoldCorruptRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerdb_fold_corruption_ratio",
			Help: "corrupt/total ratio observed during the most recent fold.",
		}),
	}

	reg.MustRegister(
		m.RecordsWritten, m.BytesWritten, m.Compactions,
		m.CompactionSeconds, m.CorruptRecords, m.FoldCorruptRatio,
	)
	return m
}

// Registry returns the private registry backing this instance, for
// embedders that want to serve /metrics themselves.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCompaction records one completed compaction's duration.
func (m *Metrics) ObserveCompaction(d time.Duration) {
	m.Compactions.Inc()
	m.CompactionSeconds.Observe(d.Seconds())
}

// ObserveFold records a fold's outcome.
func (m *Metrics) ObserveFold(corrupt, total int) {
	m.CorruptRecords.Add(float64(corrupt))
	if total > 0 {
		m.FoldCorruptRatio.Set(float64(corrupt) / float64(total))
	} else {
		m.FoldCorruptRatio.Set(0)
	}
}

// ObserveAppend records one append batch.
func (m *Metrics) ObserveAppend(records int, bytes int) {
	m.RecordsWritten.Add(float64(records))
	m.BytesWritten.Add(float64(bytes))
}
