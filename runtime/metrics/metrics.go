/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package metrics exposes paperlog's internal counters as Prometheus
// collectors. It is entirely optional: a Collector is only wired in
// when a caller supplies a prometheus.Registerer, and runtime/consumer
// talks to it only through consumer.Hooks, never by importing this
// package directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and updates paperlog's Prometheus metrics.
type Collector struct {
	recordsEnqueued prometheus.Counter
	recordsDropped  prometheus.Counter
	queueDepth      prometheus.Gauge
	batchSize       prometheus.Histogram
	flushDuration   prometheus.Histogram
	sinkErrors      prometheus.Counter
}

// New creates a Collector and registers it against reg. If reg is nil,
// a private prometheus.NewRegistry() is used instead, so callers that
// don't care about exporting can still use the Collector's methods
// without double-registration panics in a shared default registry.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		recordsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperlog",
			Name:      "records_enqueued_total",
			Help:      "Total records accepted onto the queue.",
		}),
		recordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperlog",
			Name:      "records_dropped_total",
			Help:      "Total records dropped by the pipeline (e.g. level filter).",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "paperlog",
			Name:      "queue_depth",
			Help:      "Records pending in the queue as of the last drain.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paperlog",
			Name:      "batch_size",
			Help:      "Number of records drained per consumer iteration.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paperlog",
			Name:      "flush_duration_seconds",
			Help:      "Time spent flushing the global and context file writers.",
			Buckets:   prometheus.DefBuckets,
		}),
		sinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperlog",
			Name:      "sink_errors_total",
			Help:      "Total sink errors folded into Paper2 self-report records.",
		}),
	}

	reg.MustRegister(
		c.recordsEnqueued,
		c.recordsDropped,
		c.queueDepth,
		c.batchSize,
		c.flushDuration,
		c.sinkErrors,
	)
	return c
}

// IncEnqueued increments the enqueued-records counter by n.
func (c *Collector) IncEnqueued(n int) {
	c.recordsEnqueued.Add(float64(n))
}

// IncDropped increments the dropped-records counter by n.
func (c *Collector) IncDropped(n int) {
	c.recordsDropped.Add(float64(n))
}

// SetQueueDepth reports the queue depth observed just before a drain.
func (c *Collector) SetQueueDepth(n int) {
	c.queueDepth.Set(float64(n))
}

// OnDrain satisfies consumer.Hooks.OnDrain: records a batch-size
// observation.
func (c *Collector) OnDrain(n int) {
	c.batchSize.Observe(float64(n))
}

// OnFlush satisfies consumer.Hooks.OnFlush: records a flush-duration
// observation.
func (c *Collector) OnFlush(d time.Duration) {
	c.flushDuration.Observe(d.Seconds())
}

// OnError satisfies consumer.Hooks.OnError: counts one sink error.
// Errors are aggregated (possibly several sinks per iteration) by
// go.uber.org/multierr before reaching here, so this counts
// iterations-with-at-least-one-error, not individual sink failures.
func (c *Collector) OnError(err error) {
	if err != nil {
		c.sinkErrors.Inc()
	}
}
