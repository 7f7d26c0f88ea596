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

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestNew_NilRegistererUsesPrivateRegistry(t *testing.T) {
	c := New(nil)
	assert.NotNil(t, c)
	c.IncEnqueued(1) // must not panic against the private registry
}

func TestNew_RegistersEverySeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"paperlog_records_enqueued_total",
		"paperlog_records_dropped_total",
		"paperlog_queue_depth",
		"paperlog_batch_size",
		"paperlog_flush_duration_seconds",
		"paperlog_sink_errors_total",
	} {
		assert.True(t, names[want], "expected metric %s to be registered", want)
	}
}

func TestIncEnqueued_AddsN(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.IncEnqueued(3)
	c.IncEnqueued(2)
	assert.Equal(t, float64(5), counterValue(t, c.recordsEnqueued))
}

func TestIncDropped_AddsN(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.IncDropped(4)
	assert.Equal(t, float64(4), counterValue(t, c.recordsDropped))
}

func TestSetQueueDepth_OverwritesNotAccumulates(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.SetQueueDepth(10)
	c.SetQueueDepth(3)
	assert.Equal(t, float64(3), gaugeValue(t, c.queueDepth))
}

func TestOnDrain_ObservesBatchSize(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.OnDrain(7)
	assert.EqualValues(t, 1, histogramCount(t, c.batchSize))
}

func TestOnFlush_ObservesDuration(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.OnFlush(15 * time.Millisecond)
	assert.EqualValues(t, 1, histogramCount(t, c.flushDuration))
}

func TestOnError_CountsOnlyNonNilErrors(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.OnError(nil)
	c.OnError(errors.New("boom"))
	assert.Equal(t, float64(1), counterValue(t, c.sinkErrors))
}
