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

package sinkregistry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/paperlog/apis/health"
)

func TestFlushChecker_ReportsHealthyWithNoSinks(t *testing.T) {
	r := New()
	checker := NewFlushChecker(r)

	res, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health.StatusHealthy, res.Status)
}

func TestFlushChecker_ReportsDegradedOnFlushError(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(&failingFlushSink{}))
	checker := NewFlushChecker(r)

	res, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health.StatusDegraded, res.Status)
	assert.Error(t, res.Error)
}

type failingFlushSink struct{}

func (*failingFlushSink) Name() string                           { return "failing" }
func (*failingFlushSink) Write(_ context.Context, _ []byte) error { return nil }
func (*failingFlushSink) Flush(_ context.Context) error           { return errors.New("flush boom") }
func (*failingFlushSink) Close(_ context.Context) error           { return nil }
