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

package policy

import (
	"context"
	"testing"

	asink "dirpx.dev/paperlog/apis/sink"
	spolicy "dirpx.dev/paperlog/apis/sink/policy"
)

func TestApplySpecification_BatchOnlyUsesOuterName(t *testing.T) {
	inner := &memSink{}
	spec := asink.Specification{
		Name:          "rotate",
		QueueCapacity: 8,
		Batch:         &spolicy.Batch{MaxEntries: 1},
	}

	s := ApplySpecification(inner, spec)
	defer s.Close(context.Background())

	if got, want := s.Name(), "rotate"; got != want {
		t.Fatalf("Name() = %q, want %q", got, want)
	}
}

func TestApplySpecification_RetryOnlyNoBatch(t *testing.T) {
	inner := &memSink{}
	spec := asink.Specification{
		Name:  "mirror",
		Retry: spolicy.Retry{Enable: true, MaxRetries: 1},
	}

	s := ApplySpecification(inner, spec)
	defer s.Close(context.Background())

	if got, want := s.Name(), "mirror"; got != want {
		t.Fatalf("Name() = %q, want %q", got, want)
	}
	if err := s.Write(context.Background(), []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := inner.writes, 1; got != want {
		t.Fatalf("inner writes = %d, want %d", got, want)
	}
}

type memSink struct {
	writes int
}

var _ asink.Sink = (*memSink)(nil)

func (m *memSink) Name() string                             { return "mem" }
func (m *memSink) Write(_ context.Context, _ []byte) error  { m.writes++; return nil }
func (m *memSink) Flush(_ context.Context) error            { return nil }
func (m *memSink) Close(_ context.Context) error            { return nil }
