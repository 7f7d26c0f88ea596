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

// Package stdoutsink writes formatted lines straight to an io.Writer,
// normally os.Stdout — the standard-output fan-out step.
package stdoutsink

import (
	"context"
	"io"
	"sync"

	asink "dirpx.dev/paperlog/apis/sink"
)

const sinkName = "stdout"

// Sink writes every entry to w, serialized by a mutex since os.Stdout
// is shared process-wide and the consumer must not interleave partial
// writes with anything else writing to it concurrently.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ asink.Sink = (*Sink)(nil)

// New wraps w (typically os.Stdout).
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Name implements asink.Sink.
func (s *Sink) Name() string { return sinkName }

// Write implements asink.Sink.
func (s *Sink) Write(_ context.Context, entry []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(entry)
	return err
}

// Flush implements asink.Sink. Most io.Writer destinations (os.Stdout
// included) have no explicit flush.
func (s *Sink) Flush(_ context.Context) error { return nil }

// Close implements asink.Sink. stdoutsink never closes the underlying
// writer — os.Stdout is not ours to close.
func (s *Sink) Close(_ context.Context) error { return nil }
