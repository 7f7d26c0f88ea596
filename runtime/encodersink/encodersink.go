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

// Package encodersink is a structured (Record-typed) sink parameterized
// by any runtime/encoder.Encoder, so a new encoding gets a file
// destination without writing a dedicated sink type for it — jsonsink
// predates this package and keeps its own copy of the same shape for
// its NDJSON-specific doc comments, but any other encoder.Encoder
// (console included) can use this one directly.
package encodersink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/runtime/encoder"
)

// Sink encodes each record with enc and appends it to a dedicated file.
type Sink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	enc  encoder.Encoder
	name string
}

// New opens (creating/appending) path and wraps it with a buffered
// writer driven by enc. name overrides enc.Name() as the sink's stable
// identifier when non-empty, so a host can register more than one
// encodersink.Sink (e.g. two console mirrors at different paths)
// without a name collision in its sink registry.
func New(path string, enc encoder.Encoder, name string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("paperlog: encodersink: open %s: %w", path, err)
	}
	if name == "" {
		name = enc.Name()
	}
	return &Sink{f: f, w: bufio.NewWriter(f), enc: enc, name: name}, nil
}

// Name returns the sink's stable identifier.
func (s *Sink) Name() string { return s.name }

// WriteRecord encodes r with the configured encoder and appends it.
func (s *Sink) WriteRecord(_ context.Context, r *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(r, s.w)
}

// Flush flushes buffered bytes to the underlying file.
func (s *Sink) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes and closes the underlying file.
func (s *Sink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.f.Close()
}
