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

// Package jsonsink mirrors records to an NDJSON file, rendering
// apis/context.Pack and apis/field.Field rather than the fixed-format
// global/context line (runtime/encodersink renders them too).
package jsonsink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"dirpx.dev/paperlog/apis/record"
	jsonenc "dirpx.dev/paperlog/runtime/encoder/json"
)

const sinkName = "json_mirror"

// Sink encodes each record as one NDJSON line and appends it to a
// dedicated file.
type Sink struct {
	mu  sync.Mutex
	f   *os.File
	w   *bufio.Writer
	enc *jsonenc.Encoder
}

// New opens (creating/appending) path and wraps it with a buffered
// writer and a zap-backed JSON encoder.
func New(path string, enc *jsonenc.Encoder) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("paperlog: jsonsink: open %s: %w", path, err)
	}
	return &Sink{f: f, w: bufio.NewWriter(f), enc: enc}, nil
}

// Name returns the sink's stable identifier.
func (s *Sink) Name() string { return sinkName }

// WriteRecord encodes r as one NDJSON line. Unlike apis/sink.Sink,
// this takes the record itself rather than a pre-formatted line,
// since the mirror sink's whole purpose is to render fields and
// context the fixed-format line omits.
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
