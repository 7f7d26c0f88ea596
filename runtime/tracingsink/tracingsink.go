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

// Package tracingsink mirrors formatted records into a zap.Logger,
// the "external tracing" fan-out step. It exists so a host process
// that already centralizes logs through zap (or anything zap can be
// configured to forward to — an OTel collector, a log shipper) gets
// paperlog's output without a second ingestion path.
package tracingsink

import (
	"context"

	"go.uber.org/zap"

	asink "dirpx.dev/paperlog/apis/sink"
)

const sinkName = "tracing"

// Sink writes each entry as a single zap.Info-level message. The
// entry is already a fully formatted line (see record.Record.FormatGlobal),
// so it is passed through as the message rather than decomposed back
// into structured fields.
type Sink struct {
	log *zap.Logger
}

var _ asink.Sink = (*Sink)(nil)

// New wraps an existing *zap.Logger. The logger is not owned by Sink;
// Close does not call log.Sync to avoid double-closing a logger shared
// with the host process's own tracing setup — callers that want Sync
// semantics should pass a logger dedicated to this sink.
func New(log *zap.Logger) *Sink {
	return &Sink{log: log}
}

// Name implements asink.Sink.
func (s *Sink) Name() string { return sinkName }

// Write implements asink.Sink.
func (s *Sink) Write(_ context.Context, entry []byte) error {
	s.log.Info(string(entry))
	return nil
}

// Flush implements asink.Sink.
func (s *Sink) Flush(_ context.Context) error {
	return s.log.Sync()
}

// Close implements asink.Sink. It intentionally does not call Sync or
// otherwise tear down the wrapped logger; see New.
func (s *Sink) Close(_ context.Context) error { return nil }
