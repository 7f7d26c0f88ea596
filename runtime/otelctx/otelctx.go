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

// Package otelctx implements apis/context.Extractor by pulling the
// active OpenTelemetry span out of a context.Context, the "external
// tracing" identity source named in apis/context.Extractor's doc.
package otelctx

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	pctx "dirpx.dev/paperlog/apis/context"
)

// Extractor reads trace_id/span_id from the OpenTelemetry span stored
// in a context.Context. It never returns an error: a context with no
// recording span simply yields an empty Pack, matching
// apis/context.Extractor's "never return nil, use an empty Pack"
// contract.
type Extractor struct{}

var _ pctx.Extractor = Extractor{}

// New constructs an Extractor. It has no state; New exists only to
// match the constructor convention used by the other extractor-style
// helpers in apis/context.
func New() Extractor { return Extractor{} }

// Extract implements apis/context.Extractor.
func (Extractor) Extract(ctx context.Context) pctx.Pack {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return pctx.Empty()
	}
	return pctx.Pack{
		TraceID: span.TraceID().String(),
		SpanID:  span.SpanID().String(),
	}
}
