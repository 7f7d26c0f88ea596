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

package record

import (
	"fmt"
	"strings"
	"time"

	"dirpx.dev/paperlog/apis/context"
	"dirpx.dev/paperlog/apis/field"
	"dirpx.dev/paperlog/apis/level"
)

// GlobalTag is substituted for the tag in the global file's full format
// when the record was not logged against any per-context tag.
const GlobalTag = "GLOBAL"

// DefaultFunction is substituted for Function in the full format when
// the producer did not supply a source-site function name.
const DefaultFunction = "default"

// Record is the canonical log event shape inside paperlog.
//
// A Record is constructed by a producer and transferred into the queue
// by value; from the moment it is drained it is owned exclusively by
// the consumer, which may chunk, enrich, and fan it out to sinks but
// never mutates the producer's original copy (see Chunked).
type Record struct {
	// Time is the event time, local time zone for on-disk formatting.
	Time time.Time
	// Level defines the severity. Off records are queued like any other
	// and dropped only at sink dispatch time (see apis/pipeline/stage).
	Level level.Level
	// Tag routes the record to a registered per-context file in addition
	// to the global file. Empty means global-only.
	Tag string
	// Message is the human-readable text, already chunked to the
	// configured maximum character count by the time it reaches a sink.
	Message string

	// File, Line, Column and Function are source-site coordinates used
	// only for human formatting of the global/context file lines.
	File     string
	Line     uint32
	Column   uint32
	Function string

	// Ctx is pre-extracted, well-known context identity (service, env,
	// trace/span, ...). Rendered into the JSON mirror sink only; never
	// part of the fixed-format file line.
	Ctx context.Pack
	// Fields is caller-supplied or plugin-enriched structured payload.
	// Rendered into the JSON mirror sink only.
	Fields []field.Field
	// Err is the original error, if any.
	Err error
}

// New builds a Record with the required parts. It does not perform deep
// copies of fields; callers should pass owned slices.
func New(t time.Time, lvl level.Level, tag, msg string) Record {
	return Record{
		Time:    t,
		Level:   lvl,
		Tag:     tag,
		Message: msg,
	}
}

// Validate checks that the record has a valid level and a non-zero timestamp.
func (r Record) Validate() error {
	if err := r.Level.Validate(); err != nil {
		return fmt.Errorf("paperlog: invalid record level: %w", err)
	}
	if r.Time.IsZero() {
		return fmt.Errorf("paperlog: record time is zero")
	}
	return nil
}

// WithFields returns a shallow copy of the record with additional fields appended.
func (r Record) WithFields(extra ...field.Field) Record {
	if len(extra) == 0 {
		return r
	}
	out := r
	out.Fields = append(append([]field.Field(nil), r.Fields...), extra...)
	return out
}

// WithError returns a shallow copy of the record with a new error attached.
func (r Record) WithError(err error) Record {
	out := r
	out.Err = err
	return out
}

// Chunked returns a shallow copy of the record with Message replaced.
// Used by runtime/chunker to split an oversized message into several
// records that otherwise share every field, including Time — callers
// that need per-chunk ordering distinguish chunks positionally, not by
// timestamp.
func (r Record) Chunked(message string) Record {
	out := r
	out.Message = message
	return out
}

// tagOrGlobal returns Tag, or GlobalTag when the record carries no tag.
func (r Record) tagOrGlobal() string {
	if r.Tag == "" {
		return GlobalTag
	}
	return r.Tag
}

// functionOrDefault returns Function, or DefaultFunction when empty.
func (r Record) functionOrDefault() string {
	if r.Function == "" {
		return DefaultFunction
	}
	return r.Function
}

// FormatGlobal renders the full line written to the global file:
//
//	<LEVEL> [<local timestamp>] [<tag|GLOBAL>] <file>:<line>:<col>@<fn|default> <message>
//
// The returned string does not include the trailing line terminator;
// callers append the configured line_end byte.
func (r Record) FormatGlobal() string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteString(" [")
	b.WriteString(r.Time.Format(time.RFC3339Nano))
	b.WriteString("] [")
	b.WriteString(r.tagOrGlobal())
	b.WriteString("] ")
	b.WriteString(r.File)
	b.WriteByte(':')
	fmt.Fprintf(&b, "%d:%d", r.Line, r.Column)
	b.WriteByte('@')
	b.WriteString(r.functionOrDefault())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	return b.String()
}

// FormatContext renders the compact line written to a per-context file:
// the same as FormatGlobal but omitting the [<tag>] segment, since the
// tag is already implied by the file the line is written to.
func (r Record) FormatContext() string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteString(" [")
	b.WriteString(r.Time.Format(time.RFC3339Nano))
	b.WriteString("] ")
	b.WriteString(r.File)
	b.WriteByte(':')
	fmt.Fprintf(&b, "%d:%d", r.Line, r.Column)
	b.WriteByte('@')
	b.WriteString(r.functionOrDefault())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	return b.String()
}
