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

// Package record defines the canonical log entry shape used across paperlog.
//
// This package intentionally contains only stable, minimal data structures and
// helper methods. It performs no I/O, encoding, buffering, or registry logic.
// Implementations, encoders, and runtime behavior live outside apis/.
//
// # Record contract
//
// Record is a value type that represents a single log entry. It carries:
//   - Time:   event timestamp, local time zone
//   - Level:  severity (see apis/level)
//   - Tag:    optional per-context routing key
//   - Message: text message, already chunked by runtime/chunker
//   - File/Line/Column/Function: source-site coordinates for formatting
//   - Ctx:    contextual identity (see apis/context Pack)
//   - Fields: additional structured fields (see apis/field and apis/field/fields)
//   - Err:    optional error associated with the event
//
// # Immutability & helpers
//
// Record follows an immutable style: helper methods (e.g., WithFields, WithError,
// Chunked) return a shallow copy with the requested modification, leaving the
// original instance unchanged. Callers must treat returned slices as read-only.
//
// # File formatting
//
// FormatGlobal and FormatContext implement the exact on-disk line contract:
// the global file gets the full line including the tag segment, a per-context
// file gets the compact line with the tag segment omitted (the tag is implied
// by the file itself).
//
// # Separation of concerns
//
//   - Encoding for the JSON mirror sink is defined by runtime encoders.
//   - Processing (filtering, enrichment, redaction) is performed by the pipeline
//     (see apis/pipeline).
//   - Delivery to outputs is handled by sinks (see apis/sink), which accept
//     already-formatted records.
package record
