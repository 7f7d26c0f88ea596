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

// Package chunker splits an oversized record.Record message into
// several records that share every other field. Splitting is rune
// aware, not byte aware: a multi-byte UTF-8 character never straddles
// a chunk boundary, mirroring the upstream s.chars().chunks(max_len).
package chunker

import (
	"strings"

	"dirpx.dev/paperlog/apis/record"
)

// Split breaks r.Message first on '\n', then each line into chunks of
// at most maxChars runes, and returns one record.Record clone per
// chunk via record.Record.Chunked, in the order the text should be
// written. maxChars <= 0 is not a valid configuration; it saturates to
// 1 rather than disabling chunking.
//
// A message with no newline and no line longer than maxChars returns a
// single-element slice equal to r itself (via Chunked), so callers can
// always treat Split's result as "the records to enqueue" without a
// special case for the unchunked path.
func Split(r record.Record, maxChars int) []record.Record {
	lines := strings.Split(r.Message, "\n")

	out := make([]record.Record, 0, len(lines))
	for _, line := range lines {
		for _, chunk := range chunkLine(line, maxChars) {
			out = append(out, r.Chunked(chunk))
		}
	}
	if len(out) == 0 {
		out = append(out, r.Chunked(""))
	}
	return out
}

// chunkLine splits a single line (already free of '\n') into pieces of
// at most maxChars runes. maxChars <= 0 saturates to 1.
func chunkLine(line string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = 1
	}
	runes := []rune(line)
	if len(runes) <= maxChars {
		return []string{line}
	}

	chunks := make([]string, 0, (len(runes)+maxChars-1)/maxChars)
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
