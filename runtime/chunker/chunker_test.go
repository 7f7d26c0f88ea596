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

package chunker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/record"
)

func newRecord(msg string) record.Record {
	return record.New(time.Now(), level.Info, "ctx", msg)
}

func TestSplit_ShortMessageIsSingleRecord(t *testing.T) {
	r := newRecord("hello")
	out := Split(r, 100)
	require.Len(t, out, 1)
	assert.Equal(t, "hello", out[0].Message)
	assert.Equal(t, r.Tag, out[0].Tag)
	assert.Equal(t, r.Level, out[0].Level)
}

func TestSplit_SplitsOnNewlines(t *testing.T) {
	r := newRecord("line1\nline2\nline3")
	out := Split(r, 100)
	require.Len(t, out, 3)
	assert.Equal(t, "line1", out[0].Message)
	assert.Equal(t, "line2", out[1].Message)
	assert.Equal(t, "line3", out[2].Message)
}

func TestSplit_SplitsLongLineIntoMaxCharsChunks(t *testing.T) {
	r := newRecord(strings.Repeat("a", 10))
	out := Split(r, 4)
	require.Len(t, out, 3)
	assert.Equal(t, "aaaa", out[0].Message)
	assert.Equal(t, "aaaa", out[1].Message)
	assert.Equal(t, "aa", out[2].Message)
}

func TestSplit_RuneAwareNeverSplitsMultibyteCharacter(t *testing.T) {
	// Each CJK rune is 3 bytes in UTF-8; a byte-aware splitter at width 2
	// would produce invalid UTF-8 or mangled runes.
	r := newRecord("你好世界")
	out := Split(r, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "你好", out[0].Message)
	assert.Equal(t, "世界", out[1].Message)

	for _, rec := range out {
		assert.True(t, len([]rune(rec.Message)) <= 2)
	}
}

func TestSplit_EmptyMessageProducesOneEmptyRecord(t *testing.T) {
	r := newRecord("")
	out := Split(r, 10)
	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].Message)
}

func TestSplit_NonPositiveMaxCharsSaturatesToOne(t *testing.T) {
	r := newRecord("abc")
	out := Split(r, 0)
	require.Len(t, out, 3)
	for _, rec := range out {
		assert.Len(t, []rune(rec.Message), 1)
	}

	out = Split(r, -5)
	require.Len(t, out, 3)
}

func TestSplit_ChunksPreserveOrderAndReassembleLine(t *testing.T) {
	line := strings.Repeat("xy", 20)
	r := newRecord(line)
	out := Split(r, 7)

	var rebuilt strings.Builder
	for _, rec := range out {
		rebuilt.WriteString(rec.Message)
	}
	assert.Equal(t, line, rebuilt.String())
}

func TestSplit_MixedNewlinesAndLongLines(t *testing.T) {
	r := newRecord("ab\n" + strings.Repeat("c", 5) + "\nd")
	out := Split(r, 2)
	// "ab" -> 1 chunk, "ccccc" -> 3 chunks, "d" -> 1 chunk
	require.Len(t, out, 5)
	assert.Equal(t, []string{"ab", "cc", "cc", "c", "d"}, messagesOf(out))
}

func messagesOf(rs []record.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Message
	}
	return out
}
