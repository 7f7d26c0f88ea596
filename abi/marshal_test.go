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

package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8_ValidPayloadUnchanged(t *testing.T) {
	in := []byte("hello \xE4\xBD\xA0\xE5\xA5\xBD world") // valid UTF-8 incl. CJK
	assert.Equal(t, string(in), SanitizeUTF8(in))
}

func TestSanitizeUTF8_InvalidBytesReplaced(t *testing.T) {
	in := []byte{'a', 'b', 0xFF, 'c', 0xC0, 'd'}
	got := SanitizeUTF8(in)
	assert.Equal(t, "ab�c�d", got)
}

func TestSanitizeUTF8_Empty(t *testing.T) {
	assert.Equal(t, "", SanitizeUTF8(nil))
	assert.Equal(t, "", SanitizeUTF8([]byte{}))
}

func TestSanitizeUTF8_TruncatedMultibyteSequence(t *testing.T) {
	// 0xE4 alone starts a 3-byte sequence that never completes.
	in := []byte{'x', 0xE4, 'y'}
	got := SanitizeUTF8(in)
	assert.Equal(t, "x�y", got)
}

func TestSanitizeCString_StopsAtFirstNUL(t *testing.T) {
	in := []byte("tag-value\x00garbage-after-terminator")
	assert.Equal(t, "tag-value", SanitizeCString(in))
}

func TestSanitizeCString_NoNULUsesWholeSlice(t *testing.T) {
	in := []byte("no-terminator")
	assert.Equal(t, "no-terminator", SanitizeCString(in))
}

func TestSanitizeCString_InvalidUTF8BeforeNUL(t *testing.T) {
	in := []byte{'a', 0xFF, 'b', 0x00, 'c'}
	assert.Equal(t, "a�b", SanitizeCString(in))
}
