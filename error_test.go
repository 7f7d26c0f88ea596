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

package paperlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MessageVariantsByFieldPresence(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"kind only", &Error{Op: "Init", Kind: KindLogError}, "paperlog: Init: log_error"},
		{"with path", &Error{Op: "RegisterContext", Kind: KindIoSpecific, Path: "/tmp/a.log"}, "paperlog: RegisterContext: io_specific (/tmp/a.log)"},
		{"with err", &Error{Op: "Flush", Kind: KindFlushError, Err: errors.New("disk full")}, "paperlog: Flush: flush_error: disk full"},
		{"with path and err", &Error{Op: "Init", Kind: KindIoError, Path: "/tmp/b.log", Err: errors.New("perm denied")}, "paperlog: Init: io_error (/tmp/b.log): perm denied"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_UnwrapReturnsWrappedErr(t *testing.T) {
	wrapped := errors.New("underlying")
	e := &Error{Op: "Init", Kind: KindIoError, Err: wrapped}
	assert.Equal(t, wrapped, e.Unwrap())
	assert.ErrorIs(t, e, wrapped)
}

func TestError_IsComparesByKindOnly(t *testing.T) {
	a := &Error{Op: "Init", Kind: KindIoError, Path: "/a"}
	b := &Error{Op: "RegisterContext", Kind: KindIoError, Path: "/b", Err: errors.New("x")}
	c := &Error{Op: "Init", Kind: KindFlushError}

	assert.True(t, a.Is(b), "same Kind with different Op/Path/Err must still match")
	assert.False(t, a.Is(c), "different Kind must not match")
	assert.ErrorIs(t, a, &Error{Kind: KindIoError})
	assert.False(t, errors.Is(a, &Error{Kind: KindFlushError}))
}

func TestError_IsReturnsFalseForNonErrorTarget(t *testing.T) {
	a := &Error{Op: "Init", Kind: KindIoError}
	assert.False(t, a.Is(errors.New("plain error")))
}
