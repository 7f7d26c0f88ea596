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

//go:build !windows

package syslogsink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NameIsStable(t *testing.T) {
	s, err := New("paperlog-test")
	if err != nil {
		t.Skipf("no local syslog daemon available: %v", err)
	}
	defer s.Close(context.Background())

	assert.Equal(t, sinkName, s.Name())
}

func TestWrite_DeliversEntryWithoutError(t *testing.T) {
	s, err := New("paperlog-test")
	if err != nil {
		t.Skipf("no local syslog daemon available: %v", err)
	}
	defer s.Close(context.Background())

	require.NoError(t, s.Write(context.Background(), []byte("test message from paperlog")))
}

func TestFlush_IsANoOp(t *testing.T) {
	s, err := New("paperlog-test")
	if err != nil {
		t.Skipf("no local syslog daemon available: %v", err)
	}
	defer s.Close(context.Background())

	assert.NoError(t, s.Flush(context.Background()))
}
