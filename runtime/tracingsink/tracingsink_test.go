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

package tracingsink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSink_WriteForwardsEntryAsInfoMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	s := New(log)

	require.NoError(t, s.Write(context.Background(), []byte("hello from paperlog")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "hello from paperlog", entries[0].Message)
}

func TestSink_NameIsStable(t *testing.T) {
	s := New(zap.NewNop())
	assert.Equal(t, sinkName, s.Name())
}

func TestSink_FlushCallsSync(t *testing.T) {
	s := New(zap.NewNop())
	// zap.NewNop's Sync is a no-op that returns nil on most platforms.
	assert.NoError(t, s.Flush(context.Background()))
}

func TestSink_CloseDoesNotErrorAndLeavesLoggerUsable(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	s := New(log)

	require.NoError(t, s.Close(context.Background()))
	// Close must not tear down the wrapped logger.
	require.NoError(t, s.Write(context.Background(), []byte("still works")))
	assert.Len(t, logs.All(), 1)
}
