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

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/paperlog/apis/level"
)

func TestDefaults_MatchesDocumentedConstants(t *testing.T) {
	c := Defaults()
	assert.Equal(t, DefaultMaxStringLen, c.MaxStringLen)
	assert.Equal(t, DefaultLogMaxBufferCount, c.LogMaxBufferCount)
	assert.Equal(t, byte(DefaultLineEnd), c.LineEnd)
	assert.Equal(t, DefaultMinLevel, c.MinLevel)
	assert.True(t, c.EnableStdout)
	assert.Equal(t, 1000, c.QueueDepthWarn)
}

func validConfig() Config {
	c := Defaults()
	c.GlobalLogPath = "/tmp/paperlog/Paperlog.log"
	c.ContextLogPath = "/tmp/paperlog"
	return c
}

func TestValidate_AcceptsDefaultsPlusRequiredPaths(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsNegativeMaxStringLen(t *testing.T) {
	c := validConfig()
	c.MaxStringLen = -1
	assert.Error(t, c.Validate())
}

func TestValidate_AllowsZeroMaxStringLen(t *testing.T) {
	c := validConfig()
	c.MaxStringLen = 0
	assert.NoError(t, c.Validate(), "zero saturates to 1 in the chunker, not rejected here")
}

func TestValidate_RejectsNonPositiveLogMaxBufferCount(t *testing.T) {
	c := validConfig()
	c.LogMaxBufferCount = 0
	assert.Error(t, c.Validate())

	c.LogMaxBufferCount = -5
	assert.Error(t, c.Validate())
}

func TestValidate_RequiresGlobalAndContextPaths(t *testing.T) {
	c := validConfig()
	c.GlobalLogPath = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.ContextLogPath = ""
	assert.Error(t, c.Validate())
}

func TestValidate_RejectsInvalidMinLevel(t *testing.T) {
	c := validConfig()
	c.MinLevel = level.Level(99)
	assert.Error(t, c.Validate())
}

func TestResolvedJSONMirrorPath_UsesExplicitPathWhenSet(t *testing.T) {
	c := validConfig()
	c.JSONMirrorPath = "/var/log/custom-mirror.ndjson"
	assert.Equal(t, "/var/log/custom-mirror.ndjson", c.ResolvedJSONMirrorPath())
}

func TestResolvedJSONMirrorPath_DefaultsNextToContextLogPath(t *testing.T) {
	c := validConfig()
	want := filepath.Join(c.ContextLogPath, "paperlog-mirror.ndjson")
	assert.Equal(t, want, c.ResolvedJSONMirrorPath())
}

func TestValidate_EnableJSONMirrorWithoutPathAssignsOneOnLocalCopy(t *testing.T) {
	c := validConfig()
	c.EnableJSONMirror = true
	require.NoError(t, c.Validate())
	// Validate receives Config by value, so the caller's copy of
	// JSONMirrorPath is unaffected; ResolvedJSONMirrorPath is how
	// callers actually obtain the defaulted path.
	assert.Empty(t, c.JSONMirrorPath)
	assert.NotEmpty(t, c.ResolvedJSONMirrorPath())
}
