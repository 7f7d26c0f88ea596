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

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/pipeline/stage"
	"dirpx.dev/paperlog/apis/record"
)

func TestLevelFilter_DropsBelowMinimum(t *testing.T) {
	f := NewLevelFilter(level.Warn)
	r := record.New(time.Now(), level.Info, "", "m")

	_, decision, err := f.Process(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, stage.Drop, decision)
}

func TestLevelFilter_ContinuesAtOrAboveMinimum(t *testing.T) {
	f := NewLevelFilter(level.Warn)

	for _, lvl := range []level.Level{level.Warn, level.Error, level.Critical} {
		r := record.New(time.Now(), lvl, "", "m")
		_, decision, err := f.Process(context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, stage.Continue, decision, "level %v should continue", lvl)
	}
}

func TestLevelFilter_AlwaysDropsOffRegardlessOfMinimum(t *testing.T) {
	f := NewLevelFilter(level.Debug)
	r := record.New(time.Now(), level.Off, "", "m")

	_, decision, err := f.Process(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, stage.Drop, decision, "Off must never reach a sink even at the most permissive minimum")
}

func TestLevelFilter_SetMinLevelTakesEffectImmediately(t *testing.T) {
	f := NewLevelFilter(level.Error)
	r := record.New(time.Now(), level.Info, "", "m")

	_, decision, _ := f.Process(context.Background(), r)
	assert.Equal(t, stage.Drop, decision)

	f.SetMinLevel(level.Debug)
	_, decision, _ = f.Process(context.Background(), r)
	assert.Equal(t, stage.Continue, decision)
	assert.Equal(t, level.Debug, f.MinLevel())
}

func TestLevelFilter_DisabledAlwaysContinues(t *testing.T) {
	f := NewLevelFilter(level.Critical)
	f.SetEnabled(false)
	assert.False(t, f.Enabled())

	r := record.New(time.Now(), level.Debug, "", "m")
	_, decision, err := f.Process(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, stage.Continue, decision)
}

func TestLevelFilter_Name(t *testing.T) {
	f := NewLevelFilter(level.Info)
	assert.Equal(t, LevelFilterKind, f.Name())
}
