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
	"sync/atomic"

	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/pipeline/stage"
	"dirpx.dev/paperlog/apis/record"
)

// LevelFilterKind is the plugin.Specification.Kind used to reference
// the built-in level filter from declarative config.
const LevelFilterKind = "level_filter"

// LevelFilter is the one stage paperlog always runs ahead of every
// other configured plugin: it drops records whose Level does not pass
// the current minimum, and it always drops Level Off regardless of the
// minimum (Off is a sentinel a producer should never actually emit,
// but a misbehaving caller or corrupt queue entry must not fan out).
//
// The minimum is stored atomically so a config provider can update it
// from runtime/configprovider without taking the logger's exclusive
// lock or racing the consumer goroutine that reads it every record.
type LevelFilter struct {
	min     atomic.Int32
	enabled atomic.Bool
}

var _ stage.Stage = (*LevelFilter)(nil)

// NewLevelFilter constructs an enabled LevelFilter at the given
// minimum level.
func NewLevelFilter(min level.Level) *LevelFilter {
	f := &LevelFilter{}
	f.enabled.Store(true)
	f.min.Store(int32(min))
	return f
}

// SetMinLevel atomically updates the minimum level a record must meet
// to continue through the pipeline.
func (f *LevelFilter) SetMinLevel(min level.Level) {
	f.min.Store(int32(min))
}

// MinLevel returns the current minimum level.
func (f *LevelFilter) MinLevel() level.Level {
	return level.Level(f.min.Load())
}

// SetEnabled toggles the filter. A disabled filter always continues.
func (f *LevelFilter) SetEnabled(on bool) {
	f.enabled.Store(on)
}

// Name implements stage.Stage.
func (f *LevelFilter) Name() string { return LevelFilterKind }

// Enabled implements stage.Stage.
func (f *LevelFilter) Enabled() bool { return f.enabled.Load() }

// Process implements stage.Stage. It never modifies the record or
// returns an error; it only decides Continue vs Drop.
func (f *LevelFilter) Process(_ context.Context, r record.Record) (record.Record, stage.Decision, error) {
	if r.Level == level.Off {
		return r, stage.Drop, nil
	}
	if !r.Level.Enabled(f.MinLevel()) {
		return r, stage.Drop, nil
	}
	return r, stage.Continue, nil
}
