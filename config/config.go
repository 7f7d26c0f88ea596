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

// Package config defines paperlog's immutable-after-init configuration
// and its defaults. Struct tags are viper/mapstructure-compatible so
// cmd/paperlogd can bind flags, environment variables, and a YAML file
// onto the same struct without a separate translation layer.
package config

import (
	"fmt"
	"path/filepath"

	"dirpx.dev/paperlog/apis/level"
)

// Default values, named in spec.md's Config section.
const (
	DefaultMaxStringLen      = 1024
	DefaultLogMaxBufferCount = 100
	DefaultLineEnd           = '\n'
	DefaultMinLevel          = level.Info
)

// Config is paperlog's top-level, immutable-after-Init configuration.
type Config struct {
	// MaxStringLen is the maximum number of Unicode characters (not
	// bytes) per post-chunk message line. Must be >= 1.
	MaxStringLen int `mapstructure:"max_string_len" yaml:"max_string_len"`

	// LogMaxBufferCount seeds the initial capacity of each batch
	// buffer the VecPool hands out.
	LogMaxBufferCount int `mapstructure:"log_max_buffer_count" yaml:"log_max_buffer_count"`

	// LineEnd is the line terminator byte appended to every formatted
	// line written to a file or fanned out to a sink.
	LineEnd byte `mapstructure:"line_end" yaml:"line_end"`

	// GlobalLogPath is the path to the global log file
	// ("<dir>/Paperlog.log" by on-disk-layout convention).
	GlobalLogPath string `mapstructure:"global_log_path" yaml:"global_log_path"`

	// ContextLogPath is the directory in which per-context files
	// (`<tag>.log`) are created.
	ContextLogPath string `mapstructure:"context_log_path" yaml:"context_log_path"`

	// MinLevel is the initial minimum level the built-in level-filter
	// stage enforces. A config provider may update it afterward.
	MinLevel level.Level `mapstructure:"min_level" yaml:"min_level"`

	// EnableSyslog toggles the platform syslog sink (ignored, with a
	// no-op sink, on platforms without one).
	EnableSyslog bool `mapstructure:"enable_syslog" yaml:"enable_syslog"`

	// EnableStdout toggles the stdout sink.
	EnableStdout bool `mapstructure:"enable_stdout" yaml:"enable_stdout"`

	// EnableJSONMirror toggles the NDJSON mirror sink and sets its
	// output path when non-empty.
	EnableJSONMirror bool   `mapstructure:"enable_json_mirror" yaml:"enable_json_mirror"`
	JSONMirrorPath    string `mapstructure:"json_mirror_path" yaml:"json_mirror_path"`

	// QueueDepthWarn is the backlog size runtime/consumer's QueueDepthChecker
	// treats as StatusDegraded.
	QueueDepthWarn int `mapstructure:"queue_depth_warn" yaml:"queue_depth_warn"`
}

// Defaults returns a Config with every field set to its documented
// default, except GlobalLogPath/ContextLogPath which the caller must
// still supply (there is no sane default directory to write into).
func Defaults() Config {
	return Config{
		MaxStringLen:      DefaultMaxStringLen,
		LogMaxBufferCount: DefaultLogMaxBufferCount,
		LineEnd:           DefaultLineEnd,
		MinLevel:          DefaultMinLevel,
		EnableStdout:      true,
		QueueDepthWarn:    1000,
	}
}

// Validate checks the fields Init cannot safely proceed without.
// max_string_len = 0 is not corrected here (the chunker itself
// saturates to 1, per spec.md §4.4's edge case); Validate only rejects
// negative values, which indicate a construction bug rather than an
// intentionally degenerate setting.
func (c Config) Validate() error {
	if c.MaxStringLen < 0 {
		return fmt.Errorf("paperlog: config: max_string_len must be >= 0, got %d", c.MaxStringLen)
	}
	if c.LogMaxBufferCount <= 0 {
		return fmt.Errorf("paperlog: config: log_max_buffer_count must be > 0, got %d", c.LogMaxBufferCount)
	}
	if c.GlobalLogPath == "" {
		return fmt.Errorf("paperlog: config: global_log_path is required")
	}
	if c.ContextLogPath == "" {
		return fmt.Errorf("paperlog: config: context_log_path is required")
	}
	if err := c.MinLevel.Validate(); err != nil {
		return fmt.Errorf("paperlog: config: min_level: %w", err)
	}
	if c.EnableJSONMirror && c.JSONMirrorPath == "" {
		c.JSONMirrorPath = filepath.Join(c.ContextLogPath, "paperlog-mirror.ndjson")
	}
	return nil
}

// ResolvedJSONMirrorPath returns JSONMirrorPath, defaulting it next to
// ContextLogPath when EnableJSONMirror is set but no explicit path was
// given.
func (c Config) ResolvedJSONMirrorPath() string {
	if c.JSONMirrorPath != "" {
		return c.JSONMirrorPath
	}
	return filepath.Join(c.ContextLogPath, "paperlog-mirror.ndjson")
}
