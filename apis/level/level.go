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

package level

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Level represents the logging severity used across paperlog.
//
// Ordering is by verbosity: Debug is the most verbose. Off is a sentinel
// that is never itself "enabled" — it exists so a record can be queued
// like any other and then dropped uniformly at sink dispatch time.
type Level int8

const (
	// Debug is verbose diagnostic output, normally disabled in production.
	Debug Level = iota

	// Info is the default informational level for normal operation.
	Info

	// Warn indicates unexpected situations that are not fatal.
	Warn

	// Error indicates a failure the process can continue past, but that
	// should be surfaced to operators.
	Error

	// Critical indicates a severe failure, without implying the process
	// must exit — paperlog never terminates the host on the caller's behalf.
	Critical

	// Off disables a record. Accepted at enqueue, dropped at dispatch.
	Off
)

var (
	// ErrLevelInvalid is returned when a textual or numeric level cannot be recognized.
	ErrLevelInvalid = errors.New("paperlog: invalid level")
)

var (
	_ fmt.Stringer             = (*Level)(nil)
	_ encoding.TextMarshaler   = (*Level)(nil)
	_ encoding.TextUnmarshaler = (*Level)(nil)
)

// ParseLevel converts a textual representation into a Level.
//
// Accepted (case-insensitive): "debug", "info", "warn", "warning",
// "error", "err", "critical", "crit", "off".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error", "err":
		return Error, nil
	case "critical", "crit":
		return Critical, nil
	case "off":
		return Off, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrLevelInvalid, s)
	}
}

// String returns the canonical upper-case name of the level, matching the
// "<LEVEL> [<timestamp>] ..." global/context file line contract.
func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	case Off:
		return "OFF"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Validate checks that the level is one of the known values.
func (l Level) Validate() error {
	switch l {
	case Debug, Info, Warn, Error, Critical, Off:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrLevelInvalid, int(l))
	}
}

// Enabled reports whether a record at level l should be processed when the
// active threshold is min. Off never passes, regardless of min.
func (l Level) Enabled(min Level) bool {
	if l == Off {
		return false
	}
	return l >= min
}

// MarshalText encodes the level as its canonical name, lowercased to stay
// consistent with config-file conventions.
func (l Level) MarshalText() ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText decodes the level from text. Accepts the same values as ParseLevel.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(bytes.TrimSpace(b)))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalJSON encodes the level as a JSON string, e.g. "info".
func (l Level) MarshalJSON() ([]byte, error) {
	text, err := l.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON decodes the level from a JSON string or number.
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, perr := ParseLevel(s)
		if perr != nil {
			return perr
		}
		*l = v
		return nil
	}

	var n int8
	if err := json.Unmarshal(b, &n); err == nil {
		v := Level(n)
		if err := v.Validate(); err != nil {
			return err
		}
		*l = v
		return nil
	}

	return fmt.Errorf("%w: %s", ErrLevelInvalid, string(b))
}
