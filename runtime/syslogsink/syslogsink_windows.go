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

//go:build windows

package syslogsink

import (
	"context"
	"errors"

	asink "dirpx.dev/paperlog/apis/sink"
)

// ErrUnsupported is returned by New on platforms without a syslog
// facility. Callers treat this as "syslog unavailable" and simply omit
// the sink, per the spec's "platform-native syslog (if available)"
// fan-out step.
var ErrUnsupported = errors.New("paperlog: syslogsink: unsupported on this platform")

// Sink is a no-op placeholder so the package still exports a type on
// Windows builds.
type Sink struct{}

var _ asink.Sink = (*Sink)(nil)

// New always fails on Windows.
func New(tag string) (*Sink, error) { return nil, ErrUnsupported }

func (s *Sink) Name() string                          { return "syslog" }
func (s *Sink) Write(context.Context, []byte) error    { return ErrUnsupported }
func (s *Sink) Flush(context.Context) error            { return nil }
func (s *Sink) Close(context.Context) error            { return nil }
