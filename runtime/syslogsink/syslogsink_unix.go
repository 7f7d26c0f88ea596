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

// Package syslogsink adapts the platform syslog facility to
// apis/sink.Sink. It is only built on platforms with log/syslog; on
// Windows, New returns an error and callers skip this sink entirely,
// matching the spec's "if available" qualifier on the syslog fan-out
// step.
package syslogsink

import (
	"context"
	"fmt"
	"log/syslog"

	asink "dirpx.dev/paperlog/apis/sink"
)

const sinkName = "syslog"

// Sink writes encoded entries to the platform syslog daemon.
type Sink struct {
	w *syslog.Writer
}

var _ asink.Sink = (*Sink)(nil)

// New dials the local syslog daemon, tagging every message with tag
// (conventionally the host process name).
func New(tag string) (*Sink, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, tag)
	if err != nil {
		return nil, fmt.Errorf("paperlog: syslogsink: dial: %w", err)
	}
	return &Sink{w: w}, nil
}

// Name implements asink.Sink.
func (s *Sink) Name() string { return sinkName }

// Write implements asink.Sink. The severity is fixed at Info: paperlog
// records already carry their own level in the formatted line, and
// syslog's own severity field is not interesting enough to warrant
// re-deriving it here.
func (s *Sink) Write(_ context.Context, entry []byte) error {
	_, err := s.w.Write(entry)
	return err
}

// Flush implements asink.Sink. syslog.Writer has no explicit flush.
func (s *Sink) Flush(_ context.Context) error { return nil }

// Close implements asink.Sink.
func (s *Sink) Close(_ context.Context) error {
	return s.w.Close()
}
