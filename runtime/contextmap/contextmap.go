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

// Package contextmap maintains the tag -> per-context file mapping the
// consumer writes FormatContext lines into alongside the global file.
// The consumer goroutine writes and flushes a Map; registration and
// deregistration run on the caller's goroutine and are serialized with
// the consumer by the Map's own mutex.
package contextmap

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// entry pairs an open file with the buffered writer wrapping it, so
// Close can flush the buffer before closing the descriptor.
type entry struct {
	f *os.File
	w *bufio.Writer
}

// Map owns one buffered writer per registered tag, rooted under a
// fixed directory. It is safe for concurrent use: every method takes
// the Map's mutex, which is what serializes the consumer's writes and
// flushes with Register/Unregister calls from other goroutines.
type Map struct {
	mu   sync.Mutex
	dir  string
	open map[string]*entry
}

// New constructs a Map rooted at dir. dir is not created until the
// first context is registered.
func New(dir string) *Map {
	return &Map{
		dir:  dir,
		open: make(map[string]*entry),
	}
}

// Register opens (truncating) `<dir>/<tag>.log` and wraps it in a
// buffered writer under key tag. Registering an already-registered tag
// closes and replaces the previous writer.
func (m *Map) Register(tag string) error {
	if tag == "" {
		return fmt.Errorf("paperlog: contextmap: empty tag")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("paperlog: contextmap: mkdir %s: %w", m.dir, err)
	}

	path := filepath.Join(m.dir, tag+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("paperlog: contextmap: open %s: %w", path, err)
	}

	if old, ok := m.open[tag]; ok {
		_ = old.w.Flush()
		_ = old.f.Close()
	}
	m.open[tag] = &entry{f: f, w: bufio.NewWriter(f)}
	return nil
}

// Unregister flushes and closes the writer for tag, then removes it
// from the map. Unregistering a tag that was never registered is a
// no-op. Records already drained for this tag but written after
// Unregister has returned are simply skipped by Write (the entry is
// gone), matching the upstream "skip if no longer present at drain
// time" rule.
func (m *Map) Unregister(tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.open[tag]
	if !ok {
		return nil
	}
	delete(m.open, tag)

	ferr := e.w.Flush()
	cerr := e.f.Close()
	if ferr != nil {
		return fmt.Errorf("paperlog: contextmap: flush on unregister: %w", ferr)
	}
	if cerr != nil {
		return fmt.Errorf("paperlog: contextmap: close on unregister: %w", cerr)
	}
	return nil
}

// Write appends line plus a trailing byte lineEnd to the writer
// registered for tag. It reports ok=false (with a nil error) when tag
// is not currently registered, which callers treat as "nothing to do"
// rather than a failure — the record is still delivered to the global
// file regardless.
func (m *Map) Write(tag string, line string, lineEnd byte) (ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, present := m.open[tag]
	if !present {
		return false, nil
	}
	if _, err := e.w.WriteString(line); err != nil {
		return true, err
	}
	if err := e.w.WriteByte(lineEnd); err != nil {
		return true, err
	}
	return true, nil
}

// Flush flushes every currently-registered writer without closing it.
func (m *Map) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for tag, e := range m.open {
		if err := e.w.Flush(); err != nil {
			return fmt.Errorf("paperlog: contextmap: flush %s: %w", tag, err)
		}
	}
	return nil
}

// Registered reports whether tag currently has an open writer.
func (m *Map) Registered(tag string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.open[tag]
	return ok
}

// CloseAll flushes and closes every registered writer, leaving the map
// empty. Used during logger shutdown.
func (m *Map) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for tag, e := range m.open {
		if err := e.w.Flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("paperlog: contextmap: flush %s on close: %w", tag, err)
		}
		if err := e.f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("paperlog: contextmap: close %s: %w", tag, err)
		}
		delete(m.open, tag)
	}
	return firstErr
}
