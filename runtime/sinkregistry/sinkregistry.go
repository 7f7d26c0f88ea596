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

// Package sinkregistry holds the ordered list of user-installed
// callback sinks the consumer fans a record out to, after the fixed
// built-in sinks (global file, per-context file, syslog, stdout) and
// before external tracing. It implements apis/sink.Group.
package sinkregistry

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	asink "dirpx.dev/paperlog/apis/sink"
)

const groupName = "user_callbacks"

// Registry is an ordered, named set of apis/sink.Sink implementations.
// Registration order is fan-out order; it is preserved across Add/
// Remove so a removed-then-re-added sink moves to the back.
//
// Mutation (Add/Remove) may come from any goroutine — Logger.AddSink
// calls Add directly on the caller's goroutine. List and Write are
// safe to call concurrently with that mutation via the internal mutex, but List is a best-effort snapshot: a concurrent Add
// may or may not be reflected.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byNam map[string]asink.Sink
}

var _ asink.Group = (*Registry)(nil)

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{byNam: make(map[string]asink.Sink)}
}

// Name returns the fixed group identifier used in diagnostics.
func (r *Registry) Name() string { return groupName }

// Add registers s under its Name. Adding a sink whose name is already
// registered replaces the previous sink in place, preserving its
// position in the fan-out order.
func (r *Registry) Add(s asink.Sink) error {
	if s == nil {
		return fmt.Errorf("paperlog: sinkregistry: nil sink")
	}
	name := s.Name()
	if name == "" {
		return fmt.Errorf("paperlog: sinkregistry: sink has empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byNam[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byNam[name] = s
	return nil
}

// Remove unregisters the sink named name. Removing an unknown name is
// a no-op; it does not return an error, matching the "implementations
// may ignore silently" option on apis/sink.Group.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNam[name]; !ok {
		return nil
	}
	delete(r.byNam, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns the names currently registered, in fan-out order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Write fans entry out to every registered sink in order, aggregating
// every error with go.uber.org/multierr rather than stopping at the
// first failure — one bad user callback must not suppress the rest.
func (r *Registry) Write(ctx context.Context, entry []byte) error {
	r.mu.RLock()
	sinks := r.snapshot()
	r.mu.RUnlock()

	var err error
	for _, s := range sinks {
		if werr := s.Write(ctx, entry); werr != nil {
			err = multierr.Append(err, fmt.Errorf("paperlog: sinkregistry: %s: %w", s.Name(), werr))
		}
	}
	return err
}

// Flush flushes every registered sink, aggregating errors.
func (r *Registry) Flush(ctx context.Context) error {
	r.mu.RLock()
	sinks := r.snapshot()
	r.mu.RUnlock()

	var err error
	for _, s := range sinks {
		if ferr := s.Flush(ctx); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("paperlog: sinkregistry: %s: %w", s.Name(), ferr))
		}
	}
	return err
}

// Close closes every registered sink, aggregating errors, and empties
// the registry.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	sinks := make([]asink.Sink, 0, len(r.order))
	for _, n := range r.order {
		sinks = append(sinks, r.byNam[n])
	}
	r.order = nil
	r.byNam = make(map[string]asink.Sink)
	r.mu.Unlock()

	var err error
	for _, s := range sinks {
		if cerr := s.Close(ctx); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("paperlog: sinkregistry: %s: %w", s.Name(), cerr))
		}
	}
	return err
}

// snapshot returns the registered sinks in fan-out order. Callers must
// hold at least a read lock.
func (r *Registry) snapshot() []asink.Sink {
	sinks := make([]asink.Sink, 0, len(r.order))
	for _, n := range r.order {
		sinks = append(sinks, r.byNam[n])
	}
	return sinks
}
