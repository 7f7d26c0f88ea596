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

// Package configprovider implements apis/provider.Provider on top of
// viper's file-watch support, streaming MinLevel/Sinks changes read
// from a config file on disk. Only the consumer goroutine applies the
// resulting Change events (see apis/provider's doc on ownership), so
// this package only ever produces them; it never mutates logger state
// itself.
package configprovider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/provider"
)

const sourcePrefix = "file:"

// Provider watches a viper-backed config file for min_level/sinks
// changes and emits apis/provider.Change events.
type Provider struct {
	v        *viper.Viper
	path     string
	priority int
}

var _ provider.Provider = (*Provider)(nil)

// New constructs a Provider reading path. The file is not read until
// Snapshot or Watch is called.
func New(path string, priority int) *Provider {
	v := viper.New()
	v.SetConfigFile(path)
	return &Provider{v: v, path: path, priority: priority}
}

// Name implements apis/provider.Provider.
func (p *Provider) Name() string { return sourcePrefix + p.path }

// Priority implements apis/provider.Provider.
func (p *Provider) Priority() int { return p.priority }

// Snapshot implements apis/provider.Provider: reads the file once and
// returns the resulting Specification plus viper's own change-count
// based pseudo-version.
func (p *Provider) Snapshot(_ context.Context) (*provider.Specification, string, error) {
	if err := p.v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("paperlog: configprovider: read %s: %w", p.path, err)
	}
	spec, err := p.toSpecification()
	if err != nil {
		return nil, "", err
	}
	return spec, p.version(), nil
}

// Watch implements apis/provider.Provider: emits an initial snapshot,
// then one ChangeUpdate (or ChangeError) per file write viper's fsnotify
// watch observes.
func (p *Provider) Watch(ctx context.Context) (provider.Stream, error) {
	spec, ver, err := p.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s := &stream{
		updates: make(chan provider.Change, 4),
		done:    make(chan struct{}),
	}
	s.emit(provider.Change{
		Source:  p.Name(),
		Version: ver,
		At:      time.Now(),
		Reason:  provider.ChangeInitial,
		Spec:    spec,
	})

	p.v.OnConfigChange(func(fsnotify.Event) {
		spec, ver, err := p.Snapshot(ctx)
		if err != nil {
			s.emit(provider.Change{
				Source: p.Name(),
				At:     time.Now(),
				Reason: provider.ChangeError,
				Err:    err,
			})
			return
		}
		s.emit(provider.Change{
			Source:  p.Name(),
			Version: ver,
			At:      time.Now(),
			Reason:  provider.ChangeUpdate,
			Spec:    spec,
		})
	})
	p.v.WatchConfig()

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	return s, nil
}

// toSpecification reads the two keys this provider understands out of
// viper: min_level and sinks. Every other Specification field is left
// nil/empty — this provider is deliberately narrow, matching the
// spec's dynamic-update surface (min level and sink list), not a
// general-purpose config replacement.
func (p *Provider) toSpecification() (*provider.Specification, error) {
	spec := &provider.Specification{}

	if s := p.v.GetString("min_level"); s != "" {
		lvl, err := level.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("paperlog: configprovider: min_level: %w", err)
		}
		spec.MinLevel = &lvl
	}
	if sinks := p.v.GetStringSlice("sinks"); len(sinks) > 0 {
		spec.Sinks = sinks
	}
	return spec, nil
}

// version derives a cheap, monotonically-informative version string
// from the file's current min_level/sinks values. It is not a true
// content hash; it is only ever compared for inequality between
// successive Snapshot calls.
func (p *Provider) version() string {
	return fmt.Sprintf("%s|%v", p.v.GetString("min_level"), p.v.GetStringSlice("sinks"))
}

// stream implements apis/provider.Stream.
type stream struct {
	mu      sync.Mutex
	updates chan provider.Change
	done    chan struct{}
	closed  bool
}

func (s *stream) Updates() <-chan provider.Change { return s.updates }

func (s *stream) emit(c provider.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.updates <- c:
	default:
		// Slow consumer: drop rather than block viper's fsnotify
		// callback goroutine indefinitely.
	}
}

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.updates)
	close(s.done)
	return nil
}
