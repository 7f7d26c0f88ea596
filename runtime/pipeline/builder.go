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
	"fmt"

	apipeline "dirpx.dev/paperlog/apis/pipeline"
	"dirpx.dev/paperlog/apis/pipeline/plugin"
	"dirpx.dev/paperlog/apis/pipeline/stage"
	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/record"
)

// LevelFilterBuilder is the plugin.Builder for LevelFilterKind.
// spec.Config, if set, must be a string accepted by level.ParseLevel
// or a level.Level; a nil Config defaults to level.Info.
type LevelFilterBuilder struct{}

var _ plugin.Builder = LevelFilterBuilder{}

// Kind implements plugin.Builder.
func (LevelFilterBuilder) Kind() string { return LevelFilterKind }

// Build implements plugin.Builder.
func (LevelFilterBuilder) Build(_ context.Context, spec plugin.Specification) (stage.Stage, error) {
	min, err := levelFromConfig(spec.Config)
	if err != nil {
		return nil, fmt.Errorf("paperlog: pipeline: level_filter: %w", err)
	}
	f := NewLevelFilter(min)
	if spec.Enabled != nil {
		f.SetEnabled(*spec.Enabled)
	}
	return f, nil
}

func levelFromConfig(cfg any) (level.Level, error) {
	switch v := cfg.(type) {
	case nil:
		return level.Info, nil
	case level.Level:
		return v, v.Validate()
	case string:
		return level.ParseLevel(v)
	default:
		return 0, fmt.Errorf("unsupported config type %T, want string or level.Level", cfg)
	}
}

// ChainBuilder implements apis/pipeline.Builder by looking up each
// plugin.Specification in Pre/Post against a registry of
// plugin.Builder keyed by Kind, and assembling the result into a
// *Chain wrapped as apis/pipeline.Pipeline. cmd/paperlogd constructs
// its level filter directly via NewLevelFilter because it has exactly
// one stage and no declarative config source; ChainBuilder is for
// hosts that describe their pipeline as data (e.g. via
// runtime/configprovider) and need more than the built-in filter.
type ChainBuilder struct {
	builders map[string]plugin.Builder
}

var _ apipeline.Builder = (*ChainBuilder)(nil)

// NewChainBuilder constructs a ChainBuilder with LevelFilterBuilder
// already registered. Additional builders (redact, sample, throttle,
// rate_limit, dedup, ...) can be added with Register.
func NewChainBuilder() *ChainBuilder {
	b := &ChainBuilder{builders: make(map[string]plugin.Builder)}
	b.Register(LevelFilterBuilder{})
	return b
}

// Register adds or replaces the plugin.Builder for b.Kind().
func (c *ChainBuilder) Register(b plugin.Builder) {
	c.builders[b.Kind()] = b
}

// Build implements apis/pipeline.Builder. It resolves spec.Pre
// followed by spec.Post into a single *Chain, in that order; sink
// fan-out beyond the Pre/Post stage split is the consumer's concern,
// not the chain's.
func (c *ChainBuilder) Build(ctx context.Context, spec apipeline.Specification) (apipeline.Pipeline, error) {
	specs := make([]plugin.Specification, 0, len(spec.Pre)+len(spec.Post))
	specs = append(specs, spec.Pre...)
	specs = append(specs, spec.Post...)

	chain := NewChain()
	for _, ps := range specs {
		if ps.Enabled != nil && !*ps.Enabled {
			continue
		}
		b, ok := c.builders[ps.Kind]
		if !ok {
			return nil, fmt.Errorf("paperlog: pipeline: no builder registered for plugin kind %q", ps.Kind)
		}
		s, err := b.Build(ctx, ps)
		if err != nil {
			return nil, err
		}
		chain.Append(s)
	}
	return &chainPipeline{chain: chain}, nil
}

// chainPipeline adapts *Chain to apis/pipeline.Pipeline for callers
// that assembled it declaratively via ChainBuilder, as opposed to the
// fixed LevelFilter-first chain paperlog.Logger builds directly in
// its own Emit/Flush.
type chainPipeline struct {
	chain *Chain
}

var _ apipeline.Pipeline = (*chainPipeline)(nil)

// Emit implements apis/pipeline.Pipeline by running r through the
// chain. A mid-chain Drop is ordinary control flow, not a failure, so
// it is folded into a nil error; only a stage error is surfaced.
func (p *chainPipeline) Emit(ctx context.Context, r record.Record) error {
	_, _, err := p.chain.Run(ctx, r)
	return err
}

// Flush implements apis/pipeline.Pipeline. A Chain holds no buffered
// state of its own — sinks are flushed separately by whatever owns
// fan-out — so Flush is a no-op here.
func (p *chainPipeline) Flush(_ context.Context) error { return nil }
