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

// Package pipeline assembles apis/pipeline/stage.Stage implementations
// into the pre-fan-out plugin chain the consumer runs each chunked
// record through before it reaches any sink. LevelFilter is always
// present as the first stage; everything configured after it (redact,
// sample, throttle, rate-limit, dedup, ...) is user/config supplied.
package pipeline

import (
	"context"
	"fmt"

	"dirpx.dev/paperlog/apis/pipeline/stage"
	"dirpx.dev/paperlog/apis/record"
)

// Chain runs an ordered list of stages against a single record. It is
// not itself an apis/pipeline.Pipeline: the consumer's fixed sink
// fan-out is a distinct, later step Chain knows nothing about. Chain
// only answers "does this record continue, and in what shape".
type Chain struct {
	stages []stage.Stage
}

// NewChain builds a Chain. The first stage is conventionally a
// *LevelFilter; NewChain does not enforce this, but paperlog's Logger
// always constructs the consumer's chain that way.
func NewChain(stages ...stage.Stage) *Chain {
	return &Chain{stages: stages}
}

// Append adds a stage to the end of the chain.
func (c *Chain) Append(s stage.Stage) {
	c.stages = append(c.stages, s)
}

// Stages returns the chain's stages in execution order. The returned
// slice is owned by the caller to read, not to mutate.
func (c *Chain) Stages() []stage.Stage {
	return c.stages
}

// Run pushes r through every enabled stage in order, stopping as soon
// as a stage returns Drop or an error. Disabled stages are skipped
// entirely (neither Process'd nor counted as an error source). A
// stage error does not itself drop the record — the caller decides
// whether to continue, fold the error into a self-report, or both;
// Run surfaces the error alongside whatever the record looked like
// when that stage failed.
func (c *Chain) Run(ctx context.Context, r record.Record) (out record.Record, dropped bool, err error) {
	out = r
	for _, s := range c.stages {
		if !s.Enabled() {
			continue
		}
		next, decision, serr := s.Process(ctx, out)
		if serr != nil {
			return out, false, fmt.Errorf("paperlog: pipeline: stage %q: %w", s.Name(), serr)
		}
		out = next
		if decision == stage.Drop {
			return out, true, nil
		}
	}
	return out, false, nil
}
