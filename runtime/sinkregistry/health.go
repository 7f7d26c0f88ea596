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

package sinkregistry

import (
	"context"
	"time"

	"dirpx.dev/paperlog/apis/health"
)

// FlushChecker implements apis/health.Checker against a Registry by
// calling Flush: a host callback sink that has started erroring on
// every write (a closed file descriptor, a dead network collector)
// will surface it here the same way it would on the next real flush,
// without waiting for a producer to notice degraded delivery.
type FlushChecker struct {
	r *Registry
}

var _ health.Checker = (*FlushChecker)(nil)

// NewFlushChecker constructs a checker against r.
func NewFlushChecker(r *Registry) *FlushChecker {
	return &FlushChecker{r: r}
}

// Check implements apis/health.Checker.
func (h *FlushChecker) Check(ctx context.Context) (health.Result, error) {
	res := health.Result{
		Name:       "paperlog_user_sinks",
		ObservedAt: time.Now(),
		Details:    map[string]any{"registered": h.r.List()},
	}

	if err := h.r.Flush(ctx); err != nil {
		res.Status = health.StatusDegraded
		res.Error = err
		return res, nil
	}
	res.Status = health.StatusHealthy
	return res, nil
}
