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

package consumer

import (
	"context"
	"time"

	"dirpx.dev/paperlog/apis/health"
)

// QueueDepthChecker implements apis/health.Checker against a running
// Consumer: it reports StatusUnhealthy if the consumer goroutine has
// already exited (the fatal-error policy in spec.md §4.5), and
// StatusDegraded once the queue backlog crosses warnAt.
type QueueDepthChecker struct {
	c      *Consumer
	warnAt int
}

var _ health.Checker = (*QueueDepthChecker)(nil)

// NewQueueDepthChecker constructs a checker against c, warning once
// the queue depth reaches warnAt records.
func NewQueueDepthChecker(c *Consumer, warnAt int) *QueueDepthChecker {
	return &QueueDepthChecker{c: c, warnAt: warnAt}
}

// Check implements apis/health.Checker.
func (h *QueueDepthChecker) Check(_ context.Context) (health.Result, error) {
	res := health.Result{
		Name:       "paperlog_consumer",
		ObservedAt: time.Now(),
		Details:    map[string]any{},
	}

	select {
	case <-h.c.done:
		res.Status = health.StatusUnhealthy
		res.Error = errConsumerExited
		return res, nil
	default:
	}

	depth := h.c.q.Len()
	res.Details["queue_depth"] = depth

	if h.warnAt > 0 && depth >= h.warnAt {
		res.Status = health.StatusDegraded
		return res, nil
	}
	res.Status = health.StatusHealthy
	return res, nil
}
