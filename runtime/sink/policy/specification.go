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

package policy

import (
	asink "dirpx.dev/paperlog/apis/sink"
)

// ApplySpecification wraps next with WithRetry and/or WithBatch
// according to the declarative apis/sink.Specification spec, in that
// order (retry innermost, so a batch flush failure gets retried
// before the batch wrapper gives up on it). Rotation is not applied
// here: a rotating file sink is a distinct base sink, constructed by
// NewRotatingFileSink before ApplySpecification ever sees it; spec.
// Rotation is informational for callers that need to know whether the
// base sink rotates, not an instruction for this function to act on.
//
// This is what cmd/paperlogd's --rotate-path composition does by
// hand (NewRotatingFileSink -> WithRetry -> WithBatch); a host that
// already has a Specification in hand (for example decoded from
// config) can call this instead of repeating that wiring.
func ApplySpecification(next asink.Sink, spec asink.Specification) asink.Sink {
	wrapped := next

	retryName := ""
	if spec.Batch == nil {
		retryName = spec.Name
	}
	wrapped = WithRetry(wrapped, RetryOptions{
		Policy: spec.Retry,
		Name:   retryName,
	})

	if spec.Batch != nil {
		wrapped = WithBatch(wrapped, BatchOptions{
			QueueSize:    spec.QueueCapacity,
			Batch:        *spec.Batch,
			Backpressure: spec.Backpressure,
			Name:         spec.Name,
		})
	}

	return wrapped
}
