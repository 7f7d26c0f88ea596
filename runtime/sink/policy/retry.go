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
	"context"
	"time"

	asink "dirpx.dev/paperlog/apis/sink"
	spolicy "dirpx.dev/paperlog/apis/sink/policy"
)

// RetryOptions configures the runtime retry/backoff behavior around a
// sink, the runtime counterpart of apis/sink/policy.Retry.
type RetryOptions struct {
	// Policy describes the retry/backoff shape. If Policy.Enable is
	// false, WithRetry returns next unwrapped.
	Policy spolicy.Retry

	// Name overrides the sink name. If empty, the wrapper reports its
	// name as "retry(<inner.Name()>)".
	Name string
}

// retrySink wraps a sink, retrying a failed Write with exponential
// backoff up to Policy.MaxRetries times before giving up on the
// entry. Designed to sit directly around an unreliable underlying
// sink (a rotating file mid-rotation, briefly-full disk) rather than
// around a batchSink — composing retry outside batch would retry an
// entire accumulated batch instead of the one entry that failed.
type retrySink struct {
	next asink.Sink
	opt  RetryOptions
}

var _ asink.Sink = (*retrySink)(nil)

// WithRetry wraps next with retrySink per opt. If opt.Policy.Enable is
// false, next is returned unwrapped.
func WithRetry(next asink.Sink, opt RetryOptions) asink.Sink {
	if !opt.Policy.Enable {
		return next
	}
	if opt.Policy.MaxRetries <= 0 {
		opt.Policy.MaxRetries = 1
	}
	if opt.Policy.Initial <= 0 {
		opt.Policy.Initial = 100 * time.Millisecond
	}
	if opt.Policy.Multiplier <= 0 {
		opt.Policy.Multiplier = 2.0
	}
	return &retrySink{next: next, opt: opt}
}

// Name returns the human-friendly name of the sink.
func (s *retrySink) Name() string {
	if s.opt.Name != "" {
		return s.opt.Name
	}
	return "retry(" + s.next.Name() + ")"
}

// Write attempts next.Write, retrying on error with exponential
// backoff (capped at Policy.Max, if set) until Policy.MaxRetries
// retries (MaxRetries+1 attempts in all) have been made or ctx is
// cancelled. The final attempt's
// error is returned if every attempt fails.
func (s *retrySink) Write(ctx context.Context, entry []byte) error {
	delay := s.opt.Policy.Initial
	var err error
	for attempt := 0; attempt <= s.opt.Policy.MaxRetries; attempt++ {
		if err = s.next.Write(ctx, entry); err == nil {
			return nil
		}
		if attempt == s.opt.Policy.MaxRetries {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = time.Duration(float64(delay) * s.opt.Policy.Multiplier)
		if s.opt.Policy.Max > 0 && delay > s.opt.Policy.Max {
			delay = s.opt.Policy.Max
		}
	}
	return err
}

// Flush delegates to the underlying sink without retrying; a failed
// flush surfaces immediately so a health checker can observe it.
func (s *retrySink) Flush(ctx context.Context) error { return s.next.Flush(ctx) }

// Close delegates to the underlying sink.
func (s *retrySink) Close(ctx context.Context) error { return s.next.Close(ctx) }
