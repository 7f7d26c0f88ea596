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

// Package signal implements a binary condition-variable latch: a Signal
// fires once per Broadcast and wakes every current waiter, but it does
// not accumulate like a counted semaphore. This is the Go port of the
// upstream SemaphoreLite type the consumer loop and the producer-facing
// wait_for_flush/wait_for_flush_timeout calls are both built on.
package signal

import (
	"sync"
	"time"
)

// Signal is a fire-once latch built on sync.Cond. Broadcast wakes every
// goroutine blocked in Wait/WaitTimeout, but the underlying flag is
// consumed by whichever waiter re-acquires the lock first: that waiter
// clears the flag and returns, and every other waiter finds it already
// cleared and re-blocks. So a single Broadcast releases exactly one
// waiter even though all of them wake up — the same outcome the
// upstream condvar-based SemaphoreLite produces with notify_all.
type Signal struct {
	mu   sync.Mutex
	cond *sync.Cond
	set  bool
}

// New constructs a ready-to-use Signal.
func New() *Signal {
	s := &Signal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Broadcast sets the flag and wakes every goroutine currently blocked
// in Wait or WaitTimeout.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	s.set = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Wait blocks until Broadcast is called, then clears the flag and
// returns. If the flag is already set when Wait is called, it returns
// immediately.
func (s *Signal) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.set {
		s.cond.Wait()
	}
	s.set = false
}

// WaitTimeout blocks until Broadcast is called or d elapses, whichever
// comes first. It reports whether the signal fired (false means the
// deadline passed with no Broadcast observed).
//
// sync.Cond has no native timeout support; this uses a helper goroutine
// that broadcasts once the deadline passes, so a genuine Broadcast and
// a timeout race on the same condition variable without a busy poll.
func (s *Signal) WaitTimeout(d time.Duration) bool {
	deadline := time.Now().Add(d)

	timer := time.AfterFunc(d, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.set {
		if !time.Now().Before(deadline) {
			return false
		}
		s.cond.Wait()
	}
	s.set = false
	return true
}
