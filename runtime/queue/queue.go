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

// Package queue implements the lock-minimal producer/consumer batch
// queue paperlog's producers push onto and the single consumer drains
// from. Push only ever holds the mutex long enough to append and swap
// it back out; Drain swaps the whole backing slice out from under the
// producers in one critical section, mirroring the upstream
// std::mem::replace-based drain.
package queue

import (
	"sync"

	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/runtime/signal"
	"dirpx.dev/paperlog/runtime/vecpool"
)

// Queue is a mutex-guarded batch of pending records paired with a
// Signal the consumer waits on. Producers call Push; the consumer
// calls Drain once per iteration.
type Queue struct {
	mu     sync.Mutex
	pool   *vecpool.Pool[record.Record]
	pend   []record.Record
	signal *signal.Signal
}

// New constructs an empty Queue backed by pool, whose capacity should
// match the expected per-drain batch size. The caller owns signal and
// is responsible for waiting on it after an empty Drain.
func New(pool *vecpool.Pool[record.Record], sig *signal.Signal) *Queue {
	return &Queue{
		pool:   pool,
		pend:   pool.Take(),
		signal: sig,
	}
}

// Push appends r to the pending batch and wakes the consumer.
func (q *Queue) Push(r record.Record) {
	q.mu.Lock()
	q.pend = append(q.pend, r)
	q.mu.Unlock()
	q.signal.Broadcast()
}

// PushAll appends rs to the pending batch in order and wakes the
// consumer once. Used by the chunker, which may turn one producer call
// into several records that must stay contiguous and in order.
func (q *Queue) PushAll(rs []record.Record) {
	if len(rs) == 0 {
		return
	}
	q.mu.Lock()
	q.pend = append(q.pend, rs...)
	q.mu.Unlock()
	q.signal.Broadcast()
}

// Drain swaps the pending batch out for a fresh pooled slice and
// returns what was pending. The caller owns the returned slice and
// must return it to the pool (via Return) once it is done with it.
func (q *Queue) Drain() []record.Record {
	fresh := q.pool.Take()
	q.mu.Lock()
	drained := q.pend
	q.pend = fresh
	q.mu.Unlock()
	return drained
}

// Return hands a slice previously obtained from Drain back to the pool
// for reuse by a future Drain.
func (q *Queue) Return(batch []record.Record) {
	q.pool.Put(batch)
}

// Len reports the number of records currently pending. It is a
// point-in-time snapshot; producers may be concurrently appending.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pend)
}

// Empty reports whether the pending batch is currently empty.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}
