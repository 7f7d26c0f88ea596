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

// Package vecpool provides a bounded pool of reusable slices, so the
// consumer's batch-drain loop does not allocate a fresh []record.Record
// on every iteration. It is the Go port of the upstream VecPool<T>.
package vecpool

import "sync"

// Pool hands out []T slices and takes them back, trimmed to zero length
// but with their backing array retained, so repeated drain cycles reuse
// the same handful of allocations instead of growing a new slice each
// time. A Pool is safe for concurrent use.
type Pool[T any] struct {
	mu       sync.Mutex
	free     [][]T
	innerCap int
	maxFree  int
}

// New constructs a Pool seeded with amount slices, each pre-allocated to
// innerCap capacity. maxFree bounds how many returned slices the pool
// will retain; slices returned beyond that bound are dropped so the pool
// cannot grow without limit if callers hand back more than they took.
func New[T any](amount, innerCap, maxFree int) *Pool[T] {
	if maxFree < amount {
		maxFree = amount
	}
	p := &Pool[T]{
		free:     make([][]T, 0, maxFree),
		innerCap: innerCap,
		maxFree:  maxFree,
	}
	for i := 0; i < amount; i++ {
		p.free = append(p.free, make([]T, 0, innerCap))
	}
	return p
}

// Take removes a slice from the pool, allocating a new one at the
// pool's current inner capacity if none is free.
func (p *Pool[T]) Take() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.free)
	if n == 0 {
		return make([]T, 0, p.innerCap)
	}
	v := p.free[n-1]
	p.free = p.free[:n-1]
	return v[:0]
}

// Put returns a slice to the pool for reuse. The slice is truncated to
// zero length before being retained; callers must not read from it
// afterward. Slices are dropped once the pool already holds maxFree.
func (p *Pool[T]) Put(v []T) {
	if v == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) >= p.maxFree {
		return
	}
	p.free = append(p.free, v[:0])
}

// Resize updates the capacity new slices are allocated with (via Take,
// when the pool is empty) and discards every currently-free slice whose
// capacity no longer matches, so subsequent Take calls converge on the
// new size rather than mixing old and new capacities indefinitely.
func (p *Pool[T]) Resize(newInnerCap int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.innerCap = newInnerCap
	kept := p.free[:0]
	for _, v := range p.free {
		if cap(v) >= newInnerCap {
			kept = append(kept, v)
		}
	}
	p.free = kept
}

// Len reports how many slices are currently free in the pool.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
