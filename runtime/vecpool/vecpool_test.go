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

package vecpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SeedsFreeList(t *testing.T) {
	p := New[int](3, 8, 10)
	assert.Equal(t, 3, p.Len())
}

func TestNew_MaxFreeNeverBelowAmount(t *testing.T) {
	p := New[int](5, 8, 2)
	assert.Equal(t, 5, p.Len())
}

func TestTakePut_RoundTripsAndTruncates(t *testing.T) {
	p := New[int](1, 4, 4)
	v := p.Take()
	assert.Equal(t, 0, p.Len())
	assert.Len(t, v, 0)

	v = append(v, 1, 2, 3)
	p.Put(v)
	assert.Equal(t, 1, p.Len())

	v2 := p.Take()
	assert.Len(t, v2, 0, "returned slice must be truncated to zero length")
}

func TestTake_EmptyPoolAllocatesFresh(t *testing.T) {
	p := New[int](0, 4, 4)
	v := p.Take()
	assert.NotNil(t, v)
	assert.Equal(t, 0, len(v))
}

func TestPut_DropsBeyondMaxFree(t *testing.T) {
	p := New[int](0, 2, 1)
	p.Put(make([]int, 0, 2))
	p.Put(make([]int, 0, 2))
	assert.Equal(t, 1, p.Len())
}

func TestPut_NilIsNoOp(t *testing.T) {
	p := New[int](0, 2, 2)
	p.Put(nil)
	assert.Equal(t, 0, p.Len())
}

func TestResize_DropsUndersizedFreeSlices(t *testing.T) {
	p := New[int](2, 4, 4)
	p.Resize(100)
	assert.Equal(t, 0, p.Len(), "pre-existing slices below the new capacity are discarded")

	v := p.Take()
	assert.Equal(t, 100, cap(v))
}

func TestPool_ConcurrentTakePut(t *testing.T) {
	p := New[int](4, 8, 16)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := p.Take()
			v = append(v, 1)
			p.Put(v)
		}()
	}
	wg.Wait()
}
