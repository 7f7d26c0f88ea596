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

package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/runtime/signal"
	"dirpx.dev/paperlog/runtime/vecpool"
)

func newTestQueue() *Queue {
	pool := vecpool.New[record.Record](2, 64, 8)
	return New(pool, signal.New())
}

func TestQueue_PushThenDrainPreservesOrder(t *testing.T) {
	q := newTestQueue()
	for i := 0; i < 5; i++ {
		q.Push(record.New(time.Now(), level.Info, "", fmt.Sprintf("msg-%d", i)))
	}
	assert.Equal(t, 5, q.Len())

	batch := q.Drain()
	require.Len(t, batch, 5)
	for i, r := range batch {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), r.Message)
	}
	assert.True(t, q.Empty())
}

func TestQueue_PushAllKeepsChunksContiguous(t *testing.T) {
	q := newTestQueue()
	q.Push(record.New(time.Now(), level.Info, "", "before"))
	q.PushAll([]record.Record{
		record.New(time.Now(), level.Info, "", "chunk-1"),
		record.New(time.Now(), level.Info, "", "chunk-2"),
	})
	q.Push(record.New(time.Now(), level.Info, "", "after"))

	batch := q.Drain()
	require.Len(t, batch, 4)
	assert.Equal(t, []string{"before", "chunk-1", "chunk-2", "after"}, messagesOf(batch))
}

func TestQueue_PushAllEmptyIsNoOp(t *testing.T) {
	q := newTestQueue()
	q.PushAll(nil)
	assert.True(t, q.Empty())
}

func TestQueue_DrainReturnsFreshBatchForFurtherPushes(t *testing.T) {
	q := newTestQueue()
	q.Push(record.New(time.Now(), level.Info, "", "one"))
	first := q.Drain()
	require.Len(t, first, 1)

	q.Push(record.New(time.Now(), level.Info, "", "two"))
	second := q.Drain()
	require.Len(t, second, 1)
	assert.Equal(t, "two", second[0].Message)

	q.Return(first)
	q.Return(second)
}

func TestQueue_NoLossUnderConcurrentProducers(t *testing.T) {
	const producers = 16
	const perProducer = 1000

	q := newTestQueue()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(record.New(time.Now(), level.Info, "", fmt.Sprintf("p%d-%d", p, i)))
			}
		}(p)
	}
	wg.Wait()

	total := 0
	perProducerSeen := make(map[int]int)
	deadline := time.Now().Add(2 * time.Second)
	for total < producers*perProducer && time.Now().Before(deadline) {
		batch := q.Drain()
		for _, r := range batch {
			var pid, seq int
			_, err := fmt.Sscanf(r.Message, "p%d-%d", &pid, &seq)
			require.NoError(t, err)
			assert.Equal(t, perProducerSeen[pid], seq, "per-producer FIFO order must be preserved")
			perProducerSeen[pid]++
		}
		total += len(batch)
		q.Return(batch)
	}
	assert.Equal(t, producers*perProducer, total, "no record may be lost under contention")
}

func messagesOf(rs []record.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Message
	}
	return out
}
