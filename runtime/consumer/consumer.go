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

// Package consumer implements the single dedicated goroutine that
// drains paperlog's queue, chunks and formats records, and fans them
// out to sinks. Everything in this package runs on one goroutine;
// producers never touch the state Consumer owns.
package consumer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/multierr"

	"dirpx.dev/paperlog/apis/field"
	"dirpx.dev/paperlog/apis/field/fields"
	"dirpx.dev/paperlog/apis/level"
	asink "dirpx.dev/paperlog/apis/sink"
	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/runtime/chunker"
	"dirpx.dev/paperlog/runtime/contextmap"
	"dirpx.dev/paperlog/runtime/jsonsink"
	"dirpx.dev/paperlog/runtime/pipeline"
	"dirpx.dev/paperlog/runtime/queue"
	"dirpx.dev/paperlog/runtime/signal"
)

// errorTag is the tag used on self-report records a consumer iteration
// emits when one or more sinks fail during fan-out.
const errorTag = "Paper2"

// errConsumerExited is the error reported by QueueDepthChecker once
// the consumer goroutine has exited (the fatal-error policy path).
var errConsumerExited = errors.New("paperlog: consumer goroutine exited")

// flushEvery is the logged-record threshold that forces a flush even
// when the queue is not empty, bounding observable-on-disk latency
// under sustained high producer rates.
const flushEvery = 100

// Hooks lets callers (typically runtime/metrics) observe consumer
// activity without the consumer importing any particular metrics
// backend. Every field is optional; nil hooks are skipped.
type Hooks struct {
	OnDrain func(n int)
	OnFlush func(d time.Duration)
	OnError func(err error)
}

// Options configures a Consumer.
type Options struct {
	// GlobalPath is the path to the global log file. Required.
	GlobalPath string
	// MaxStringLen returns the current max-characters-per-chunk-line
	// setting. Read once per drained batch, not once per record, so a
	// config update applies on the next batch rather than mid-batch.
	MaxStringLen func() int
	// LineEnd is appended after every formatted line.
	LineEnd byte
	// Syslog, Stdout, Tracing are optional fixed-position sinks. A nil
	// sink is skipped in the fan-out order.
	Syslog   asink.Sink
	Stdout   asink.Sink
	Tracing  asink.Sink
	Mirror *jsonsink.Sink // JSON mirror sink, appended after tracing; takes the record directly
	Sinks  sinkGroup  // user-installed callback sinks (apis/sink.Group)
	Hooks  Hooks
}

// sinkGroup is the subset of apis/sink.Group the consumer depends on,
// kept narrow so tests can supply a stub without implementing Close.
type sinkGroup interface {
	Write(ctx context.Context, entry []byte) error
}

// StructSink receives the fully-formed Record rather than a formatted
// byte line, for fan-out destinations that need individual fields
// (level, file, line, column) rather than one rendered string — the
// ABI's add_log_sink callback is the motivating case, since its C
// struct carries those fields separately.
type StructSink interface {
	WriteRecord(ctx context.Context, r *record.Record) error
}

// Consumer owns the drain/chunk/format/fan-out loop.
type Consumer struct {
	q         *queue.Queue
	dataSig   *signal.Signal
	flushSig  *signal.Signal
	chain     *pipeline.Chain
	ctxMap    *contextmap.Map
	opt       Options

	globalMu sync.Mutex
	globalF  *os.File
	globalW  *bufio.Writer

	cfgMu sync.Mutex
	cfgFn func()

	structMu    sync.RWMutex
	structSinks []StructSink

	logged int
	stop   chan struct{}
	done   chan struct{}
}

// New constructs a Consumer. Opening the global file happens eagerly
// so construction failures surface before Run is ever started.
func New(q *queue.Queue, dataSig, flushSig *signal.Signal, chain *pipeline.Chain, ctxMap *contextmap.Map, opt Options) (*Consumer, error) {
	f, err := os.OpenFile(opt.GlobalPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("paperlog: consumer: open global file %s: %w", opt.GlobalPath, err)
	}
	if opt.LineEnd == 0 {
		opt.LineEnd = '\n'
	}
	if opt.MaxStringLen == nil {
		opt.MaxStringLen = func() int { return 4096 }
	}
	return &Consumer{
		q:        q,
		dataSig:  dataSig,
		flushSig: flushSig,
		chain:    chain,
		ctxMap:   ctxMap,
		opt:      opt,
		globalF:  f,
		globalW:  bufio.NewWriter(f),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// AddStructSink registers a structured sink, fanned out after Mirror
// in fanOutOne. Safe to call at any time, including after Run has
// started; readers in fanOutOne take a read lock so this never races
// an in-flight fan-out.
func (c *Consumer) AddStructSink(s StructSink) {
	c.structMu.Lock()
	c.structSinks = append(c.structSinks, s)
	c.structMu.Unlock()
}

// ApplyAsync schedules fn to run on the consumer goroutine at the top
// of its next iteration, preserving the single-writer discipline for
// logger state (e.g. a config provider's watch goroutine updating the
// level filter) without the caller blocking on the consumer loop. Only
// the most recently scheduled fn survives if several arrive between
// iterations — callers should make fn idempotent against stale state.
func (c *Consumer) ApplyAsync(fn func()) {
	c.cfgMu.Lock()
	c.cfgFn = fn
	c.cfgMu.Unlock()
	c.dataSig.Broadcast() // unpark a parked loop so fn runs promptly
}

func (c *Consumer) takePendingConfig() func() {
	c.cfgMu.Lock()
	defer c.cfgMu.Unlock()
	fn := c.cfgFn
	c.cfgFn = nil
	return fn
}

// Stop requests the loop to exit once the queue has been drained and
// flushed, and blocks until it has.
func (c *Consumer) Stop() {
	close(c.stop)
	c.dataSig.Broadcast() // unstick a parked loop
	<-c.done
}

// Run executes the consumer loop until Stop is called or an
// unrecoverable error occurs (global file I/O failure). It is meant
// to be run on its own goroutine; Run returns once the loop exits.
func (c *Consumer) Run(ctx context.Context) {
	defer close(c.done)

	for {
		if fn := c.takePendingConfig(); fn != nil {
			fn()
		}

		batch := c.q.Drain()
		n := len(batch)
		c.logged += n
		if c.opt.Hooks.OnDrain != nil {
			c.opt.Hooks.OnDrain(n)
		}

		if n > 0 {
			maxLen := c.opt.MaxStringLen()
			chunked := make([]record.Record, 0, n)
			for _, r := range batch {
				chunked = append(chunked, chunker.Split(r, maxLen)...)
			}

			if err := c.writeBatch(chunked); err != nil {
				c.reportError(err)
				c.lastChanceFlush(ctx)
				c.q.Return(batch)
				return
			}

			c.fanOutAll(ctx, chunked)
		}
		c.q.Return(batch)

		empty := c.q.Empty()
		if empty || c.logged >= flushEvery {
			start := time.Now()
			if err := c.flushLocked(); err != nil {
				c.reportError(err)
				c.lastChanceFlush(ctx)
				return
			}
			c.logged = 0
			if c.opt.Hooks.OnFlush != nil {
				c.opt.Hooks.OnFlush(time.Since(start))
			}
			c.flushSig.Broadcast()
		}

		if c.q.Empty() {
			select {
			case <-c.stop:
				c.lastChanceFlush(ctx)
				return
			default:
			}
			c.dataSig.Wait()
		}
	}
}

// writeBatch performs the single batched write-lock step: every
// chunked record's full line to the global file, plus a compact line
// to its per-context file when one is registered.
func (c *Consumer) writeBatch(chunked []record.Record) error {
	c.globalMu.Lock()
	defer c.globalMu.Unlock()

	for _, r := range chunked {
		if _, err := c.globalW.WriteString(r.FormatGlobal()); err != nil {
			return fmt.Errorf("paperlog: consumer: global file write: %w", err)
		}
		if err := c.globalW.WriteByte(c.opt.LineEnd); err != nil {
			return fmt.Errorf("paperlog: consumer: global file write: %w", err)
		}
		if r.Tag != "" {
			if _, err := c.ctxMap.Write(r.Tag, r.FormatContext(), c.opt.LineEnd); err != nil {
				// A per-context write failure does not abort the batch;
				// the global file already has the record.
				c.reportError(fmt.Errorf("paperlog: consumer: context file %s write: %w", r.Tag, err))
			}
		}
	}
	return nil
}

// fanOutAll runs each chunked record through the plugin chain, then
// the fixed sink order, aggregating every sink's error into a single
// Paper2-tagged self-report rather than aborting on the first failure.
func (c *Consumer) fanOutAll(ctx context.Context, chunked []record.Record) {
	var errs error
	for _, r := range chunked {
		out, dropped, err := c.chain.Run(ctx, r)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		if dropped {
			continue
		}
		if err := c.fanOutOne(ctx, out); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		c.reportError(errs)
	}
}

// fanOutOne delivers a single record to syslog, stdout, user
// callbacks, then external tracing, in that fixed order. Errors from
// any sink are aggregated and returned rather than stopping fan-out.
func (c *Consumer) fanOutOne(ctx context.Context, r record.Record) error {
	line := r.FormatGlobal()
	entry := append([]byte(line), c.opt.LineEnd)

	var err error
	if c.opt.Syslog != nil {
		if werr := c.opt.Syslog.Write(ctx, entry); werr != nil {
			err = multierr.Append(err, fmt.Errorf("syslog: %w", werr))
		}
	}
	if c.opt.Stdout != nil {
		if werr := c.opt.Stdout.Write(ctx, entry); werr != nil {
			err = multierr.Append(err, fmt.Errorf("stdout: %w", werr))
		}
	}
	if c.opt.Sinks != nil {
		if werr := c.opt.Sinks.Write(ctx, entry); werr != nil {
			err = multierr.Append(err, fmt.Errorf("user callbacks: %w", werr))
		}
	}
	if c.opt.Tracing != nil {
		if werr := c.opt.Tracing.Write(ctx, entry); werr != nil {
			err = multierr.Append(err, fmt.Errorf("tracing: %w", werr))
		}
	}
	if c.opt.Mirror != nil {
		if werr := c.opt.Mirror.WriteRecord(ctx, &r); werr != nil {
			err = multierr.Append(err, fmt.Errorf("json mirror: %w", werr))
		}
	}

	c.structMu.RLock()
	sinks := c.structSinks
	c.structMu.RUnlock()
	for _, s := range sinks {
		if werr := s.WriteRecord(ctx, &r); werr != nil {
			err = multierr.Append(err, fmt.Errorf("struct sink: %w", werr))
		}
	}
	return err
}

// flushLocked flushes the global file and every context writer under
// the same write-lock producers/registration never hold concurrently
// with this goroutine, then the JSON mirror if one is set. A mirror
// flush failure is reported, not returned.
func (c *Consumer) flushLocked() error {
	c.globalMu.Lock()
	gerr := c.globalW.Flush()
	c.globalMu.Unlock()

	cerr := c.ctxMap.Flush()

	if c.opt.Mirror != nil {
		if merr := c.opt.Mirror.Flush(context.Background()); merr != nil {
			c.reportError(fmt.Errorf("paperlog: consumer: flush json mirror: %w", merr))
		}
	}

	if gerr != nil {
		return fmt.Errorf("paperlog: consumer: flush global file: %w", gerr)
	}
	if cerr != nil {
		return fmt.Errorf("paperlog: consumer: flush context files: %w", cerr)
	}
	return nil
}

// lastChanceFlush is the fatal-error / shutdown path: best-effort
// flush of everything still buffered. Errors are reported but never
// escalate further since the loop is already exiting.
func (c *Consumer) lastChanceFlush(ctx context.Context) {
	if err := c.flushLocked(); err != nil {
		c.reportError(err)
	}
	c.flushSig.Broadcast()
	_ = ctx
}

// reportError synthesizes a Paper2-tagged record describing err and
// writes it straight to the fixed sinks (bypassing the plugin chain,
// since a mis-set level filter must never swallow the engine's own
// diagnostics), then calls the error hook if one was supplied.
func (c *Consumer) reportError(err error) {
	if err == nil {
		return
	}
	r := record.New(time.Now(), level.Error, errorTag, err.Error()).
		WithFields(field.New(fields.PaperErrorKind, "sink_error")).
		WithError(err)
	_ = c.fanOutOne(context.Background(), r)
	if c.opt.Hooks.OnError != nil {
		c.opt.Hooks.OnError(err)
	}
}

// Close flushes and closes the global file. It must only be called
// after Run has returned.
func (c *Consumer) Close() error {
	c.globalMu.Lock()
	defer c.globalMu.Unlock()

	ferr := c.globalW.Flush()
	cerr := c.globalF.Close()
	if ferr != nil {
		return fmt.Errorf("paperlog: consumer: close: flush: %w", ferr)
	}
	if cerr != nil {
		return fmt.Errorf("paperlog: consumer: close: %w", cerr)
	}
	return nil
}
