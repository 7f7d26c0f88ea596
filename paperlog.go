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

// Package paperlog is an embeddable, async, multi-sink structured
// logging engine: producers enqueue records from any number of
// goroutines, a single dedicated consumer goroutine drains, chunks,
// formats, and fans them out. See runtime/consumer for the loop itself;
// this package wires the pieces together behind a process-wide
// singleton, matching the ABI's "init once, get thereafter" contract.
package paperlog

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dirpx.dev/paperlog/apis"
	pctx "dirpx.dev/paperlog/apis/context"
	"dirpx.dev/paperlog/apis/field"
	"dirpx.dev/paperlog/apis/health"
	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/provider"
	asink "dirpx.dev/paperlog/apis/sink"
	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/config"
	"dirpx.dev/paperlog/runtime/consumer"
	"dirpx.dev/paperlog/runtime/contextmap"
	"dirpx.dev/paperlog/runtime/encoder"
	jsonenc "dirpx.dev/paperlog/runtime/encoder/json"
	"dirpx.dev/paperlog/runtime/jsonsink"
	"dirpx.dev/paperlog/runtime/pipeline"
	"dirpx.dev/paperlog/runtime/queue"
	"dirpx.dev/paperlog/runtime/signal"
	"dirpx.dev/paperlog/runtime/sinkregistry"
	"dirpx.dev/paperlog/runtime/stdoutsink"
	"dirpx.dev/paperlog/runtime/syslogsink"
	"dirpx.dev/paperlog/runtime/tracingsink"
	"dirpx.dev/paperlog/runtime/vecpool"
)

var (
	instMu sync.Mutex
	inst   *Logger
)

// Logger is paperlog's producer-facing handle. Every method is safe
// for concurrent use. Context and sink registration run on the
// caller's goroutine; ContextMap and SinkRegistry serialize that
// access with the consumer through their own internal mutexes.
type Logger struct {
	cfg         config.Config
	q           *queue.Queue
	dataSig     *signal.Signal
	flushSig    *signal.Signal
	consumer    *consumer.Consumer
	ctxMap      *contextmap.Map
	sinkReg     *sinkregistry.Registry
	levelFilter *pipeline.LevelFilter
	extractor   pctx.Extractor

	stopOnce sync.Once
}

var _ apis.FieldLogger = (*Logger)(nil)
var _ apis.ContextLogger = (*Logger)(nil)
var _ health.Checker = (*Logger)(nil)

// Option customizes Init beyond what config.Config covers — live
// objects (a *zap.Logger, a static identity Pack) a host constructs
// itself rather than declarative values config.Config can hold.
type Option func(*initOptions)

type initOptions struct {
	tracing *zap.Logger
	static  *pctx.Pack
}

// WithTracing installs zlog as the external tracing sink, fanned out
// after the user callback sinks and before the JSON mirror and any
// structured sinks.
func WithTracing(zlog *zap.Logger) Option {
	return func(o *initOptions) { o.tracing = zlog }
}

// WithStaticContext attaches p to every record this Logger emits,
// merged underneath the default OpenTelemetry span extraction so a
// per-call trace/span still overrides the static fields (see
// apis/context.Chain). Typical use is a process-wide identity a host
// assigns once at startup — service name, region, a generated instance
// ID — rather than something every log call would otherwise need to
// pass through WithFields.
func WithStaticContext(p pctx.Pack) Option {
	return func(o *initOptions) { o.static = &p }
}

// Init constructs the process-wide Logger singleton. A second call
// returns KindAlreadyInitialized rather than the existing instance —
// reimplementers should not lazily construct on first use (see
// SPEC_FULL.md / DESIGN notes on the shared singleton lifecycle).
func Init(cfg config.Config, opts ...Option) (*Logger, error) {
	instMu.Lock()
	defer instMu.Unlock()

	if inst != nil {
		return nil, &Error{Op: "Init", Kind: KindAlreadyInitialized}
	}
	l, err := newLogger(cfg, opts...)
	if err != nil {
		return nil, err
	}
	inst = l
	return l, nil
}

// newLogger builds a fully wired Logger without touching the
// process-wide singleton. Init is a thin wrapper around it; tests use
// it directly to exercise Logger behavior without the singleton's
// init-once restriction.
func newLogger(cfg config.Config, opts ...Option) (*Logger, error) {
	var io initOptions
	for _, opt := range opts {
		opt(&io)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "Init", Kind: KindLogError, Err: err}
	}

	pool := vecpool.New[record.Record](2, cfg.LogMaxBufferCount, 4)
	dataSig := signal.New()
	flushSig := signal.New()
	q := queue.New(pool, dataSig)
	ctxMap := contextmap.New(cfg.ContextLogPath)
	sinkReg := sinkregistry.New()
	levelFilter := pipeline.NewLevelFilter(cfg.MinLevel)
	chain := pipeline.NewChain(levelFilter)

	opt := consumer.Options{
		GlobalPath:   cfg.GlobalLogPath,
		MaxStringLen: func() int { return cfg.MaxStringLen },
		LineEnd:      cfg.LineEnd,
		Sinks:        sinkReg,
	}

	if cfg.EnableStdout {
		opt.Stdout = stdoutsink.New(os.Stdout)
	}
	if cfg.EnableSyslog {
		if s, err := syslogsink.New("paperlog"); err == nil {
			opt.Syslog = s
		}
		// Unavailable syslog (e.g. Windows, sandboxed hosts) is not
		// fatal: the step is fan-out "if available" per spec.md §4.5.
	}
	if cfg.EnableJSONMirror {
		path := cfg.ResolvedJSONMirrorPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &Error{Op: "Init", Kind: KindIoSpecific, Path: path, Err: err}
		}
		enc := jsonenc.New(encoder.Options{})
		mirror, err := jsonsink.New(path, enc)
		if err != nil {
			return nil, &Error{Op: "Init", Kind: KindIoSpecific, Path: path, Err: err}
		}
		opt.Mirror = mirror
	}
	if io.tracing != nil {
		opt.Tracing = tracingsink.New(io.tracing)
	}

	c, err := consumer.New(q, dataSig, flushSig, chain, ctxMap, opt)
	if err != nil {
		return nil, &Error{Op: "Init", Kind: KindIoError, Path: cfg.GlobalLogPath, Err: err}
	}

	extractor := pctx.Extractor(pctx.ExtractorFunc(otelSpanExtractor))
	if io.static != nil {
		extractor = pctx.Chain(pctx.Static(*io.static), extractor)
	}

	l := &Logger{
		cfg:         cfg,
		q:           q,
		dataSig:     dataSig,
		flushSig:    flushSig,
		consumer:    c,
		ctxMap:      ctxMap,
		sinkReg:     sinkReg,
		levelFilter: levelFilter,
		extractor:   extractor,
	}

	go c.Run(context.Background())

	return l, nil
}

// Get returns the process-wide Logger installed by Init, or
// (nil, false) if Init has not been called yet.
func Get() (*Logger, bool) {
	instMu.Lock()
	defer instMu.Unlock()
	return inst, inst != nil
}

// otelSpanExtractor is the default context extractor: it reads the
// active OpenTelemetry span, if any, straight off the context.Context
// a producer passes to Log/Debug/Info/.... Kept here rather than
// importing runtime/otelctx to avoid a dependency cycle risk as this
// package grows; the logic matches runtime/otelctx.Extractor exactly.
func otelSpanExtractor(ctx context.Context) pctx.Pack {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return pctx.Empty()
	}
	return pctx.Pack{TraceID: span.TraceID().String(), SpanID: span.SpanID().String()}
}

// --- apis.Logger ---------------------------------------------------

// Enabled implements apis.Logger.
func (l *Logger) Enabled(lvl level.Level) bool {
	return lvl.Enabled(l.levelFilter.MinLevel())
}

// Debug implements apis.Logger.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...field.Field) {
	l.log(ctx, level.Debug, "", msg, fields...)
}

// Info implements apis.Logger.
func (l *Logger) Info(ctx context.Context, msg string, fields ...field.Field) {
	l.log(ctx, level.Info, "", msg, fields...)
}

// Warn implements apis.Logger.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...field.Field) {
	l.log(ctx, level.Warn, "", msg, fields...)
}

// Error implements apis.Logger.
func (l *Logger) Error(ctx context.Context, msg string, fields ...field.Field) {
	l.log(ctx, level.Error, "", msg, fields...)
}

// Critical implements apis.Logger.
func (l *Logger) Critical(ctx context.Context, msg string, fields ...field.Field) {
	l.log(ctx, level.Critical, "", msg, fields...)
}

// Log implements apis.Logger. It never blocks on I/O: it only
// constructs a Record and pushes it onto the queue, waking the
// consumer.
func (l *Logger) Log(ctx context.Context, lvl level.Level, msg string, fields ...field.Field) {
	l.log(ctx, lvl, "", msg, fields...)
}

// LogTag is the tagged variant used by the ABI's queue_log and by
// callers that want per-context routing without going through
// WithContext/WithFields.
func (l *Logger) LogTag(ctx context.Context, lvl level.Level, tag, msg string, fields ...field.Field) {
	l.log(ctx, lvl, tag, msg, fields...)
}

// log is the single construction point every public entry method
// calls directly (never through one another), so callerSite's skip
// count is the same regardless of which method the producer used.
func (l *Logger) log(ctx context.Context, lvl level.Level, tag, msg string, fields ...field.Field) {
	file, line, fn := callerSite(3)
	r := record.New(time.Now(), lvl, tag, msg)
	r.File = file
	r.Line = line
	r.Function = fn
	if ctx != nil {
		r.Ctx = l.extractor.Extract(ctx)
	}
	if len(fields) > 0 {
		r = r.WithFields(fields...)
	}
	l.q.Push(r)
}

func callerSite(skip int) (file string, line uint32, fn string) {
	pc, f, ln, ok := runtime.Caller(skip)
	if !ok {
		return "", 0, ""
	}
	file, line = f, uint32(ln)
	if rf := runtime.FuncForPC(pc); rf != nil {
		fn = rf.Name()
	}
	return file, line, fn
}

// --- apis.FieldLogger / apis.ContextLogger --------------------------

// boundLogger is a Logger view with fields and/or a base context
// pre-bound, returned by WithFields/WithContext.
type boundLogger struct {
	l      *Logger
	ctx    context.Context
	fields []field.Field
}

var _ apis.Logger = (*boundLogger)(nil)

// WithFields implements apis.FieldLogger.
func (l *Logger) WithFields(fields ...field.Field) apis.Logger {
	return &boundLogger{l: l, fields: append([]field.Field(nil), fields...)}
}

// WithContext implements apis.ContextLogger.
func (l *Logger) WithContext(ctx context.Context) apis.Logger {
	return &boundLogger{l: l, ctx: ctx}
}

func (b *boundLogger) Enabled(lvl level.Level) bool { return b.l.Enabled(lvl) }

// merged resolves the effective ctx and field set for a call: the
// bound context is used when the caller passes nil, and bound fields
// are prepended to the call's own fields.
func (b *boundLogger) merged(ctx context.Context, fields []field.Field) (context.Context, []field.Field) {
	if ctx == nil {
		ctx = b.ctx
	}
	return ctx, append(append([]field.Field(nil), b.fields...), fields...)
}

// Each method below calls b.l.log directly rather than through one
// another, so callerSite resolves the same stack depth regardless of
// which one the producer used.

func (b *boundLogger) Debug(ctx context.Context, msg string, fields ...field.Field) {
	ctx, all := b.merged(ctx, fields)
	b.l.log(ctx, level.Debug, "", msg, all...)
}
func (b *boundLogger) Info(ctx context.Context, msg string, fields ...field.Field) {
	ctx, all := b.merged(ctx, fields)
	b.l.log(ctx, level.Info, "", msg, all...)
}
func (b *boundLogger) Warn(ctx context.Context, msg string, fields ...field.Field) {
	ctx, all := b.merged(ctx, fields)
	b.l.log(ctx, level.Warn, "", msg, all...)
}
func (b *boundLogger) Error(ctx context.Context, msg string, fields ...field.Field) {
	ctx, all := b.merged(ctx, fields)
	b.l.log(ctx, level.Error, "", msg, all...)
}
func (b *boundLogger) Critical(ctx context.Context, msg string, fields ...field.Field) {
	ctx, all := b.merged(ctx, fields)
	b.l.log(ctx, level.Critical, "", msg, all...)
}

func (b *boundLogger) Log(ctx context.Context, lvl level.Level, msg string, fields ...field.Field) {
	ctx, all := b.merged(ctx, fields)
	b.l.log(ctx, lvl, "", msg, all...)
}

// --- context registration -------------------------------------------

// RegisterContext opens a per-context file for tag. Like every
// ContextMap mutation, it is only safe because contextmap.Map
// serializes its own access; callers do not need an additional lock.
func (l *Logger) RegisterContext(tag string) error {
	if err := l.ctxMap.Register(tag); err != nil {
		return &Error{Op: "RegisterContext", Kind: KindIoSpecific, Path: tag, Err: err}
	}
	return nil
}

// UnregisterContext closes and flushes the per-context file for tag.
func (l *Logger) UnregisterContext(tag string) error {
	if err := l.ctxMap.Unregister(tag); err != nil {
		return &Error{Op: "UnregisterContext", Kind: KindIoError, Path: tag, Err: err}
	}
	return nil
}

// AddSink registers a user-supplied callback sink, fanned out after
// the built-in stdout/syslog sinks and before external tracing.
func (l *Logger) AddSink(s asink.Sink) error {
	if err := l.sinkReg.Add(s); err != nil {
		return &Error{Op: "AddSink", Kind: KindLogError, Err: err}
	}
	return nil
}

// LogDirectory returns the directory holding the global log file and
// every per-context file, as surfaced by the ABI's get_log_directory.
func (l *Logger) LogDirectory() string {
	return filepath.Dir(l.cfg.GlobalLogPath)
}

// AddStructuredSink registers a sink that receives the full Record
// rather than a formatted byte line — the ABI's add_log_sink callback
// is the motivating consumer, since its C struct carries level, file,
// line, and column as separate fields.
func (l *Logger) AddStructuredSink(s consumer.StructSink) {
	l.consumer.AddStructSink(s)
}

// SetMinLevel updates the minimum level the built-in level filter
// enforces. Safe to call from any goroutine; the filter stores the
// value atomically and the consumer reads it once per chunked record.
func (l *Logger) SetMinLevel(min level.Level) {
	l.levelFilter.SetMinLevel(min)
}

// --- apis/pipeline.Pipeline ------------------------------------------

// Emit implements apis/pipeline.Pipeline by pushing r directly onto
// the queue, bypassing Log's caller-site capture (the record already
// carries its own File/Line/Function).
func (l *Logger) Emit(_ context.Context, r record.Record) error {
	l.q.Push(r)
	return nil
}

// Flush implements apis/pipeline.Pipeline (and is the basis for
// WaitForFlush): it waits for the consumer's next flush-complete
// signal.
func (l *Logger) Flush(_ context.Context) error {
	l.flushSig.Wait()
	return nil
}

// WaitForFlush blocks until the consumer completes its next flush
// cycle.
func (l *Logger) WaitForFlush() {
	l.flushSig.Wait()
}

// WaitForFlushTimeout blocks until the consumer completes its next
// flush cycle or d elapses, whichever comes first. It reports whether
// the flush was observed.
func (l *Logger) WaitForFlushTimeout(d time.Duration) bool {
	return l.flushSig.WaitTimeout(d)
}

// --- apis/health.Checker ---------------------------------------------

// Check implements apis/health.Checker.
// Check aggregates the consumer's own liveness/backlog checker with a
// flush probe against every host-registered sink, via health.Aggregator,
// so a single stuck callback sink degrades the report the same way a
// growing queue backlog does.
func (l *Logger) Check(ctx context.Context) (health.Result, error) {
	agg := health.NewAggregator()
	agg.Add("consumer", consumer.NewQueueDepthChecker(l.consumer, l.cfg.QueueDepthWarn))
	agg.Add("user_sinks", sinkregistry.NewFlushChecker(l.sinkReg))

	report := agg.Run(ctx)
	return health.Result{
		Name:       "paperlog",
		Status:     report.Status,
		ObservedAt: time.Now(),
		Details:    map[string]any{"checks": report.Results},
	}, nil
}

// Shutdown stops the consumer goroutine after it drains and flushes
// whatever is currently pending. The producer-facing queue keeps
// accepting records after Shutdown (they are simply never processed),
// matching the best-effort enqueue-path guarantee in spec.md §4.5.
func (l *Logger) Shutdown() error {
	var cerr error
	l.stopOnce.Do(func() {
		l.consumer.Stop()
		cerr = l.consumer.Close()
	})
	if cerr != nil {
		return &Error{Op: "Shutdown", Kind: KindFlushError, Err: cerr}
	}
	return nil
}

// applyProviderChange applies an apis/provider.Change to this Logger.
// Only ever called on the consumer goroutine, via consumer.ApplyAsync
// — never directly from the watching goroutine — preserving the
// single-writer discipline SPEC_FULL.md §4.8/§5 requires for logger
// state. Only Spec.MinLevel is applied; Spec.Sinks and the other
// Spec fields are ignored.
func (l *Logger) applyProviderChange(c provider.Change) {
	if c.Reason == provider.ChangeError || c.Spec == nil {
		return
	}
	if c.Spec.MinLevel != nil {
		l.SetMinLevel(*c.Spec.MinLevel)
	}
}

// WatchConfig subscribes to p and schedules every subsequent change to
// run on the consumer goroutine until ctx is canceled or the stream
// ends. It spawns its own goroutine and returns immediately; callers
// that want to stop watching early should cancel ctx rather than
// calling Stream.Close directly, since WatchConfig owns the stream's
// lifetime.
func (l *Logger) WatchConfig(ctx context.Context, p provider.Provider) error {
	stream, err := p.Watch(ctx)
	if err != nil {
		return &Error{Op: "WatchConfig", Kind: KindLogError, Err: err}
	}
	if stream == nil {
		return nil
	}
	go func() {
		defer stream.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-stream.Updates():
				if !ok {
					return
				}
				l.consumer.ApplyAsync(func() { l.applyProviderChange(c) })
			}
		}
	}()
	return nil
}

