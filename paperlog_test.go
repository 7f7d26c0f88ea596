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

package paperlog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/paperlog/apis/field"
	"dirpx.dev/paperlog/apis/health"
	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/provider"
	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/config"
)

// testLogger is shared across this file's tests: Init installs a
// process-wide singleton and a second call deliberately fails, so every
// test that needs a working *Logger reuses the one TestMain builds
// rather than calling Init again.
var testLogger *Logger

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "paperlog-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	cfg := config.Defaults()
	cfg.GlobalLogPath = filepath.Join(dir, "Paperlog.log")
	cfg.ContextLogPath = dir
	cfg.EnableStdout = false
	cfg.EnableJSONMirror = true

	l, err := Init(cfg)
	if err != nil {
		panic(err)
	}
	testLogger = l

	code := m.Run()
	_ = l.Shutdown()
	os.Exit(code)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestInit_SecondCallReturnsAlreadyInitialized(t *testing.T) {
	_, err := Init(config.Defaults())
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAlreadyInitialized, pe.Kind)
}

func TestGet_ReturnsTheInstalledSingleton(t *testing.T) {
	l, ok := Get()
	require.True(t, ok)
	assert.Same(t, testLogger, l)
}

func TestLogger_InfoWritesToGlobalFile(t *testing.T) {
	testLogger.Info(context.Background(), "hello from info test")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	got := readFile(t, testLogger.cfg.GlobalLogPath)
	assert.Contains(t, got, "hello from info test")
	assert.Contains(t, got, "[GLOBAL]")
	assert.Contains(t, got, "INFO")
}

func TestLogger_LogCapturesCallerSiteOfThisFunction(t *testing.T) {
	testLogger.Log(context.Background(), level.Warn, "caller site probe")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	got := readFile(t, testLogger.cfg.GlobalLogPath)
	assert.Contains(t, got, "caller site probe")
	assert.Contains(t, got, "paperlog_test.go")
	assert.Contains(t, got, "TestLogger_LogCapturesCallerSiteOfThisFunction")
}

func TestLogger_LogTagRoutesToContextFile(t *testing.T) {
	require.NoError(t, testLogger.RegisterContext("tagtest"))
	defer testLogger.UnregisterContext("tagtest")

	testLogger.LogTag(context.Background(), level.Info, "tagtest", "tagged message")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	global := readFile(t, testLogger.cfg.GlobalLogPath)
	assert.Contains(t, global, "tagged message")
	assert.Contains(t, global, "[tagtest]")

	perContext := readFile(t, filepath.Join(testLogger.cfg.ContextLogPath, "tagtest.log"))
	assert.Contains(t, perContext, "tagged message")
	assert.NotContains(t, perContext, "[tagtest]", "per-context file omits the tag segment")
}

func TestBoundLogger_WithFieldsMergesIntoJSONMirror(t *testing.T) {
	bound := testLogger.WithFields(field.New("component", "bound-test"))
	bound.Info(context.Background(), "bound field message", field.New("attempt", 1))
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	mirror := readFile(t, testLogger.cfg.ResolvedJSONMirrorPath())
	assert.Contains(t, mirror, `"component":"bound-test"`)
	assert.Contains(t, mirror, `"attempt":1`)
	assert.Contains(t, mirror, "bound field message")
}

func TestBoundLogger_WithContextFallsBackWhenCallSitePassesNil(t *testing.T) {
	type ctxKeyT struct{}
	ctxKey := ctxKeyT{}
	baseCtx := context.WithValue(context.Background(), ctxKey, "carried")

	bound := testLogger.WithContext(baseCtx)
	// passing nil must fall back to the bound context rather than
	// dropping context extraction entirely.
	bound.Info(nil, "fallback context message")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	got := readFile(t, testLogger.cfg.GlobalLogPath)
	assert.Contains(t, got, "fallback context message")
}

func TestLogger_SetMinLevelDropsBelowThreshold(t *testing.T) {
	orig := testLogger.levelFilter.MinLevel()
	testLogger.SetMinLevel(level.Error)
	defer testLogger.SetMinLevel(orig)

	testLogger.Debug(context.Background(), "should never reach disk - unique marker xyz123")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	got := readFile(t, testLogger.cfg.GlobalLogPath)
	assert.NotContains(t, got, "unique marker xyz123")
}

func TestLogger_EnabledReflectsCurrentMinLevel(t *testing.T) {
	orig := testLogger.levelFilter.MinLevel()
	testLogger.SetMinLevel(level.Warn)
	defer testLogger.SetMinLevel(orig)

	assert.False(t, testLogger.Enabled(level.Debug))
	assert.True(t, testLogger.Enabled(level.Error))
}

func TestLogger_AddSinkReceivesSubsequentWrites(t *testing.T) {
	fs := &fakeByteSink{name: "probe-sink"}
	require.NoError(t, testLogger.AddSink(fs))

	testLogger.Info(context.Background(), "sink fan-out probe")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.NotEmpty(t, fs.writes)
	assert.Contains(t, string(fs.writes[len(fs.writes)-1]), "sink fan-out probe")
}

func TestLogger_AddStructuredSinkReceivesRecord(t *testing.T) {
	fs := &fakeStructSink{}
	testLogger.AddStructuredSink(fs)

	testLogger.Info(context.Background(), "structured sink probe")
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.NotEmpty(t, fs.records)
	assert.Equal(t, "structured sink probe", fs.records[len(fs.records)-1].Message)
}

func TestLogger_LogDirectoryMatchesGlobalPathDir(t *testing.T) {
	assert.Equal(t, filepath.Dir(testLogger.cfg.GlobalLogPath), testLogger.LogDirectory())
}

func TestLogger_EmitBypassesCallerSiteCapture(t *testing.T) {
	r := newProbeRecord(level.Info, "emitted directly")
	require.NoError(t, testLogger.Emit(context.Background(), r))
	require.True(t, testLogger.WaitForFlushTimeout(2*time.Second))

	got := readFile(t, testLogger.cfg.GlobalLogPath)
	assert.Contains(t, got, "emitted directly")
}

func TestLogger_Check_ReportsHealthyWithNoBacklog(t *testing.T) {
	res, err := testLogger.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health.StatusHealthy, res.Status)
}

func TestLogger_ApplyProviderChangeUpdatesMinLevel(t *testing.T) {
	orig := testLogger.levelFilter.MinLevel()
	defer testLogger.SetMinLevel(orig)

	lvl := level.Critical
	testLogger.applyProviderChange(provider.Change{
		Reason: provider.ChangeUpdate,
		Spec:   &provider.Specification{MinLevel: &lvl},
	})
	assert.Equal(t, level.Critical, testLogger.levelFilter.MinLevel())
}

func TestLogger_ApplyProviderChangeIgnoresErrorAndNilSpec(t *testing.T) {
	orig := testLogger.levelFilter.MinLevel()
	testLogger.SetMinLevel(level.Info)
	defer testLogger.SetMinLevel(orig)

	testLogger.applyProviderChange(provider.Change{Reason: provider.ChangeError, Spec: &provider.Specification{MinLevel: ptrLevel(level.Critical)}})
	assert.Equal(t, level.Info, testLogger.levelFilter.MinLevel(), "ChangeError must be ignored regardless of Spec")

	testLogger.applyProviderChange(provider.Change{Reason: provider.ChangeUpdate, Spec: nil})
	assert.Equal(t, level.Info, testLogger.levelFilter.MinLevel(), "nil Spec must be ignored")
}

func TestLogger_WatchConfigAppliesUpdatesOnConsumerGoroutine(t *testing.T) {
	orig := testLogger.levelFilter.MinLevel()
	defer testLogger.SetMinLevel(orig)
	testLogger.SetMinLevel(level.Info)

	p := &fakeProvider{ch: make(chan provider.Change, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, testLogger.WatchConfig(ctx, p))

	lvl := level.Warn
	p.ch <- provider.Change{Reason: provider.ChangeUpdate, Spec: &provider.Specification{MinLevel: &lvl}}

	require.Eventually(t, func() bool {
		return testLogger.levelFilter.MinLevel() == level.Warn
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLogger_ShutdownIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.GlobalLogPath = filepath.Join(dir, "Paperlog.log")
	cfg.ContextLogPath = dir
	cfg.EnableStdout = false

	// A throwaway Logger built by hand (not via Init, to avoid
	// colliding with the package-wide singleton) so Shutdown's
	// stopOnce guard can be exercised without disturbing testLogger.
	scratch, err := buildScratchLogger(cfg)
	require.NoError(t, err)

	require.NoError(t, scratch.Shutdown())
	require.NoError(t, scratch.Shutdown(), "second Shutdown must be a no-op, not an error")
}

// --- test doubles and helpers ----------------------------------------

type fakeByteSink struct {
	name   string
	mu     sync.Mutex
	writes [][]byte
}

func (f *fakeByteSink) Name() string { return f.name }
func (f *fakeByteSink) Write(_ context.Context, entry []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), entry...)
	f.writes = append(f.writes, cp)
	return nil
}
func (f *fakeByteSink) Flush(context.Context) error { return nil }
func (f *fakeByteSink) Close(context.Context) error { return nil }

type fakeStructSink struct {
	mu      sync.Mutex
	records []record.Record
}

func (f *fakeStructSink) WriteRecord(_ context.Context, r *record.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *r)
	return nil
}

type fakeProvider struct {
	ch chan provider.Change
}

func (p *fakeProvider) Name() string     { return "fake" }
func (p *fakeProvider) Priority() int    { return 0 }
func (p *fakeProvider) Snapshot(context.Context) (*provider.Specification, string, error) {
	return &provider.Specification{}, "v1", nil
}
func (p *fakeProvider) Watch(context.Context) (provider.Stream, error) {
	return &fakeStream{ch: p.ch}, nil
}

type fakeStream struct {
	ch   chan provider.Change
	once sync.Once
}

func (s *fakeStream) Updates() <-chan provider.Change { return s.ch }
func (s *fakeStream) Close() error {
	s.once.Do(func() { close(s.ch) })
	return nil
}

func ptrLevel(l level.Level) *level.Level { return &l }

func newProbeRecord(lvl level.Level, msg string) record.Record {
	r := record.New(time.Now(), lvl, "", msg)
	r.File = "probe.go"
	r.Line = 1
	return r
}

// buildScratchLogger constructs a *Logger the same way Init does, but
// without touching the package-wide singleton, so Shutdown's
// once-guard can be tested in isolation.
func buildScratchLogger(cfg config.Config) (*Logger, error) {
	return newLogger(cfg)
}
