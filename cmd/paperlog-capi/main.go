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

// Command paperlog-capi is paperlog's C ABI boundary, built with
// -buildmode=c-shared (or c-archive) for embedding in a native host
// process such as an Android mod loader. It exports the operations
// listed in spec.md §4.6/§6 against the process-wide Logger singleton
// in package paperlog; go:cgo export comments must live in package
// main, so the struct/marshaling logic they depend on lives in the
// importable, cgo-free dirpx.dev/paperlog/abi package instead.
package main

/*
#include <stdint.h>
#include <stddef.h>
#include <stdbool.h>
#include <stdlib.h>

typedef struct {
	const uint8_t *ptr;
	size_t len;
} paperlog_string_ref;

typedef struct {
	uint64_t max_string_len;
	uint64_t log_max_buffer_count;
	uint8_t line_end;
	const char *context_log_path;
} paperlog_logger_config_ffi;

typedef struct {
	int32_t level;
	paperlog_string_ref tag;
	paperlog_string_ref message;
	int64_t timestamp_seconds;
	paperlog_string_ref file;
	uint32_t line;
	uint32_t column;
	paperlog_string_ref function_name;
} paperlog_log_data_c;

typedef void (*paperlog_sink_callback)(const paperlog_log_data_c *data, void *user_data);

static inline void paperlog_invoke_sink_callback(paperlog_sink_callback cb, const paperlog_log_data_c *data, void *user_data) {
	cb(data, user_data);
}
*/
import "C"

import (
	"context"
	"path/filepath"
	"runtime"
	"time"
	"unsafe"

	"dirpx.dev/paperlog"
	"dirpx.dev/paperlog/abi"
	"dirpx.dev/paperlog/apis/level"
	"dirpx.dev/paperlog/apis/record"
	"dirpx.dev/paperlog/config"
)

func main() {
	// Required by cgo for -buildmode=c-shared/c-archive; the host
	// process never calls it, only the exported functions below.
}

//export paperlog_init
func paperlog_init(cfgPtr *C.paperlog_logger_config_ffi, pathCstr *C.char) C.bool {
	if cfgPtr == nil || pathCstr == nil {
		return C.bool(false)
	}
	globalPath := C.GoString(pathCstr)
	contextPath := filepath.Dir(globalPath)
	if cfgPtr.context_log_path != nil {
		contextPath = C.GoString(cfgPtr.context_log_path)
	}

	cfg := config.Defaults()
	cfg.MaxStringLen = int(cfgPtr.max_string_len)
	cfg.LogMaxBufferCount = int(cfgPtr.log_max_buffer_count)
	cfg.LineEnd = byte(cfgPtr.line_end)
	cfg.GlobalLogPath = globalPath
	cfg.ContextLogPath = contextPath

	if _, err := paperlog.Init(cfg); err != nil {
		return C.bool(false)
	}
	return C.bool(true)
}

//export paperlog_register_context
func paperlog_register_context(tagCstr *C.char) C.bool {
	l, ok := paperlog.Get()
	if !ok || tagCstr == nil {
		return C.bool(false)
	}
	tag := abi.SanitizeCString([]byte(C.GoString(tagCstr)))
	if err := l.RegisterContext(tag); err != nil {
		return C.bool(false)
	}
	return C.bool(true)
}

//export paperlog_unregister_context
func paperlog_unregister_context(tagCstr *C.char) C.bool {
	l, ok := paperlog.Get()
	if !ok || tagCstr == nil {
		return C.bool(false)
	}
	tag := abi.SanitizeCString([]byte(C.GoString(tagCstr)))
	if err := l.UnregisterContext(tag); err != nil {
		return C.bool(false)
	}
	return C.bool(true)
}

//export paperlog_queue_log
func paperlog_queue_log(lvl C.int32_t, tagCstr, msgCstr, fileCstr *C.char, line, col C.uint32_t, fnCstr *C.char) C.bool {
	l, ok := paperlog.Get()
	if !ok || msgCstr == nil || fileCstr == nil {
		return C.bool(false)
	}

	lv := level.Level(int8(lvl))
	if err := lv.Validate(); err != nil {
		return C.bool(false)
	}

	tag := ""
	if tagCstr != nil {
		tag = abi.SanitizeCString([]byte(C.GoString(tagCstr)))
	}
	fn := ""
	if fnCstr != nil {
		fn = abi.SanitizeCString([]byte(C.GoString(fnCstr)))
	}

	// Built directly rather than through Logger.LogTag: the real call
	// site is native code with no Go stack to introspect, so the
	// caller-supplied file/line/column/function travel with the record
	// instead, the same way Emit documents for apis/pipeline producers.
	r := record.New(time.Now(), lv, tag, abi.SanitizeCString([]byte(C.GoString(msgCstr))))
	r.File = abi.SanitizeCString([]byte(C.GoString(fileCstr)))
	r.Line = uint32(line)
	r.Column = uint32(col)
	r.Function = fn

	if err := l.Emit(context.Background(), r); err != nil {
		return C.bool(false)
	}
	return C.bool(true)
}

//export paperlog_wait_for_flush
func paperlog_wait_for_flush() C.bool {
	l, ok := paperlog.Get()
	if !ok {
		return C.bool(false)
	}
	l.WaitForFlush()
	return C.bool(true)
}

//export paperlog_wait_flush_timeout
func paperlog_wait_flush_timeout(timeoutMs C.int) C.bool {
	l, ok := paperlog.Get()
	if !ok {
		return C.bool(false)
	}
	l.WaitForFlushTimeout(time.Duration(timeoutMs) * time.Millisecond)
	return C.bool(true)
}

//export paperlog_get_log_directory
func paperlog_get_log_directory() *C.char {
	l, ok := paperlog.Get()
	if !ok {
		return nil
	}
	return C.CString(l.LogDirectory())
}

//export paperlog_free_c_string
func paperlog_free_c_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

//export paperlog_get_inited
func paperlog_get_inited() C.bool {
	_, ok := paperlog.Get()
	return C.bool(ok)
}

// callbackSink adapts a C function pointer + opaque user_data into a
// consumer.StructSink, invoking the callback with pointers valid only
// for the duration of the call (spec.md §4.6: "sinks must copy if they
// need longer lifetimes").
type callbackSink struct {
	cb       C.paperlog_sink_callback
	userData unsafe.Pointer
}

func (s *callbackSink) WriteRecord(_ context.Context, r *record.Record) error {
	tag := []byte(r.Tag)
	msg := []byte(r.Message)
	file := []byte(r.File)
	fn := []byte(r.Function)

	data := C.paperlog_log_data_c{
		level:             C.int32_t(r.Level),
		tag:               bytesRef(tag),
		message:           bytesRef(msg),
		timestamp_seconds: C.int64_t(r.Time.Unix()),
		file:              bytesRef(file),
		line:              C.uint32_t(r.Line),
		column:            C.uint32_t(r.Column),
		function_name:     bytesRef(fn),
	}
	C.paperlog_invoke_sink_callback(s.cb, &data, s.userData)
	// tag/msg/file/fn must outlive the call above; the compiler cannot
	// prove the C side is done with them since their addresses only
	// escape through C.paperlog_string_ref.
	runtime.KeepAlive(tag)
	runtime.KeepAlive(msg)
	runtime.KeepAlive(file)
	runtime.KeepAlive(fn)
	return nil
}

func bytesRef(b []byte) C.paperlog_string_ref {
	if len(b) == 0 {
		return C.paperlog_string_ref{}
	}
	return C.paperlog_string_ref{
		ptr: (*C.uint8_t)(unsafe.Pointer(&b[0])),
		len: C.size_t(len(b)),
	}
}

//export paperlog_add_log_sink
func paperlog_add_log_sink(cb C.paperlog_sink_callback, userData unsafe.Pointer) C.bool {
	l, ok := paperlog.Get()
	if !ok || cb == nil {
		return C.bool(false)
	}
	l.AddStructuredSink(&callbackSink{cb: cb, userData: userData})
	return C.bool(true)
}
