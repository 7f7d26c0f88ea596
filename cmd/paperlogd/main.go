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

// Command paperlogd is a sample host process embedding paperlog as a
// library: it is not the C ABI boundary (see cmd/paperlog-capi), it is
// what a pure-Go host (as opposed to a native Android mod loader)
// looks like — the same library surface, reached directly rather than
// through cgo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"dirpx.dev/paperlog"
	pctx "dirpx.dev/paperlog/apis/context"
	"dirpx.dev/paperlog/apis/field"
	"dirpx.dev/paperlog/apis/level"
	asink "dirpx.dev/paperlog/apis/sink"
	spolicy "dirpx.dev/paperlog/apis/sink/policy"
	"dirpx.dev/paperlog/config"
	"dirpx.dev/paperlog/runtime/configprovider"
	"dirpx.dev/paperlog/runtime/encoder"
	"dirpx.dev/paperlog/runtime/encoder/console"
	"dirpx.dev/paperlog/runtime/encodersink"
	"dirpx.dev/paperlog/runtime/sink/policy"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paperlogd",
		Short: "Sample host process for the paperlog logging engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a YAML config file watched for live min_level updates (a sinks list is read but not applied)")
	flags.String("log-dir", "./paperlog-data", "directory for the global and per-context log files")
	flags.String("min-level", "info", "initial minimum log level (debug, info, warn, error, critical)")
	flags.Bool("stdout", true, "enable the stdout sink")
	flags.Bool("syslog", false, "enable the syslog sink (no-op on platforms without one)")
	flags.Bool("json-mirror", false, "enable the NDJSON mirror sink")
	flags.String("console-mirror-path", "", "if set, mirrors every record as a human-readable line to this file")
	flags.String("rotate-path", "", "if set, adds an opt-in rotating file sink at this path (never the global file)")
	flags.Int("rotate-max-size-mb", 64, "rotate the sink file once it exceeds this size")
	flags.Int("rotate-max-backups", 5, "number of rotated files to retain")
	flags.Bool("rotate-compress", true, "gzip rotated backups")
	flags.Int("rotate-batch-max-entries", 200, "flush the rotating sink after this many buffered entries")
	flags.Duration("rotate-batch-interval", 2*time.Second, "flush the rotating sink at least this often")
	flags.Bool("rotate-retry", true, "retry a failed rotating-sink write with exponential backoff before giving up")
	flags.Int("rotate-retry-max", 3, "maximum retry attempts per failed write")

	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("log_dir", flags.Lookup("log-dir"))
	_ = v.BindPFlag("min_level", flags.Lookup("min-level"))
	_ = v.BindPFlag("enable_stdout", flags.Lookup("stdout"))
	_ = v.BindPFlag("enable_syslog", flags.Lookup("syslog"))
	_ = v.BindPFlag("enable_json_mirror", flags.Lookup("json-mirror"))
	_ = v.BindPFlag("console_mirror_path", flags.Lookup("console-mirror-path"))
	_ = v.BindPFlag("rotate_path", flags.Lookup("rotate-path"))
	_ = v.BindPFlag("rotate_max_size_mb", flags.Lookup("rotate-max-size-mb"))
	_ = v.BindPFlag("rotate_max_backups", flags.Lookup("rotate-max-backups"))
	_ = v.BindPFlag("rotate_compress", flags.Lookup("rotate-compress"))
	_ = v.BindPFlag("rotate_batch_max_entries", flags.Lookup("rotate-batch-max-entries"))
	_ = v.BindPFlag("rotate_batch_interval", flags.Lookup("rotate-batch-interval"))
	_ = v.BindPFlag("rotate_retry", flags.Lookup("rotate-retry"))
	_ = v.BindPFlag("rotate_retry_max", flags.Lookup("rotate-retry-max"))

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	logDir := v.GetString("log_dir")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("paperlogd: create log dir: %w", err)
	}

	minLevel, err := level.ParseLevel(v.GetString("min_level"))
	if err != nil {
		return fmt.Errorf("paperlogd: min-level: %w", err)
	}

	cfg := config.Defaults()
	cfg.GlobalLogPath = filepath.Join(logDir, "Paperlog.log")
	cfg.ContextLogPath = logDir
	cfg.MinLevel = minLevel
	cfg.EnableStdout = v.GetBool("enable_stdout")
	cfg.EnableSyslog = v.GetBool("enable_syslog")
	cfg.EnableJSONMirror = v.GetBool("enable_json_mirror")

	instanceID := uuid.NewString()
	logger, err := paperlog.Init(cfg, paperlog.WithStaticContext(pctx.Pack{
		Service:  "paperlogd",
		Instance: instanceID,
	}))
	if err != nil {
		return fmt.Errorf("paperlogd: init: %w", err)
	}
	defer logger.Shutdown()

	if path := v.GetString("config"); path != "" {
		provider := configprovider.New(path, 0)
		if err := logger.WatchConfig(ctx, provider); err != nil {
			return fmt.Errorf("paperlogd: watch config: %w", err)
		}
	}

	if err := logger.RegisterContext("daemon"); err != nil {
		return fmt.Errorf("paperlogd: register context: %w", err)
	}

	if rotatePath := v.GetString("rotate_path"); rotatePath != "" {
		rotating, err := policy.NewRotatingFileSink(policy.FileRotationOptions{
			Path: rotatePath,
			Policy: spolicy.Rotation{
				MaxSizeMB:  v.GetInt("rotate_max_size_mb"),
				MaxBackups: v.GetInt("rotate_max_backups"),
				Compress:   v.GetBool("rotate_compress"),
			},
		})
		if err != nil {
			return fmt.Errorf("paperlogd: rotating sink: %w", err)
		}
		spec := asink.Specification{
			Name:         "rotate",
			Backpressure: spolicy.BackpressureDrop,
			Retry: spolicy.Retry{
				Enable:     v.GetBool("rotate_retry"),
				MaxRetries: v.GetInt("rotate_retry_max"),
			},
			Batch: &spolicy.Batch{
				MaxEntries: v.GetInt("rotate_batch_max_entries"),
				Interval:   v.GetDuration("rotate_batch_interval"),
			},
		}
		wrapped := policy.ApplySpecification(rotating, spec)
		if err := logger.AddSink(wrapped); err != nil {
			return fmt.Errorf("paperlogd: add rotating sink: %w", err)
		}
	}

	if mirrorPath := v.GetString("console_mirror_path"); mirrorPath != "" {
		mirror, err := encodersink.New(mirrorPath, console.New(encoder.Options{}), "")
		if err != nil {
			return fmt.Errorf("paperlogd: console mirror: %w", err)
		}
		logger.AddStructuredSink(mirror)
	}

	logger.Info(ctx, "paperlogd started", field.New("log_dir", logDir), field.New("instance", instanceID))
	logger.LogTag(ctx, level.Info, "daemon", "daemon context registered")

	// Records logged against this span carry its trace/span ID through
	// the default OpenTelemetry extractor only when a host has installed
	// a TracerProvider (otel.SetTracerProvider) that produces valid span
	// contexts; with the default no-op provider no IDs are added.
	tracer := otel.Tracer("dirpx.dev/paperlog/cmd/paperlogd")
	spanCtx, span := tracer.Start(ctx, "paperlogd.serve")
	logger.Info(spanCtx, "serve loop running")

	<-ctx.Done()
	span.End()
	logger.Info(context.Background(), "paperlogd shutting down")
	logger.WaitForFlushTimeout(5 * time.Second)
	return nil
}
