package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prover/internal/logging"
	"prover/internal/prof"
	"prover/internal/trace"
)

// app is the per-invocation state built by setupSession.
var app struct {
	cfg     proverConfig
	log     *zap.Logger
	prof    *prof.Session
	cleanup func(failed bool)
}

func logger() *zap.Logger {
	if app.log == nil {
		return logging.Nop()
	}
	return app.log
}

// setupSession loads prover.toml, applies flag overrides and installs the
// logger and tracer.
func setupSession(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.applyFlags(cmd)
	app.cfg = cfg

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON}, os.Stderr)
	if err != nil {
		return err
	}
	app.log = log
	if cfg.path != "" {
		log.Debug("loaded config", zap.String("path", cfg.path))
	}

	pf := cmd.Root().PersistentFlags()
	profCfg := prof.Config{}
	profCfg.CPU, _ = pf.GetString("cpu-profile")
	profCfg.Mem, _ = pf.GetString("mem-profile")
	profCfg.Trace, _ = pf.GetString("runtime-trace")
	if profCfg.Enabled() {
		if app.prof, err = prof.Start(profCfg); err != nil {
			return err
		}
	}

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	app.cleanup = cleanup
	return nil
}

func teardownSession(err error) {
	if app.cleanup != nil {
		app.cleanup(err != nil)
		app.cleanup = nil
	}
	if perr := app.prof.Stop(); perr != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", perr)
	}
	app.prof = nil
	if app.log != nil {
		_ = app.log.Sync()
	}
}

// printError prints err and any hints attached with errors.WithHint.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "error:", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintln(w, "hint:", hint)
	}
}

// setupTracing builds the tracer described by cfg and attaches it to the
// command context. The returned cleanup flushes and closes it; with a ring
// buffer the last events are dumped to stderr when the command failed.
func setupTracing(cmd *cobra.Command, cfg traceConfig) (func(failed bool), error) {
	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid trace level")
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	mode, err := trace.ParseMode(cfg.Mode)
	if err != nil {
		return nil, errors.Wrap(err, "invalid trace mode")
	}
	if level == trace.LevelError && cfg.Mode == "" {
		mode = trace.ModeRing
	}
	format, ok := trace.ParseFormat(cfg.Format)
	if !ok {
		return nil, errors.Newf("invalid trace format %q (expected auto|text|ndjson)", cfg.Format)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: cfg.Output,
		RingSize:   cfg.RingSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tracer")
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, cfg.Heartbeat.Duration)

	return func(failed bool) {
		heartbeat.Stop()
		if failed {
			if ring := ringOf(tracer); ring != nil {
				fmt.Fprintln(os.Stderr, "trace: last events before failure:")
				if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
					fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
				}
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}, nil
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
