// Package prof wires Go's CPU, heap and runtime-trace profilers to a CLI
// invocation.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/cockroachdb/errors"
)

// Config names the output files; empty paths disable that profiler.
type Config struct {
	CPU   string
	Mem   string
	Trace string
}

func (c Config) Enabled() bool { return c.CPU != "" || c.Mem != "" || c.Trace != "" }

// Session is a set of running profilers. Stop is idempotent.
type Session struct {
	cfg       Config
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the profilers named in cfg. On error everything already
// started is stopped again.
func Start(cfg Config) (*Session, error) {
	s := &Session{cfg: cfg}
	if cfg.CPU != "" {
		f, err := os.Create(cfg.CPU)
		if err != nil {
			return nil, errors.Wrap(err, "cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "cpu profile")
		}
		s.cpuFile = f
	}
	if cfg.Trace != "" {
		f, err := os.Create(cfg.Trace)
		if err != nil {
			_ = s.Stop()
			return nil, errors.Wrap(err, "runtime trace")
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			_ = s.Stop()
			return nil, errors.Wrap(err, "runtime trace")
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends the CPU profile and runtime trace, then writes the heap
// profile.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	var errs error
	if s.traceFile != nil {
		trace.Stop()
		errs = errors.CombineErrors(errs, s.traceFile.Close())
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = errors.CombineErrors(errs, s.cpuFile.Close())
	}
	if s.cfg.Mem != "" {
		errs = errors.CombineErrors(errs, writeHeap(s.cfg.Mem))
	}
	return errs
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "heap profile")
	}
	defer func() { err = errors.CombineErrors(err, f.Close()) }()
	runtime.GC()
	return errors.Wrap(pprof.WriteHeapProfile(f), "heap profile")
}
