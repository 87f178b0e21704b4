// Package batch replays many proof scripts concurrently, one forest per
// script.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prover/internal/logging"
	"prover/internal/script"
	"prover/internal/theory"
	"prover/internal/trace"
)

// Request describes a batch.
type Request struct {
	Paths    []string
	Jobs     int // <= 0 means GOMAXPROCS
	MaxSteps int
	Theorems *theory.Registry
	Logger   *zap.Logger
	// SnapshotDir, when set, receives one <name>.forest file per script.
	SnapshotDir string
	Progress    ProgressSink
	// FailFast cancels the remaining scripts after the first error.
	FailFast bool
}

// Outcome is the result for one script. Err covers load, parse and run
// failures; Result is nil when the script never started.
type Outcome struct {
	Path     string
	Session  uuid.UUID
	Result   *script.Result
	Snapshot string
	Err      error
	Elapsed  time.Duration
}

func (o Outcome) Proven() bool { return o.Err == nil && o.Result != nil && o.Result.Proven }

// Run executes every script in req.Paths. Outcomes are in request order.
// The returned error is non-nil only when the batch itself was cancelled.
func Run(ctx context.Context, req Request) ([]Outcome, error) {
	sink := req.Progress
	if sink == nil {
		sink = nopSink{}
	}
	log := req.Logger
	if log == nil {
		log = zap.NewNop()
	}
	theorems := req.Theorems
	if theorems == nil {
		theorems = theory.Standard()
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if req.SnapshotDir != "" {
		if err := os.MkdirAll(req.SnapshotDir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create snapshot directory")
		}
	}
	for _, p := range req.Paths {
		sink.OnEvent(Event{Script: p, Status: StatusQueued})
	}

	ctx, span := trace.Start(ctx, trace.ScopeSession, "batch")
	defer span.End("")

	// индексы уникальны, мьютекс не нужен
	outcomes := make([]Outcome, len(req.Paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Paths))))
	for i, path := range req.Paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				outcomes[i] = Outcome{Path: path, Err: gctx.Err()}
				sink.OnEvent(Event{Script: path, Status: StatusError, Err: gctx.Err()})
				return nil
			default:
			}
			outcomes[i] = runOne(gctx, req, theorems, log, path, sink)
			if req.FailFast && outcomes[i].Err != nil {
				return outcomes[i].Err
			}
			return nil
		})
	}
	// ошибки скриптов лежат в outcomes
	_ = g.Wait()
	return outcomes, ctx.Err()
}

func runOne(ctx context.Context, req Request, theorems *theory.Registry, log *zap.Logger, path string, sink ProgressSink) Outcome {
	start := time.Now()
	out := Outcome{Path: path, Session: uuid.New()}
	log = log.With(zap.String(logging.FieldSession, out.Session.String()))
	finish := func(status Status) Outcome {
		out.Elapsed = time.Since(start)
		ev := Event{Script: path, Status: status, Err: out.Err, Elapsed: out.Elapsed}
		if out.Result != nil {
			ev.Step = len(out.Result.Steps)
			ev.Total = len(out.Result.Script.Steps)
		}
		sink.OnEvent(ev)
		return out
	}

	s, err := script.Load(path)
	if err != nil {
		out.Err = err
		return finish(StatusError)
	}
	sink.OnEvent(Event{Script: path, Status: StatusWorking, Total: len(s.Steps)})
	res, err := s.Run(ctx, script.RunOptions{
		Logger:   log,
		Session:  out.Session,
		Theorems: theorems,
		MaxSteps: req.MaxSteps,
		Progress: func(done, total int) {
			sink.OnEvent(Event{Script: path, Status: StatusWorking, Step: done, Total: total, Elapsed: time.Since(start)})
		},
	})
	out.Result, out.Err = res, err

	if req.SnapshotDir != "" && res != nil {
		out.Snapshot = filepath.Join(req.SnapshotDir, snapshotName(path))
		if err := res.Forest.Save(out.Snapshot); err != nil && out.Err == nil {
			out.Err = err
		}
	}
	switch {
	case out.Err != nil:
		log.Info("script failed", zap.String(logging.FieldScript, path), zap.Error(out.Err))
		return finish(StatusError)
	case res.Proven:
		return finish(StatusProven)
	default:
		return finish(StatusUnproven)
	}
}

func snapshotName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".forest"
}
