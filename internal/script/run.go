package script

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"prover/internal/forest"
	"prover/internal/goal"
	"prover/internal/logging"
	"prover/internal/observ"
	"prover/internal/tactic"
	"prover/internal/theory"
	"prover/internal/trace"
)

var (
	ErrStepLimit      = errors.New("step limit reached")
	ErrUnexpectedPass = errors.New("step was expected to fail")
)

// RunOptions tune Run. The zero value is usable.
type RunOptions struct {
	Logger     *zap.Logger
	Session    uuid.UUID
	Theorems   *theory.Registry // nil means theory.Standard()
	Foundation tactic.Foundation
	// MaxSteps stops the run early; 0 means no limit.
	MaxSteps int
	// Progress is called after every step with the number of steps done.
	Progress func(done, total int)
	// Timer receives one phase per step; a fresh one is used when nil.
	Timer *observ.Timer
}

// StepResult records what one step did.
type StepResult struct {
	Index   int
	Node    forest.NodeID
	Tactic  string
	Created []forest.NodeID
	Err     error
}

func (r StepResult) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(r.Index + 1))
	sb.WriteString(". ")
	sb.WriteString(r.Tactic)
	sb.WriteString(" @ ")
	sb.WriteString(r.Node.String())
	if r.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(r.Err.Error())
		return sb.String()
	}
	sb.WriteString(" →")
	for _, c := range r.Created {
		sb.WriteByte(' ')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Result is the state after a run.
type Result struct {
	Script *Script
	Forest *forest.Forest
	Steps  []StepResult
	Proven bool
	Timer  *observ.Timer
}

// Run builds the goal, seeds a forest with it and applies every step in
// order. A failing step aborts the run unless it is marked expect_fail; the
// partial result is returned alongside the error.
func (s *Script) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String(logging.FieldScript, s.Name))

	tm := opts.Timer
	if tm == nil {
		tm = observ.NewTimer()
	}
	base := opts.Theorems
	if base == nil {
		base = theory.Standard()
	}
	idx := tm.Begin("prepare")
	reg, err := s.Registry(base)
	if err != nil {
		return nil, err
	}
	g, err := s.BuildGoal()
	if err != nil {
		return nil, err
	}
	tm.End(idx, strconv.Itoa(reg.Len())+" theorems")
	fopts := []forest.Option{forest.WithLogger(log)}
	if opts.Session != uuid.Nil {
		fopts = append(fopts, forest.WithSession(opts.Session))
	}
	f := forest.New(g, fopts...)
	res := &Result{Script: s, Forest: f, Timer: tm}

	ctx, span := trace.Start(ctx, trace.ScopeSession, "script")
	span.WithExtra("script", s.Name).WithExtra("session", f.Session().String())
	defer func() { span.End(strconv.Itoa(len(res.Steps)) + " steps") }()

	total := len(s.Steps)
	if opts.MaxSteps > 0 && opts.MaxSteps < total {
		total = opts.MaxSteps
	}
	for i, st := range s.Steps {
		if i >= total {
			f.PropagateStatus()
			res.Proven = f.IsFullyProven()
			return res, errors.Mark(errors.Newf("stopped after %d of %d steps", total, len(s.Steps)), ErrStepLimit)
		}
		idx := tm.Begin(strings.TrimSpace("step " + strconv.Itoa(i+1) + ": " + strings.ToLower(st.Tactic) + " " + st.Theorem))
		sr, err := s.step(ctx, f, reg, i, st, opts.Foundation)
		tm.End(idx, sr.Node.String())
		res.Steps = append(res.Steps, sr)
		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
		if err != nil {
			f.PropagateStatus()
			res.Proven = f.IsFullyProven()
			return res, err
		}
	}
	f.PropagateStatus()
	res.Proven = f.IsFullyProven()
	log.Info("script finished",
		zap.Int(logging.FieldStep, len(res.Steps)),
		zap.Bool("proven", res.Proven))
	return res, nil
}

func (s *Script) step(ctx context.Context, f *forest.Forest, reg *theory.Registry, i int, st StepSpec, fd tactic.Foundation) (StepResult, error) {
	where := indexPath("steps", i)
	sr := StepResult{Index: i, Tactic: st.Tactic}

	id := forest.NodeID(st.Node)
	if !id.IsValid() {
		open := f.OpenGoals()
		if len(open) == 0 {
			sr.Err = errors.Newf("%s: no open goals", where)
			return sr, sr.Err
		}
		id = open[0]
	}
	sr.Node = id

	var err error
	switch strings.ToLower(st.Tactic) {
	case "abandon":
		err = f.Abandon(id)
	case "disprove":
		var child forest.NodeID
		child, err = f.Disprove(id, "disprove", st.Reason)
		if err == nil {
			sr.Created = []forest.NodeID{child}
		}
	default:
		var t tactic.Tactic
		t, err = s.tactic(where, reg, st, fd)
		if err != nil {
			sr.Err = err
			return sr, err
		}
		sr.Tactic = t.Name()
		if _, ok := t.(tactic.Rewrite); ok {
			trace.Point(trace.FromContext(ctx), trace.ScopeRewrite, "rewrite", t.Name()+" at "+id.String(), trace.CurrentSpan(ctx))
		}
		sr.Created, err = f.ApplyTactic(ctx, id, t)
	}

	switch {
	case st.ExpectFail && err == nil:
		sr.Err = errors.Mark(errors.Newf("%s: %s succeeded", where, sr.Tactic), ErrUnexpectedPass)
		return sr, sr.Err
	case st.ExpectFail:
		sr.Err = err
		return sr, nil
	case err != nil:
		sr.Err = errors.Wrapf(err, "%s", where)
		return sr, sr.Err
	}
	return sr, nil
}

// tactic turns a step into a tactic value.
func (s *Script) tactic(where string, reg *theory.Registry, st StepSpec, fd tactic.Foundation) (tactic.Tactic, error) {
	switch strings.ToLower(st.Tactic) {
	case "intro":
		return tactic.AssumeImplication{Hyp: st.Hyp}, nil
	case "split":
		return tactic.SplitAnd{}, nil
	case "assumption":
		return tactic.Assumption{Foundation: fd}, nil
	case "trivial":
		return tactic.Trivial{Foundation: fd}, nil
	case "skip":
		return tactic.Func{Label: "skip", Fn: func(goal.Goal) tactic.Outcome { return tactic.NoChange() }}, nil
	case "rw", "rewrite":
		if st.Theorem == "" {
			return nil, badValue(where, "rewrite needs a theorem")
		}
		if _, err := reg.Lookup(st.Theorem); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s", where), ErrBadScript)
		}
		at := tactic.Location{Path: st.Path, Occurrence: st.Occurrence}
		return tactic.Rewrite{
			Theorems: reg,
			Theorem:  st.Theorem,
			At:       at,
			Hyp:      st.Hyp,
			Reverse:  st.Reverse,
			Bindings: st.Bind,
		}, nil
	case "":
		return nil, badValue(where, "missing tactic")
	default:
		return nil, errors.WithHint(badValue(where, "unknown tactic %q", st.Tactic),
			"known tactics: intro, split, assumption, trivial, rw, skip, abandon, disprove")
	}
}

// Check parses everything a run would need without applying any step.
func (s *Script) Check(base *theory.Registry) error {
	if base == nil {
		base = theory.Standard()
	}
	reg, err := s.Registry(base)
	if err != nil {
		return err
	}
	if _, err := s.BuildGoal(); err != nil {
		return err
	}
	for i, st := range s.Steps {
		switch strings.ToLower(st.Tactic) {
		case "abandon", "disprove":
			continue
		}
		if _, err := s.tactic(indexPath("steps", i), reg, st, nil); err != nil {
			return err
		}
	}
	return nil
}
