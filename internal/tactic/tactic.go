package tactic

import "prover/internal/goal"

// Tactic transforms one goal. Apply must not retain or mutate g.
type Tactic interface {
	Name() string
	Apply(g goal.Goal) Outcome
}

// Func adapts a plain function.
type Func struct {
	Label string
	Fn    func(goal.Goal) Outcome
}

func (f Func) Name() string {
	if f.Label == "" {
		return "func"
	}
	return f.Label
}

func (f Func) Apply(g goal.Goal) Outcome {
	if f.Fn == nil {
		return Errorf("tactic %s has no body", f.Name())
	}
	return f.Fn(g)
}
