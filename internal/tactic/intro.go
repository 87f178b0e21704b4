package tactic

import (
	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/goal"
)

// AssumeImplication turns ⊢ p → q into H : p ⊢ q. Hyp is the preferred
// hypothesis name ("H" when empty); a numeric suffix is added on clashes.
type AssumeImplication struct {
	Hyp string
}

func (AssumeImplication) Name() string { return "intro" }

func (t AssumeImplication) Apply(g goal.Goal) Outcome {
	r, ok := g.Statement().ConcreteValue()
	if !ok || r.Kind != expr.RelImplies || len(r.Parts) != 2 {
		return Error(errors.WithHint(
			errors.Newf("statement %s is not an implication", g.Statement()),
			"intro applies to goals of the form p → q"))
	}
	base := t.Hyp
	if base == "" {
		base = "H"
	}
	name := g.Context().FreshName(base)
	next, _ := g.WithEntry(goal.Entry{
		Kind: goal.EntryHypothesis,
		Name: name,
		Prop: r.Parts[0],
		Type: expr.PropType(),
	})
	return Single(next.WithStatement(r.Parts[1]))
}

// SplitAnd turns ⊢ p₁ ∧ … ∧ pₙ into n goals sharing the context.
type SplitAnd struct{}

func (SplitAnd) Name() string { return "split" }

func (SplitAnd) Apply(g goal.Goal) Outcome {
	r, ok := g.Statement().ConcreteValue()
	if !ok || r.Kind != expr.RelAnd || len(r.Parts) < 2 {
		return Errorf("statement %s is not a conjunction", g.Statement())
	}
	goals := make([]goal.Goal, len(r.Parts))
	for i, p := range r.Parts {
		goals[i] = g.WithStatement(p)
	}
	return Multi(goals...)
}
