package tactic

import (
	"prover/internal/expr"
	"prover/internal/goal"
)

// Assumption closes a goal whose statement is one of its hypotheses.
type Assumption struct {
	Foundation Foundation
}

func (Assumption) Name() string { return "assumption" }

func (t Assumption) Apply(g goal.Goal) Outcome {
	for _, h := range g.Context().Hypotheses() {
		if !expr.Equal(h.Prop, g.Statement()) {
			continue
		}
		out := Complete()
		if t.Foundation != nil {
			out = out.WithProof(t.Foundation.Combine("assumption", t.Foundation.PropositionType(h.Prop)))
		}
		return out
	}
	return Errorf("no hypothesis matches %s", g.Statement())
}

// Trivial closes ⊤, t = t, and p ↔ p.
type Trivial struct {
	Foundation Foundation
}

func (Trivial) Name() string { return "trivial" }

func (t Trivial) Apply(g goal.Goal) Outcome {
	stmt := g.Statement()
	rule, ok := trivialRule(stmt)
	if !ok {
		return Errorf("%s is not trivially true", stmt)
	}
	out := Complete()
	if t.Foundation != nil {
		out = out.WithProof(t.Foundation.Combine(rule, t.Foundation.PropositionType(stmt)))
	}
	return out
}

func trivialRule(stmt expr.Located[expr.Relation]) (string, bool) {
	r, ok := stmt.ConcreteValue()
	if !ok {
		return "", false
	}
	switch r.Kind {
	case expr.RelTrue:
		return "true_intro", true
	case expr.RelEqual:
		if len(r.Terms) == 2 && expr.Equal(r.Terms[0], r.Terms[1]) {
			return "refl", true
		}
	case expr.RelIff:
		if len(r.Parts) == 2 && expr.Equal(r.Parts[0], r.Parts[1]) {
			return "iff_refl", true
		}
	}
	return "", false
}
