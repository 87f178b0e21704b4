package rewrite

import (
	"prover/internal/expr"
	"prover/internal/ident"
)

// Scope answers whether a name is declared.
type Scope interface {
	Has(name ident.Ident) bool
}

// Env carries the naming context of a rewrite.
//
// Params is the pattern's context (typically the parameters of a theorem).
// Concrete variables of the pattern and the replacement whose names it
// declares behave as placeholders. A nil Params disables this.
type Env struct {
	Params Scope
}

// Names is a Scope over a fixed list of names.
type Names []ident.Ident

func (ns Names) Has(name ident.Ident) bool {
	for _, n := range ns {
		if n == name {
			return true
		}
	}
	return false
}

// param returns the placeholder name a Term stands for under env.
func (env Env) param(n expr.Located[expr.Term]) (ident.Ident, bool) {
	if n.IsMeta() {
		return n.MetaName(), true
	}
	if env.Params == nil {
		return ident.NoIdent, false
	}
	t := n.Value()
	if t.Kind == expr.TermVar && env.Params.Has(t.Name) {
		return t.Name, true
	}
	return ident.NoIdent, false
}
