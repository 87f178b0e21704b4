// Package theory holds named theorem schemas and the registry tactics look
// them up in. A registry is an explicit value handed to whoever needs it.
package theory

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/goal"
	"prover/internal/ident"
	"prover/internal/rewrite"
)

var (
	ErrDuplicate = errors.New("theorem already registered")
	ErrUnknown   = errors.New("unknown theorem")
	ErrNotARule  = errors.New("theorem conclusion is not an equation or equivalence")
)

// Theorem is a schema: Params act as placeholders when the conclusion is
// used as a rewrite rule. Hypotheses become side conditions.
type Theorem struct {
	Name        string
	Params      goal.Context
	Hypotheses  []expr.Located[expr.Relation]
	Conclusion  expr.Located[expr.Relation]
	Description string
}

// Env is the rewrite environment in which the theorem's parameters are
// placeholders.
func (th Theorem) Env() rewrite.Env {
	return rewrite.Env{Params: th.Params}
}

// TermRule returns the sides of an equational conclusion.
func (th Theorem) TermRule() (lhs, rhs expr.Located[expr.Term], ok bool) {
	r, isConcrete := th.Conclusion.ConcreteValue()
	if !isConcrete || r.Kind != expr.RelEqual || len(r.Terms) != 2 {
		return lhs, rhs, false
	}
	return r.Terms[0], r.Terms[1], true
}

// RelationRule returns the sides of an equivalence.
func (th Theorem) RelationRule() (lhs, rhs expr.Located[expr.Relation], ok bool) {
	r, isConcrete := th.Conclusion.ConcreteValue()
	if !isConcrete || r.Kind != expr.RelIff || len(r.Parts) != 2 {
		return lhs, rhs, false
	}
	return r.Parts[0], r.Parts[1], true
}

func (th Theorem) String() string {
	var sb strings.Builder
	sb.WriteString(th.Name)
	if th.Params.Len() > 0 {
		sb.WriteString(" (")
		for i, e := range th.Params.Entries() {
			if i > 0 {
				sb.WriteString(") (")
			}
			sb.WriteString(e.String())
		}
		sb.WriteString(")")
	}
	sb.WriteString(" : ")
	for _, h := range th.Hypotheses {
		sb.WriteString(h.String())
		sb.WriteString(" ⇒ ")
	}
	sb.WriteString(th.Conclusion.String())
	return sb.String()
}

// Registry maps theorem names to schemas. It is not safe for concurrent
// mutation; build it once and share it read-only.
type Registry struct {
	byName map[string]Theorem
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Theorem)}
}

func (r *Registry) Register(th Theorem) error {
	if th.Name == "" {
		return errors.New("theorem without a name")
	}
	if _, ok := r.byName[th.Name]; ok {
		return errors.Wrapf(ErrDuplicate, "%q", th.Name)
	}
	if !th.Conclusion.IsValid() {
		return errors.Newf("theorem %q has no conclusion", th.Name)
	}
	r.byName[th.Name] = th
	r.order = append(r.order, th.Name)
	return nil
}

func (r *Registry) MustRegister(th Theorem) {
	if err := r.Register(th); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (Theorem, error) {
	if r == nil {
		return Theorem{}, errors.Wrapf(ErrUnknown, "%q (no registry)", name)
	}
	th, ok := r.byName[name]
	if !ok {
		return Theorem{}, errors.WithHint(errors.Wrapf(ErrUnknown, "%q", name),
			"see `prover show --theorems` for the available names")
	}
	return th, nil
}

// Names returns registered names sorted alphabetically.
func (r *Registry) Names() []string {
	out := slices.Clone(r.order)
	slices.Sort(out)
	return out
}

func (r *Registry) Len() int { return len(r.order) }

// Clone returns an independent registry with the same theorems, so a
// session can add its own lemmas without touching the shared catalog.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	if r == nil {
		return out
	}
	for _, name := range r.order {
		out.byName[name] = r.byName[name]
	}
	out.order = slices.Clone(r.order)
	return out
}

// params declares names of one type, in order.
func params(ty func() expr.Located[expr.TypeExpr], names ...string) goal.Context {
	var c goal.Context
	for _, n := range names {
		c = c.With(goal.Entry{Kind: goal.EntryVariable, Name: ident.New(n), Type: ty()})
	}
	return c
}
