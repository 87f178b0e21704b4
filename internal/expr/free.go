package expr

import "prover/internal/ident"

// FreeVars lists object variables (TermVar names) of n that are not bound
// by a set-builder or quantifier inside n. Predicate and function names are
// not variables.
func FreeVars[T Grammar[T]](n Located[T]) []ident.Ident {
	f := &freeVars{out: ident.NewSet(), bound: map[ident.Ident]int{}}
	f.v.Term = f.term
	f.v.Relation = f.relation
	f.v.Type = func(x Located[TypeExpr]) { walkNode(&f.v, x) }
	VisitWith(&f.v, n)
	return f.out.Items()
}

type freeVars struct {
	v     Visitor
	out   *ident.Set
	bound map[ident.Ident]int
}

func (f *freeVars) term(n Located[Term]) {
	t, ok := n.ConcreteValue()
	if !ok {
		return
	}
	switch t.Kind {
	case TermVar:
		if f.bound[t.Name] == 0 {
			f.out.Add(t.Name)
		}
	case TermSetBuilder:
		visitPtr(&f.v, t.Domain)
		f.bound[t.Name]++
		visitPtr(&f.v, t.Cond)
		f.bound[t.Name]--
	default:
		t.VisitChildren(&f.v)
	}
}

func (f *freeVars) relation(n Located[Relation]) {
	r, ok := n.ConcreteValue()
	if !ok {
		return
	}
	if !r.Kind.IsQuantifier() {
		r.VisitChildren(&f.v)
		return
	}
	visitPtr(&f.v, r.Domain)
	f.bound[r.Name]++
	visitSlice(&f.v, r.Parts)
	f.bound[r.Name]--
}
