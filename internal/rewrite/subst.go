package rewrite

import (
	"prover/internal/expr"
	"prover/internal/ident"
)

// Substitute applies b to replacement. A bound placeholder whose target is
// a node id is replaced by a fresh copy of the node with that id inside
// target; one bound to an identifier becomes a fresh placeholder (or, for a
// parameter variable, a variable) of that name. Subtrees without bound
// placeholders are returned as is, ids included. Unbound placeholders, and
// node targets that do not resolve to a node of the right grammar, are left
// untouched.
func Substitute[P expr.Grammar[P], R expr.Grammar[R]](replacement expr.Located[P], b Binding, target expr.Located[R], env Env) expr.Located[P] {
	s := newSubstituter(b, env, func() *expr.Index { return expr.BuildIndex(target) })
	out, _ := expr.MapWith(&s.mapper, replacement)
	return out
}

type substituter struct {
	binding Binding
	env     Env
	mapper  expr.Mapper

	buildIndex func() *expr.Index
	index      *expr.Index
}

func newSubstituter(b Binding, env Env, buildIndex func() *expr.Index) *substituter {
	s := &substituter{binding: b, env: env, buildIndex: buildIndex}
	s.mapper.Term = s.term
	s.mapper.Relation = func(n expr.Located[expr.Relation]) (expr.Located[expr.Relation], bool) {
		return substNode(s, n)
	}
	s.mapper.Type = func(n expr.Located[expr.TypeExpr]) (expr.Located[expr.TypeExpr], bool) {
		return substNode(s, n)
	}
	return s
}

func (s *substituter) targetIndex() *expr.Index {
	if s.index == nil {
		s.index = s.buildIndex()
	}
	return s.index
}

func (s *substituter) term(n expr.Located[expr.Term]) (expr.Located[expr.Term], bool) {
	if name, ok := s.env.param(n); ok && !n.IsMeta() {
		return resolve(s, name, n, expr.VarIdent)
	}
	return substNode(s, n)
}

func substNode[T expr.Grammar[T]](s *substituter, n expr.Located[T]) (expr.Located[T], bool) {
	if n.IsMeta() {
		return resolve(s, n.MetaName(), n, expr.Meta[T])
	}
	v, changed := n.Value().MapChildren(&s.mapper)
	if !changed {
		return n, false
	}
	return expr.Concrete(v), true
}

func resolve[T expr.Grammar[T]](s *substituter, name ident.Ident, orig expr.Located[T], fromIdent func(ident.Ident) expr.Located[T]) (expr.Located[T], bool) {
	tgt, ok := s.binding.Get(name)
	switch {
	case !ok:
		return orig, false
	case tgt.IsNode():
		found, ok := expr.Lookup[T](s.targetIndex(), tgt.Node)
		if !ok {
			return orig, false
		}
		return expr.Refresh(found), true
	case tgt.IsIdent():
		return fromIdent(tgt.Ident), true
	}
	return orig, false
}
