package rewrite

import (
	"prover/internal/expr"
	"prover/internal/ident"
)

// Instantiate matches target against pattern and returns the binding of the
// pattern's placeholders to target identities:
//
//   - placeholder vs concrete node: bound to the node id;
//   - placeholder vs placeholder: bound to the target's name;
//   - concrete vs concrete of the same variant: children are matched
//     pairwise and the results united, later positions overwriting earlier
//     ones;
//   - differing variants, or a concrete pattern against a placeholder,
//     contribute nothing.
//
// Only ids and names are stored; no structure is copied.
func Instantiate[T expr.Grammar[T]](target, pattern expr.Located[T], env Env) Binding {
	b, _ := Match(target, pattern, env)
	return b
}

// Match is Instantiate that also reports whether the pattern matched at
// every position, with repeated placeholders bound to equal structure.
func Match[T expr.Grammar[T]](target, pattern expr.Located[T], env Env) (Binding, bool) {
	m := newMatcher(env, func() *expr.Index { return expr.BuildIndex(target) })
	expr.ZipWith(&m.zip, target, pattern)
	return m.binding, m.ok
}

type matcher struct {
	env     Env
	binding Binding
	ok      bool
	zip     expr.Zipper

	buildIndex func() *expr.Index
	index      *expr.Index
}

func newMatcher(env Env, buildIndex func() *expr.Index) *matcher {
	m := &matcher{env: env, ok: true, buildIndex: buildIndex}
	m.zip.Term = m.term
	m.zip.Relation = func(t, p expr.Located[expr.Relation]) { matchNode(m, t, p) }
	m.zip.Type = func(t, p expr.Located[expr.TypeExpr]) { matchNode(m, t, p) }
	return m
}

func (m *matcher) term(target, pattern expr.Located[expr.Term]) {
	if name, ok := m.env.param(pattern); ok && !pattern.IsMeta() {
		bindTo(m, name, target)
		return
	}
	matchNode(m, target, pattern)
}

func matchNode[T expr.Grammar[T]](m *matcher, target, pattern expr.Located[T]) {
	switch {
	case pattern.IsMeta():
		bindTo(m, pattern.MetaName(), target)
	case target.IsMeta():
		m.ok = false
	default:
		if !target.Value().ZipChildren(pattern.Value(), &m.zip) {
			m.ok = false
		}
	}
}

func bindTo[T expr.Grammar[T]](m *matcher, name ident.Ident, target expr.Located[T]) {
	t := NodeTarget(target.ID())
	if target.IsMeta() {
		t = IdentTarget(target.MetaName())
	}
	if prev, ok := m.binding.Get(name); ok && prev != t && !consistent(m, prev, target) {
		m.ok = false
	}
	m.binding.Bind(name, t)
}

// consistent reports whether target is structurally what prev already
// points at. Rebinding x from one `a` to another `a` is fine.
func consistent[T expr.Grammar[T]](m *matcher, prev Target, target expr.Located[T]) bool {
	if prev.IsIdent() || target.IsMeta() {
		return prev.IsIdent() && target.IsMeta() && prev.Ident == target.MetaName()
	}
	if m.index == nil {
		m.index = m.buildIndex()
	}
	old, ok := expr.Lookup[T](m.index, prev.Node)
	return ok && expr.Equal(old, target)
}
