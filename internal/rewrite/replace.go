package rewrite

import "prover/internal/expr"

// Replace rewrites the single node of root whose id is targetID: the node
// is matched against pattern, manual bindings are merged over the inferred
// ones (manual wins), and the result of substituting into replacement takes
// its place.
//
// Only the path from root to the target is rebuilt; those nodes get fresh
// ids. Every other subtree is returned untouched. When targetID does not
// occur in root, or names a node of another grammar than P, root is returned
// unchanged.
func Replace[R expr.Grammar[R], P expr.Grammar[P]](root expr.Located[R], targetID expr.NodeID, pattern, replacement expr.Located[P], manual Binding, env Env) expr.Located[R] {
	out, _ := TryReplace(root, targetID, pattern, replacement, manual, env)
	return out
}

// TryReplace is Replace that also reports whether the target was found.
func TryReplace[R expr.Grammar[R], P expr.Grammar[P]](root expr.Located[R], targetID expr.NodeID, pattern, replacement expr.Located[P], manual Binding, env Env) (expr.Located[R], bool) {
	if !targetID.IsValid() {
		return root, false
	}
	p := &patcher{target: targetID}
	p.mapper.Term = func(n expr.Located[expr.Term]) (expr.Located[expr.Term], bool) { return descend(p, n) }
	p.mapper.Relation = func(n expr.Located[expr.Relation]) (expr.Located[expr.Relation], bool) { return descend(p, n) }
	p.mapper.Type = func(n expr.Located[expr.TypeExpr]) (expr.Located[expr.TypeExpr], bool) { return descend(p, n) }
	expr.OnMap(&p.mapper, func(n expr.Located[P]) (expr.Located[P], bool) {
		if p.found || n.ID() != targetID {
			return descend(p, n)
		}
		p.found = true
		return rewriteAt(n, pattern, replacement, manual, env), true
	})
	out, changed := expr.MapWith(&p.mapper, root)
	if !changed {
		return root, p.found
	}
	return out, p.found
}

// RewriteAt is the rewrite Replace performs at its target, usable directly
// when the caller already holds the node.
func RewriteAt[P expr.Grammar[P]](node, pattern, replacement expr.Located[P], manual Binding, env Env) expr.Located[P] {
	return rewriteAt(node, pattern, replacement, manual, env)
}

func rewriteAt[P expr.Grammar[P]](node, pattern, replacement expr.Located[P], manual Binding, env Env) expr.Located[P] {
	inferred := Instantiate(node, pattern, env)
	merged := Merge(inferred, manual)
	// свежие id: одна и та же замена может вставляться несколько раз
	return expr.Refresh(Substitute(replacement, merged, node, env))
}

type patcher struct {
	target expr.NodeID
	found  bool
	mapper expr.Mapper
}

func descend[T expr.Grammar[T]](p *patcher, n expr.Located[T]) (expr.Located[T], bool) {
	if p.found || n.IsMeta() {
		return n, false
	}
	v, changed := n.Value().MapChildren(&p.mapper)
	if !changed {
		return n, false
	}
	return expr.Concrete(v), true
}
