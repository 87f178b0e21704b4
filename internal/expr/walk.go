package expr

import "prover/internal/ident"

// Index maps node ids to the sub-expressions of one tree, per grammar.
type Index struct {
	terms     map[NodeID]Located[Term]
	relations map[NodeID]Located[Relation]
	types     map[NodeID]Located[TypeExpr]
}

func newIndex() *Index {
	return &Index{
		terms:     make(map[NodeID]Located[Term]),
		relations: make(map[NodeID]Located[Relation]),
		types:     make(map[NodeID]Located[TypeExpr]),
	}
}

// BuildIndex records every node reachable from root, placeholders included.
func BuildIndex[T Grammar[T]](root Located[T]) *Index {
	idx := newIndex()
	v := &Visitor{}
	v.Term = func(n Located[Term]) { record(idx, v, n) }
	v.Relation = func(n Located[Relation]) { record(idx, v, n) }
	v.Type = func(n Located[TypeExpr]) { record(idx, v, n) }
	VisitWith(v, root)
	return idx
}

func record[T Grammar[T]](idx *Index, v *Visitor, n Located[T]) {
	var zero T
	zero.indexSlot(idx)[n.ID()] = n
	if !n.IsMeta() {
		n.value.VisitChildren(v)
	}
}

// Lookup returns the node with the given id if it belongs to grammar T.
func Lookup[T Grammar[T]](idx *Index, id NodeID) (Located[T], bool) {
	if idx == nil {
		return Located[T]{}, false
	}
	var zero T
	n, ok := zero.indexSlot(idx)[id]
	return n, ok
}

// Has reports whether id occurs in the indexed tree, whatever its grammar.
func (idx *Index) Has(id NodeID) bool {
	if idx == nil {
		return false
	}
	if _, ok := idx.terms[id]; ok {
		return true
	}
	if _, ok := idx.relations[id]; ok {
		return true
	}
	_, ok := idx.types[id]
	return ok
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.terms) + len(idx.relations) + len(idx.types)
}

// Find looks id up inside root. It builds a fresh index; callers doing
// repeated lookups should keep their own Index.
func Find[T Grammar[T], R Grammar[R]](root Located[R], id NodeID) (Located[T], bool) {
	return Lookup[T](BuildIndex(root), id)
}

// Contains reports whether id occurs anywhere inside root.
func Contains[R Grammar[R]](root Located[R], id NodeID) bool {
	return BuildIndex(root).Has(id)
}

// Refresh deep-copies n giving every node a fresh id.
func Refresh[T Grammar[T]](n Located[T]) Located[T] {
	m := &Mapper{}
	m.Term = func(x Located[Term]) (Located[Term], bool) { return refreshNode(m, x), true }
	m.Relation = func(x Located[Relation]) (Located[Relation], bool) { return refreshNode(m, x), true }
	m.Type = func(x Located[TypeExpr]) (Located[TypeExpr], bool) { return refreshNode(m, x), true }
	return refreshNode(m, n)
}

func refreshNode[T Grammar[T]](m *Mapper, n Located[T]) Located[T] {
	if n.IsMeta() {
		return Meta[T](n.meta)
	}
	if !n.IsValid() {
		return n
	}
	v, _ := n.value.MapChildren(m)
	return Concrete(v)
}

// Metas lists placeholder names in pre-order, without duplicates.
func Metas[T Grammar[T]](n Located[T]) []ident.Ident {
	seen := ident.NewSet()
	v := &Visitor{}
	v.Term = func(x Located[Term]) { collectMeta(seen, v, x) }
	v.Relation = func(x Located[Relation]) { collectMeta(seen, v, x) }
	v.Type = func(x Located[TypeExpr]) { collectMeta(seen, v, x) }
	VisitWith(v, n)
	return seen.Items()
}

func collectMeta[T Grammar[T]](seen *ident.Set, v *Visitor, n Located[T]) {
	if n.IsMeta() {
		seen.Add(n.meta)
		return
	}
	n.value.VisitChildren(v)
}

// Size counts the nodes of n.
func Size[T Grammar[T]](n Located[T]) int {
	return BuildIndex(n).Len()
}

// Occurrences returns, in pre-order, the ids of grammar-T nodes inside root
// accepted by keep.
func Occurrences[T Grammar[T], R Grammar[R]](root Located[R], keep func(Located[T]) bool) []NodeID {
	var out []NodeID
	v := &Visitor{}
	v.Term = func(x Located[Term]) { walkNode(v, x) }
	v.Relation = func(x Located[Relation]) { walkNode(v, x) }
	v.Type = func(x Located[TypeExpr]) { walkNode(v, x) }
	OnVisit(v, func(x Located[T]) {
		if keep == nil || keep(x) {
			out = append(out, x.ID())
		}
		walkNode(v, x)
	})
	VisitWith(v, root)
	return out
}

func walkNode[T Grammar[T]](v *Visitor, n Located[T]) {
	if !n.IsMeta() {
		n.value.VisitChildren(v)
	}
}

// cursor is a grammar-erased view of one node, used for path addressing.
type cursor struct {
	id   NodeID
	kids func() []cursor
}

func cursorOf[T Grammar[T]](n Located[T]) cursor {
	return cursor{id: n.ID(), kids: func() []cursor { return childCursors(n) }}
}

func childCursors[T Grammar[T]](n Located[T]) []cursor {
	if n.IsMeta() {
		return nil
	}
	var out []cursor
	v := &Visitor{
		Term:     func(x Located[Term]) { out = append(out, cursorOf(x)) },
		Relation: func(x Located[Relation]) { out = append(out, cursorOf(x)) },
		Type:     func(x Located[TypeExpr]) { out = append(out, cursorOf(x)) },
	}
	n.value.VisitChildren(v)
	return out
}

// Children returns the ids of the direct children of n in visiting order.
func Children[T Grammar[T]](n Located[T]) []NodeID {
	kids := childCursors(n)
	ids := make([]NodeID, len(kids))
	for i, k := range kids {
		ids[i] = k.id
	}
	return ids
}

// At follows path (child indices in visiting order) from root. An empty
// path addresses root itself.
func At[T Grammar[T]](root Located[T], path []int) (NodeID, bool) {
	cur := cursorOf(root)
	for _, step := range path {
		kids := cur.kids()
		if step < 0 || step >= len(kids) {
			return NoNodeID, false
		}
		cur = kids[step]
	}
	return cur.id, true
}

// PathOf is the inverse of At.
func PathOf[T Grammar[T]](root Located[T], id NodeID) ([]int, bool) {
	var path []int
	var search func(c cursor) bool
	search = func(c cursor) bool {
		if c.id == id {
			return true
		}
		for i, k := range c.kids() {
			path = append(path, i)
			if search(k) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !search(cursorOf(root)) {
		return nil, false
	}
	return path, true
}
