package expr

import "fmt"

// Grammar is satisfied by Term, Relation and TypeExpr only; the unexported
// slot methods keep the set closed.
type Grammar[T any] interface {
	fmt.Stringer
	// Equal is payload equality; ids are ignored.
	Equal(other T) bool
	// MapChildren passes every direct child through m and rebuilds the value.
	// The flag reports whether any child changed; when false the receiver is
	// returned as is.
	MapChildren(m *Mapper) (T, bool)
	// ZipChildren pairs the direct children of the receiver with those of
	// other. It returns false without calling z when the variants differ.
	ZipChildren(other T, z *Zipper) bool
	// VisitChildren calls v for every direct child in order.
	VisitChildren(v *Visitor)

	mapSlot(m *Mapper) *func(Located[T]) (Located[T], bool)
	zipSlot(z *Zipper) *func(a, b Located[T])
	visitSlot(v *Visitor) *func(Located[T])
	indexSlot(idx *Index) map[NodeID]Located[T]
	toDoc() Doc
	fromDoc(d Doc) (T, error)
}

// Mapper holds one rebuild function per grammar. A nil slot leaves children
// of that grammar untouched.
type Mapper struct {
	Term     func(Located[Term]) (Located[Term], bool)
	Relation func(Located[Relation]) (Located[Relation], bool)
	Type     func(Located[TypeExpr]) (Located[TypeExpr], bool)
}

// Zipper holds one pairing function per grammar.
type Zipper struct {
	Term     func(a, b Located[Term])
	Relation func(a, b Located[Relation])
	Type     func(a, b Located[TypeExpr])
}

// Visitor holds one callback per grammar.
type Visitor struct {
	Term     func(Located[Term])
	Relation func(Located[Relation])
	Type     func(Located[TypeExpr])
}

// OnMap installs f in the slot of m that belongs to T.
func OnMap[T Grammar[T]](m *Mapper, f func(Located[T]) (Located[T], bool)) {
	var zero T
	*zero.mapSlot(m) = f
}

// OnZip installs f in the slot of z that belongs to T.
func OnZip[T Grammar[T]](z *Zipper, f func(a, b Located[T])) {
	var zero T
	*zero.zipSlot(z) = f
}

// OnVisit installs f in the slot of v that belongs to T.
func OnVisit[T Grammar[T]](v *Visitor, f func(Located[T])) {
	var zero T
	*zero.visitSlot(v) = f
}

// MapWith runs the slot of m for T on n itself (not only its children).
func MapWith[T Grammar[T]](m *Mapper, n Located[T]) (Located[T], bool) {
	var zero T
	f := *zero.mapSlot(m)
	if f == nil {
		return n, false
	}
	return f(n)
}

// ZipWith runs the slot of z for T on the pair (a, b).
func ZipWith[T Grammar[T]](z *Zipper, a, b Located[T]) {
	var zero T
	if f := *zero.zipSlot(z); f != nil {
		f(a, b)
	}
}

// VisitWith runs the slot of v for T on n.
func VisitWith[T Grammar[T]](v *Visitor, n Located[T]) {
	var zero T
	if f := *zero.visitSlot(v); f != nil {
		f(n)
	}
}

func mapOne[T Grammar[T]](m *Mapper, n Located[T]) (Located[T], bool) {
	if m == nil {
		return n, false
	}
	return MapWith(m, n)
}

// mapSlice allocates a new slice only when some element changed.
func mapSlice[T Grammar[T]](m *Mapper, xs []Located[T]) ([]Located[T], bool) {
	var out []Located[T]
	for i, x := range xs {
		y, changed := mapOne(m, x)
		if !changed {
			if out != nil {
				out[i] = x
			}
			continue
		}
		if out == nil {
			out = make([]Located[T], len(xs))
			copy(out, xs[:i])
		}
		out[i] = y
	}
	if out == nil {
		return xs, false
	}
	return out, true
}

func mapPtr[T Grammar[T]](m *Mapper, p *Located[T]) (*Located[T], bool) {
	if p == nil {
		return nil, false
	}
	y, changed := mapOne(m, *p)
	if !changed {
		return p, false
	}
	return &y, true
}

func zipSlices[T Grammar[T]](z *Zipper, a, b []Located[T]) {
	for i := range a {
		ZipWith(z, a[i], b[i])
	}
}

func zipPtr[T Grammar[T]](z *Zipper, a, b *Located[T]) {
	if a != nil && b != nil {
		ZipWith(z, *a, *b)
	}
}

func visitSlice[T Grammar[T]](v *Visitor, xs []Located[T]) {
	for _, x := range xs {
		VisitWith(v, x)
	}
}

func visitPtr[T Grammar[T]](v *Visitor, p *Located[T]) {
	if p != nil {
		VisitWith(v, *p)
	}
}

func ptrShape[T any](a, b *Located[T]) bool {
	return (a == nil) == (b == nil)
}
