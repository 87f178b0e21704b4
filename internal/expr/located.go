package expr

import (
	"fmt"
	"sync/atomic"

	"prover/internal/ident"
)

// NodeID addresses one Located inside any expression tree.
type NodeID uint64

// NoNodeID marks the absence of a node.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

var lastNodeID atomic.Uint64

// nextNodeID is collision free for the lifetime of the process.
func nextNodeID() NodeID {
	return NodeID(lastNodeID.Add(1))
}

// Located is an addressable container: a concrete grammar value or a
// reference to a named meta-variable.
type Located[T any] struct {
	id    NodeID
	value T
	meta  ident.Ident // valid ⇔ placeholder
}

// Concrete wraps value under a fresh id.
func Concrete[T any](value T) Located[T] {
	return Located[T]{id: nextNodeID(), value: value}
}

// Meta creates a placeholder named name under a fresh id.
func Meta[T any](name ident.Ident) Located[T] {
	return Located[T]{id: nextNodeID(), meta: name}
}

// MetaNamed is Meta with interning of name.
func MetaNamed[T any](name string) Located[T] {
	return Meta[T](ident.New(name))
}

func (l Located[T]) ID() NodeID { return l.id }

// IsValid reports whether l was built by a constructor (the zero Located is not).
func (l Located[T]) IsValid() bool { return l.id != NoNodeID }

func (l Located[T]) IsMeta() bool { return l.meta.IsValid() }

// MetaName returns the placeholder name, NoIdent for concrete nodes.
func (l Located[T]) MetaName() ident.Ident { return l.meta }

// Value returns the concrete payload; placeholders yield the zero value.
func (l Located[T]) Value() T { return l.value }

// ConcreteValue returns the payload and whether l is concrete.
func (l Located[T]) ConcreteValue() (T, bool) {
	if l.IsMeta() {
		var zero T
		return zero, false
	}
	return l.value, true
}

// WithValue is a true mutation: the result is concrete and gets a new id.
func (l Located[T]) WithValue(value T) Located[T] {
	return Concrete(value)
}

func (l Located[T]) String() string {
	if l.IsMeta() {
		return "?" + l.meta.Name()
	}
	return fmt.Sprint(l.value)
}

// Equal compares payloads and ignores ids.
func Equal[T Grammar[T]](a, b Located[T]) bool {
	if a.IsMeta() || b.IsMeta() {
		return a.meta == b.meta
	}
	return a.value.Equal(b.value)
}

func equalSlices[T Grammar[T]](a, b []Located[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalPtr[T Grammar[T]](a, b *Located[T]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(*a, *b)
}
