package ident

import "slices"

// Set is an insertion-ordered set of identifiers.
type Set struct {
	order []Ident
	index map[Ident]struct{}
}

func NewSet(ids ...Ident) *Set {
	s := &Set{index: make(map[Ident]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add вставляет идентификатор; возвращает false, если он уже был.
func (s *Set) Add(id Ident) bool {
	if s.index == nil {
		s.index = make(map[Ident]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Has reports membership. A nil set is empty.
func (s *Set) Has(id Ident) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Items returns a copy in insertion order.
func (s *Set) Items() []Ident {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}
