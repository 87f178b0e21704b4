package ident

import "testing"

func TestNewInternsByName(t *testing.T) {
	a := New("alpha")
	b := New("alp" + "ha")
	if a != b {
		t.Fatalf("identifiers with equal names must be equal")
	}
	if a == New("beta") {
		t.Fatalf("different names must differ")
	}
	if New("") != NoIdent || NoIdent.IsValid() {
		t.Fatalf("empty name must map to NoIdent")
	}
}

func TestNewNormalizesUnicode(t *testing.T) {
	composed := New("\u00e9")
	decomposed := New("e\u0301")
	if composed != decomposed {
		t.Fatalf("NFC forms must intern to the same identifier")
	}
}

func TestFresh(t *testing.T) {
	used := NewSet(New("H"), New("H1"))
	got := Fresh("H", used.Has)
	if got.Name() != "H2" {
		t.Fatalf("expected H2, got %s", got)
	}
	if got := Fresh("x", used.Has); got.Name() != "x" {
		t.Fatalf("unused base must be returned as is, got %s", got)
	}
	if got := Fresh("H7", used.Has); got.Name() != "H2" {
		t.Fatalf("numeric suffix of base must be stripped, got %s", got)
	}
}

func TestSetKeepsOrder(t *testing.T) {
	s := NewSet(New("b"), New("a"), New("b"))
	items := s.Items()
	if len(items) != 2 || items[0].Name() != "b" || items[1].Name() != "a" {
		t.Fatalf("unexpected order: %v", items)
	}
	var nilSet *Set
	if nilSet.Has(New("a")) || nilSet.Len() != 0 {
		t.Fatalf("nil set must be empty")
	}
}
