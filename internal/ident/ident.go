// Package ident provides interned names shared by expressions, goals and
// bindings.
//
// An Ident is a comparable handle: two identifiers are equal exactly when
// their (NFC-normalised) names are equal, so they can be used as map keys
// without carrying a separate interner around.
package ident

import (
	"strconv"
	"strings"
	"unique"

	"golang.org/x/text/unicode/norm"
)

// Ident is an interned name.
type Ident struct {
	h unique.Handle[string]
}

// NoIdent is the zero identifier; it never names anything.
var NoIdent Ident

// New interns name. The empty string yields NoIdent.
func New(name string) Ident {
	if name == "" {
		return NoIdent
	}
	return Ident{h: unique.Make(norm.NFC.String(name))}
}

// Name returns the interned text, "" for NoIdent.
func (id Ident) Name() string {
	if id == NoIdent {
		return ""
	}
	return id.h.Value()
}

func (id Ident) IsValid() bool { return id != NoIdent }

func (id Ident) String() string { return id.Name() }

// MarshalText lets identifiers act as map keys in encoded snapshots.
func (id Ident) MarshalText() ([]byte, error) {
	return []byte(id.Name()), nil
}

func (id *Ident) UnmarshalText(b []byte) error {
	*id = New(string(b))
	return nil
}

// Less orders identifiers by name; used for deterministic output.
func Less(a, b Ident) bool {
	return a.Name() < b.Name()
}

// Fresh returns base if taken reports it unused, otherwise the first of
// base1, base2, ... that is free.
func Fresh(base string, taken func(Ident) bool) Ident {
	base = strings.TrimRightFunc(base, isDigit)
	if base == "" {
		base = "x"
	}
	cand := New(base)
	if taken == nil || !taken(cand) {
		return cand
	}
	for i := 1; ; i++ {
		cand = New(base + strconv.Itoa(i))
		if !taken(cand) {
			return cand
		}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
