// Package goal holds proof obligations: an ordered context of declarations,
// a prenex quantifier list and the statement to prove.
//
// Values are immutable. Every With* builder returns a new Goal and leaves
// the receiver intact, so a goal captured by a proof node never changes.
package goal

import (
	"fmt"
	"slices"
	"strings"

	"prover/internal/expr"
	"prover/internal/ident"
)

// EntryKind classifies context entries.
type EntryKind uint8

const (
	EntryInvalid EntryKind = iota
	EntryVariable
	EntryHypothesis
	EntryDefinition
)

func (k EntryKind) String() string {
	switch k {
	case EntryVariable:
		return "variable"
	case EntryHypothesis:
		return "hypothesis"
	case EntryDefinition:
		return "definition"
	default:
		return "invalid"
	}
}

// Entry is one declaration of a context. Variables and definitions are
// classified by Type, hypotheses by Prop. Def is set only for definitions
// (transparent local abbreviations).
type Entry struct {
	Kind        EntryKind
	Name        ident.Ident
	Type        expr.Located[expr.TypeExpr]
	Prop        expr.Located[expr.Relation]
	Def         *expr.Located[expr.Term]
	Description string
}

func (e Entry) String() string {
	switch e.Kind {
	case EntryHypothesis:
		return e.Name.Name() + " : " + e.Prop.String()
	case EntryDefinition:
		s := e.Name.Name() + " : " + e.Type.String()
		if e.Def != nil {
			s += " := " + e.Def.String()
		}
		return s
	default:
		return e.Name.Name() + " : " + e.Type.String()
	}
}

// Equal compares entries structurally, ignoring node ids.
func (e Entry) Equal(o Entry) bool {
	if e.Kind != o.Kind || e.Name != o.Name || e.Description != o.Description {
		return false
	}
	switch e.Kind {
	case EntryHypothesis:
		return expr.Equal(e.Prop, o.Prop)
	case EntryDefinition:
		if (e.Def == nil) != (o.Def == nil) {
			return false
		}
		if e.Def != nil && !expr.Equal(*e.Def, *o.Def) {
			return false
		}
		return expr.Equal(e.Type, o.Type)
	default:
		return expr.Equal(e.Type, o.Type)
	}
}

// freeNames lists the variables the entry's classifier and body mention.
func (e Entry) freeNames() []ident.Ident {
	switch e.Kind {
	case EntryHypothesis:
		return expr.FreeVars(e.Prop)
	case EntryDefinition:
		out := expr.FreeVars(e.Type)
		if e.Def != nil {
			out = append(out, expr.FreeVars(*e.Def)...)
		}
		return out
	default:
		return expr.FreeVars(e.Type)
	}
}

// Context is an ordered, immutable sequence of entries. The zero value is
// the empty context.
type Context struct {
	entries []Entry
}

func NewContext(entries ...Entry) Context {
	return Context{entries: slices.Clone(entries)}
}

func (c Context) Len() int { return len(c.entries) }

func (c Context) At(i int) Entry { return c.entries[i] }

func (c Context) Entries() []Entry { return slices.Clone(c.entries) }

// With returns c extended by e. The receiver's storage is never shared with
// the result.
func (c Context) With(e Entry) Context {
	return Context{entries: append(slices.Clip(c.entries), e)}
}

// Has reports whether some entry is named name.
func (c Context) Has(name ident.Ident) bool {
	_, ok := c.index(name)
	return ok
}

// Lookup returns the last entry named name.
func (c Context) Lookup(name ident.Ident) (Entry, bool) {
	i, ok := c.index(name)
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

func (c Context) index(name ident.Ident) (int, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Replace swaps the entry named name for e, keeping its position.
func (c Context) Replace(name ident.Ident, e Entry) (Context, bool) {
	i, ok := c.index(name)
	if !ok {
		return c, false
	}
	out := slices.Clone(c.entries)
	out[i] = e
	return Context{entries: out}, true
}

func (c Context) Names() []ident.Ident {
	out := make([]ident.Ident, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Hypotheses returns hypothesis entries in declaration order.
func (c Context) Hypotheses() []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Kind == EntryHypothesis {
			out = append(out, e)
		}
	}
	return out
}

// FreshName returns base, or base with a numeric suffix, unused in c.
func (c Context) FreshName(base string) ident.Ident {
	return ident.Fresh(base, c.Has)
}

func (c Context) Equal(o Context) bool {
	return slices.EqualFunc(c.entries, o.entries, Entry.Equal)
}

func (c Context) String() string {
	var sb strings.Builder
	for i, e := range c.entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprint(&sb, e)
	}
	return sb.String()
}
