// Package rewrite implements structural pattern matching (Instantiate),
// substitution (Substitute) and single-node patching (Replace) over the
// grammars of package expr.
//
// None of the operations fail: positions that do not match stay unbound,
// unbound placeholders survive substitution, and patching an absent node is
// a no-op. Callers decide how strict to be (see Binding.Unbound and
// TryReplace).
package rewrite

import (
	"slices"
	"strconv"
	"strings"

	"prover/internal/expr"
	"prover/internal/ident"
)

// Target is what a meta-variable is bound to: a node of the target
// expression, or another identifier.
type Target struct {
	Node  expr.NodeID
	Ident ident.Ident
}

func NodeTarget(id expr.NodeID) Target    { return Target{Node: id} }
func IdentTarget(name ident.Ident) Target { return Target{Ident: name} }

func (t Target) IsNode() bool  { return t.Node.IsValid() }
func (t Target) IsIdent() bool { return !t.IsNode() && t.Ident.IsValid() }

func (t Target) String() string {
	if t.IsNode() {
		return "#" + strconv.FormatUint(uint64(t.Node), 10)
	}
	return t.Ident.Name()
}

// Conflict records a key that structural matching bound twice to different
// targets. The later binding is the one kept.
type Conflict struct {
	Key      ident.Ident
	Previous Target
	Kept     Target
}

// Binding maps meta-variables to targets. The zero value is an empty,
// ready-to-use binding.
type Binding struct {
	entries   map[ident.Ident]Target
	order     []ident.Ident
	conflicts []Conflict
}

// Bind records key → target. A later call for the same key replaces the
// earlier target; a replacement by a different target is logged as a Conflict.
func (b *Binding) Bind(key ident.Ident, target Target) {
	if b.entries == nil {
		b.entries = make(map[ident.Ident]Target)
	}
	if prev, ok := b.entries[key]; ok {
		if prev != target {
			b.conflicts = append(b.conflicts, Conflict{Key: key, Previous: prev, Kept: target})
		}
		b.entries[key] = target
		return
	}
	b.entries[key] = target
	b.order = append(b.order, key)
}

// BindNode and BindIdent are shorthands used by callers building manual
// bindings.
func (b *Binding) BindNode(key string, id expr.NodeID) {
	b.Bind(ident.New(key), NodeTarget(id))
}

func (b *Binding) BindIdent(key, name string) {
	b.Bind(ident.New(key), IdentTarget(ident.New(name)))
}

func (b Binding) Get(key ident.Ident) (Target, bool) {
	t, ok := b.entries[key]
	return t, ok
}

func (b Binding) Len() int { return len(b.order) }

// Keys returns bound names in first-binding order.
func (b Binding) Keys() []ident.Ident { return slices.Clone(b.order) }

func (b Binding) Conflicts() []Conflict { return slices.Clone(b.conflicts) }

func (b Binding) Clone() Binding {
	out := Binding{
		order:     slices.Clone(b.order),
		conflicts: slices.Clone(b.conflicts),
	}
	if b.entries != nil {
		out.entries = make(map[ident.Ident]Target, len(b.entries))
		for k, v := range b.entries {
			out.entries[k] = v
		}
	}
	return out
}

// Merge returns base extended by override. Override entries always win and
// are not reported as conflicts: a manual binding is a decision, not an
// accident of traversal order.
func Merge(base, override Binding) Binding {
	out := base.Clone()
	for _, k := range override.order {
		t := override.entries[k]
		if out.entries == nil {
			out.entries = make(map[ident.Ident]Target)
		}
		if _, ok := out.entries[k]; !ok {
			out.order = append(out.order, k)
		}
		out.entries[k] = t
	}
	return out
}

// Unbound lists the placeholders of n (and, with env, its parameter
// variables) that b leaves open.
func Unbound[T expr.Grammar[T]](n expr.Located[T], b Binding, env Env) []ident.Ident {
	var out []ident.Ident
	for _, name := range expr.Metas(n) {
		if _, ok := b.Get(name); !ok {
			out = append(out, name)
		}
	}
	if env.Params == nil {
		return out
	}
	for _, name := range expr.FreeVars(n) {
		if !env.Params.Has(name) || slices.Contains(out, name) {
			continue
		}
		if _, ok := b.Get(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

func (b Binding) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range b.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.Name())
		sb.WriteString(" ↦ ")
		sb.WriteString(b.entries[k].String())
	}
	sb.WriteString("}")
	return sb.String()
}
