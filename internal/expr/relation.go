package expr

import (
	"fmt"
	"strings"

	"prover/internal/ident"
)

// RelKind enumerates the variants of Relation.
type RelKind uint8

const (
	RelInvalid RelKind = iota
	RelTrue
	RelFalse
	RelEqual
	RelNotEqual
	RelLess
	RelLessEq
	RelElementOf
	RelSubset
	RelPredicate
	RelAnd
	RelOr
	RelImplies
	RelIff
	RelNot
	RelForAll
	RelExists
)

var relKindNames = [...]string{
	RelInvalid:   "invalid",
	RelTrue:      "true",
	RelFalse:     "false",
	RelEqual:     "eq",
	RelNotEqual:  "neq",
	RelLess:      "lt",
	RelLessEq:    "le",
	RelElementOf: "in",
	RelSubset:    "subset",
	RelPredicate: "pred",
	RelAnd:       "and",
	RelOr:        "or",
	RelImplies:   "implies",
	RelIff:       "iff",
	RelNot:       "not",
	RelForAll:    "forall",
	RelExists:    "exists",
}

func (k RelKind) String() string {
	if int(k) < len(relKindNames) {
		return relKindNames[k]
	}
	return fmt.Sprintf("RelKind(%d)", k)
}

// ParseRelKind is the inverse of RelKind.String.
func ParseRelKind(name string) (RelKind, bool) {
	for i, n := range relKindNames {
		if i != int(RelInvalid) && n == name {
			return RelKind(i), true
		}
	}
	return RelInvalid, false
}

// IsComparison reports binary relations over two Terms.
func (k RelKind) IsComparison() bool {
	switch k {
	case RelEqual, RelNotEqual, RelLess, RelLessEq, RelElementOf, RelSubset:
		return true
	}
	return false
}

// IsConnective reports relations whose children are Relations.
func (k RelKind) IsConnective() bool {
	switch k {
	case RelAnd, RelOr, RelImplies, RelIff, RelNot:
		return true
	}
	return false
}

func (k RelKind) IsQuantifier() bool { return k == RelForAll || k == RelExists }

// Relation is a proposition.
//
// Comparisons keep their operands in Terms[0..1]; Implies and Iff keep them
// in Parts[0..1]; Not keeps its operand in Parts[0]; quantifiers keep the
// body in Parts[0] and the binder in Name.
type Relation struct {
	Kind   RelKind
	Name   ident.Ident         // predicate name or quantifier binder
	Terms  []Located[Term]     // comparison operands, predicate arguments
	Parts  []Located[Relation] // connective operands, quantifier body
	Domain *Located[TypeExpr]  // quantifier domain, optional
}

// Constructors ---------------------------------------------------------------

func True() Located[Relation]  { return Concrete(Relation{Kind: RelTrue}) }
func False() Located[Relation] { return Concrete(Relation{Kind: RelFalse}) }

// Compare builds a binary comparison of kind k.
func Compare(k RelKind, l, r Located[Term]) Located[Relation] {
	return Concrete(Relation{Kind: k, Terms: []Located[Term]{l, r}})
}

func Eq(l, r Located[Term]) Located[Relation]     { return Compare(RelEqual, l, r) }
func Neq(l, r Located[Term]) Located[Relation]    { return Compare(RelNotEqual, l, r) }
func Lt(l, r Located[Term]) Located[Relation]     { return Compare(RelLess, l, r) }
func Le(l, r Located[Term]) Located[Relation]     { return Compare(RelLessEq, l, r) }
func In(l, r Located[Term]) Located[Relation]     { return Compare(RelElementOf, l, r) }
func Subset(l, r Located[Term]) Located[Relation] { return Compare(RelSubset, l, r) }

func Pred(name string, args ...Located[Term]) Located[Relation] {
	return Concrete(Relation{Kind: RelPredicate, Name: ident.New(name), Terms: args})
}

func And(parts ...Located[Relation]) Located[Relation] {
	return Concrete(Relation{Kind: RelAnd, Parts: parts})
}

func Or(parts ...Located[Relation]) Located[Relation] {
	return Concrete(Relation{Kind: RelOr, Parts: parts})
}

func Implies(premise, conclusion Located[Relation]) Located[Relation] {
	return Concrete(Relation{Kind: RelImplies, Parts: []Located[Relation]{premise, conclusion}})
}

func Iff(l, r Located[Relation]) Located[Relation] {
	return Concrete(Relation{Kind: RelIff, Parts: []Located[Relation]{l, r}})
}

func Not(p Located[Relation]) Located[Relation] {
	return Concrete(Relation{Kind: RelNot, Parts: []Located[Relation]{p}})
}

// ForAll binds binder over body; domain may be the zero Located.
func ForAll(binder string, domain Located[TypeExpr], body Located[Relation]) Located[Relation] {
	return quantified(RelForAll, binder, domain, body)
}

func Exists(binder string, domain Located[TypeExpr], body Located[Relation]) Located[Relation] {
	return quantified(RelExists, binder, domain, body)
}

func quantified(k RelKind, binder string, domain Located[TypeExpr], body Located[Relation]) Located[Relation] {
	r := Relation{Kind: k, Name: ident.New(binder), Parts: []Located[Relation]{body}}
	if domain.IsValid() {
		r.Domain = &domain
	}
	return Concrete(r)
}

// MetaRel is a Relation placeholder.
func MetaRel(name string) Located[Relation] { return MetaNamed[Relation](name) }

// Accessors ------------------------------------------------------------------

// Operands returns the two operands of a comparison.
func (r Relation) Operands() (Located[Term], Located[Term], bool) {
	if !r.Kind.IsComparison() || len(r.Terms) != 2 {
		return Located[Term]{}, Located[Term]{}, false
	}
	return r.Terms[0], r.Terms[1], true
}

// Sides returns the two operands of Implies or Iff.
func (r Relation) Sides() (Located[Relation], Located[Relation], bool) {
	if (r.Kind != RelImplies && r.Kind != RelIff) || len(r.Parts) != 2 {
		return Located[Relation]{}, Located[Relation]{}, false
	}
	return r.Parts[0], r.Parts[1], true
}

// Grammar implementation -----------------------------------------------------

func (r Relation) Equal(o Relation) bool {
	if r.Kind != o.Kind || r.Name != o.Name {
		return false
	}
	return equalSlices(r.Terms, o.Terms) && equalSlices(r.Parts, o.Parts) && equalPtr(r.Domain, o.Domain)
}

func (r Relation) sameShape(o Relation) bool {
	return r.Kind == o.Kind && r.Name == o.Name &&
		len(r.Terms) == len(o.Terms) && len(r.Parts) == len(o.Parts) && ptrShape(r.Domain, o.Domain)
}

func (r Relation) MapChildren(m *Mapper) (Relation, bool) {
	terms, c1 := mapSlice(m, r.Terms)
	parts, c2 := mapSlice(m, r.Parts)
	dom, c3 := mapPtr(m, r.Domain)
	if !c1 && !c2 && !c3 {
		return r, false
	}
	out := r
	out.Terms, out.Parts, out.Domain = terms, parts, dom
	return out, true
}

func (r Relation) ZipChildren(o Relation, z *Zipper) bool {
	if !r.sameShape(o) {
		return false
	}
	zipSlices(z, r.Terms, o.Terms)
	zipSlices(z, r.Parts, o.Parts)
	zipPtr(z, r.Domain, o.Domain)
	return true
}

func (r Relation) VisitChildren(v *Visitor) {
	visitSlice(v, r.Terms)
	visitSlice(v, r.Parts)
	visitPtr(v, r.Domain)
}

func (Relation) mapSlot(m *Mapper) *func(Located[Relation]) (Located[Relation], bool) {
	return &m.Relation
}
func (Relation) zipSlot(z *Zipper) *func(a, b Located[Relation])     { return &z.Relation }
func (Relation) visitSlot(v *Visitor) *func(Located[Relation])       { return &v.Relation }
func (Relation) indexSlot(idx *Index) map[NodeID]Located[Relation]   { return idx.relations }

func (r Relation) String() string {
	switch r.Kind {
	case RelTrue:
		return "⊤"
	case RelFalse:
		return "⊥"
	case RelEqual, RelNotEqual, RelLess, RelLessEq, RelElementOf, RelSubset:
		if len(r.Terms) == 2 {
			return r.Terms[0].String() + " " + comparisonSymbol(r.Kind) + " " + r.Terms[1].String()
		}
	case RelPredicate:
		if len(r.Terms) == 0 {
			return r.Name.Name()
		}
		return r.Name.Name() + "(" + joinLocated(r.Terms, ", ") + ")"
	case RelAnd:
		return "(" + joinLocated(r.Parts, " ∧ ") + ")"
	case RelOr:
		return "(" + joinLocated(r.Parts, " ∨ ") + ")"
	case RelImplies:
		return "(" + joinLocated(r.Parts, " → ") + ")"
	case RelIff:
		return "(" + joinLocated(r.Parts, " ↔ ") + ")"
	case RelNot:
		if len(r.Parts) == 1 {
			return "¬" + r.Parts[0].String()
		}
	case RelForAll, RelExists:
		var sb strings.Builder
		if r.Kind == RelForAll {
			sb.WriteString("∀")
		} else {
			sb.WriteString("∃")
		}
		sb.WriteString(r.Name.Name())
		if r.Domain != nil {
			sb.WriteString(" : ")
			sb.WriteString(r.Domain.String())
		}
		sb.WriteString(". ")
		sb.WriteString(joinLocated(r.Parts, ", "))
		return sb.String()
	}
	return r.Kind.String() + "(" + joinLocated(r.Terms, ", ") + joinLocated(r.Parts, ", ") + ")"
}

func comparisonSymbol(k RelKind) string {
	switch k {
	case RelEqual:
		return "="
	case RelNotEqual:
		return "≠"
	case RelLess:
		return "<"
	case RelLessEq:
		return "≤"
	case RelElementOf:
		return "∈"
	case RelSubset:
		return "⊆"
	}
	return k.String()
}
