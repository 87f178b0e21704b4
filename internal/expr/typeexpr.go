package expr

import (
	"fmt"

	"prover/internal/ident"
)

// TypeKind enumerates the variants of TypeExpr.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeProp
	TypeNat
	TypeInt
	TypeReal
	TypeNamed
	TypeSet     // Set(Parts[0])
	TypeFunc    // Parts[0] → Parts[1]
	TypeProduct // Parts[0] × ... × Parts[n-1]
)

var typeKindNames = [...]string{
	TypeInvalid: "invalid",
	TypeProp:    "prop",
	TypeNat:     "nat",
	TypeInt:     "int",
	TypeReal:    "real",
	TypeNamed:   "named",
	TypeSet:     "set",
	TypeFunc:    "fn",
	TypeProduct: "product",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// ParseTypeKind is the inverse of TypeKind.String.
func ParseTypeKind(name string) (TypeKind, bool) {
	for i, n := range typeKindNames {
		if i != int(TypeInvalid) && n == name {
			return TypeKind(i), true
		}
	}
	return TypeInvalid, false
}

// TypeExpr classifies context variables.
type TypeExpr struct {
	Kind  TypeKind
	Name  ident.Ident // TypeNamed
	Parts []Located[TypeExpr]
}

func PropType() Located[TypeExpr] { return Concrete(TypeExpr{Kind: TypeProp}) }
func NatType() Located[TypeExpr]  { return Concrete(TypeExpr{Kind: TypeNat}) }
func IntType() Located[TypeExpr]  { return Concrete(TypeExpr{Kind: TypeInt}) }
func RealType() Located[TypeExpr] { return Concrete(TypeExpr{Kind: TypeReal}) }

func NamedType(name string) Located[TypeExpr] {
	return Concrete(TypeExpr{Kind: TypeNamed, Name: ident.New(name)})
}

func SetType(elem Located[TypeExpr]) Located[TypeExpr] {
	return Concrete(TypeExpr{Kind: TypeSet, Parts: []Located[TypeExpr]{elem}})
}

func FuncType(dom, cod Located[TypeExpr]) Located[TypeExpr] {
	return Concrete(TypeExpr{Kind: TypeFunc, Parts: []Located[TypeExpr]{dom, cod}})
}

func ProductType(parts ...Located[TypeExpr]) Located[TypeExpr] {
	return Concrete(TypeExpr{Kind: TypeProduct, Parts: parts})
}

func MetaType(name string) Located[TypeExpr] { return MetaNamed[TypeExpr](name) }

func (t TypeExpr) Equal(o TypeExpr) bool {
	return t.Kind == o.Kind && t.Name == o.Name && equalSlices(t.Parts, o.Parts)
}

func (t TypeExpr) MapChildren(m *Mapper) (TypeExpr, bool) {
	parts, changed := mapSlice(m, t.Parts)
	if !changed {
		return t, false
	}
	out := t
	out.Parts = parts
	return out, true
}

func (t TypeExpr) ZipChildren(o TypeExpr, z *Zipper) bool {
	if t.Kind != o.Kind || t.Name != o.Name || len(t.Parts) != len(o.Parts) {
		return false
	}
	zipSlices(z, t.Parts, o.Parts)
	return true
}

func (t TypeExpr) VisitChildren(v *Visitor) { visitSlice(v, t.Parts) }

func (TypeExpr) mapSlot(m *Mapper) *func(Located[TypeExpr]) (Located[TypeExpr], bool) {
	return &m.Type
}
func (TypeExpr) zipSlot(z *Zipper) *func(a, b Located[TypeExpr])   { return &z.Type }
func (TypeExpr) visitSlot(v *Visitor) *func(Located[TypeExpr])     { return &v.Type }
func (TypeExpr) indexSlot(idx *Index) map[NodeID]Located[TypeExpr] { return idx.types }

func (t TypeExpr) String() string {
	switch t.Kind {
	case TypeProp:
		return "Prop"
	case TypeNat:
		return "ℕ"
	case TypeInt:
		return "ℤ"
	case TypeReal:
		return "ℝ"
	case TypeNamed:
		return t.Name.Name()
	case TypeSet:
		return "Set(" + joinLocated(t.Parts, ", ") + ")"
	case TypeFunc:
		if len(t.Parts) == 2 {
			return "(" + t.Parts[0].String() + " → " + t.Parts[1].String() + ")"
		}
	case TypeProduct:
		return "(" + joinLocated(t.Parts, " × ") + ")"
	}
	return "<invalid>"
}
