package expr

import (
	"fmt"
	"strconv"
	"strings"

	"prover/internal/ident"
)

// TermKind enumerates the variants of Term.
type TermKind uint8

const (
	TermInvalid TermKind = iota
	TermVar
	TermNumber
	TermApply      // built-in operator application
	TermCall       // named function application
	TermSet        // {a, b, c}
	TermSetBuilder // {x : T | cond}
)

func (k TermKind) String() string {
	switch k {
	case TermInvalid:
		return "invalid"
	case TermVar:
		return "var"
	case TermNumber:
		return "number"
	case TermApply:
		return "apply"
	case TermCall:
		return "call"
	case TermSet:
		return "set"
	case TermSetBuilder:
		return "set-builder"
	default:
		return fmt.Sprintf("TermKind(%d)", k)
	}
}

// Operator enumerates built-in operators of TermApply.
type Operator uint8

const (
	OpInvalid Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpPow
	OpCompose  // group operation
	OpInverse  // group inverse
	OpIdentity // group identity, nullary
)

var operatorNames = [...]string{
	OpInvalid:  "invalid",
	OpAdd:      "add",
	OpSub:      "sub",
	OpMul:      "mul",
	OpDiv:      "div",
	OpNeg:      "neg",
	OpPow:      "pow",
	OpCompose:  "compose",
	OpInverse:  "inverse",
	OpIdentity: "identity",
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return fmt.Sprintf("Operator(%d)", op)
}

// ParseOperator is the inverse of Operator.String.
func ParseOperator(name string) (Operator, bool) {
	for i, n := range operatorNames {
		if i != int(OpInvalid) && n == name {
			return Operator(i), true
		}
	}
	return OpInvalid, false
}

// Arity returns the number of operands the operator takes.
func (op Operator) Arity() int {
	switch op {
	case OpIdentity:
		return 0
	case OpNeg, OpInverse:
		return 1
	case OpInvalid:
		return -1
	default:
		return 2
	}
}

func (op Operator) symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpCompose:
		return "∘"
	default:
		return op.String()
	}
}

// Term is a mathematical object.
type Term struct {
	Kind   TermKind
	Name   ident.Ident        // variable, function or binder name
	Op     Operator           // TermApply
	Num    int64              // TermNumber
	Args   []Located[Term]    // TermApply, TermCall, TermSet
	Domain *Located[TypeExpr] // TermSetBuilder, optional
	Cond   *Located[Relation] // TermSetBuilder
}

// Constructors ---------------------------------------------------------------

func Var(name string) Located[Term] { return VarIdent(ident.New(name)) }

func VarIdent(name ident.Ident) Located[Term] {
	return Concrete(Term{Kind: TermVar, Name: name})
}

func Num(n int64) Located[Term] { return Concrete(Term{Kind: TermNumber, Num: n}) }

// Apply builds an operator application; the argument count is not checked.
func Apply(op Operator, args ...Located[Term]) Located[Term] {
	return Concrete(Term{Kind: TermApply, Op: op, Args: args})
}

func Add(a, b Located[Term]) Located[Term]     { return Apply(OpAdd, a, b) }
func Sub(a, b Located[Term]) Located[Term]     { return Apply(OpSub, a, b) }
func Mul(a, b Located[Term]) Located[Term]     { return Apply(OpMul, a, b) }
func Div(a, b Located[Term]) Located[Term]     { return Apply(OpDiv, a, b) }
func Pow(a, b Located[Term]) Located[Term]     { return Apply(OpPow, a, b) }
func Neg(a Located[Term]) Located[Term]        { return Apply(OpNeg, a) }
func Compose(a, b Located[Term]) Located[Term] { return Apply(OpCompose, a, b) }
func Inverse(a Located[Term]) Located[Term]    { return Apply(OpInverse, a) }
func Identity() Located[Term]                  { return Apply(OpIdentity) }

func Call(fn string, args ...Located[Term]) Located[Term] {
	return Concrete(Term{Kind: TermCall, Name: ident.New(fn), Args: args})
}

func SetLit(elems ...Located[Term]) Located[Term] {
	return Concrete(Term{Kind: TermSet, Args: elems})
}

// SetBuilder builds {binder : domain | cond}; domain may be invalid (zero).
func SetBuilder(binder string, domain Located[TypeExpr], cond Located[Relation]) Located[Term] {
	t := Term{Kind: TermSetBuilder, Name: ident.New(binder), Cond: &cond}
	if domain.IsValid() {
		t.Domain = &domain
	}
	return Concrete(t)
}

// MetaTerm is a Term placeholder.
func MetaTerm(name string) Located[Term] { return MetaNamed[Term](name) }

// Grammar implementation -----------------------------------------------------

func (t Term) Equal(o Term) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.Op != o.Op || t.Num != o.Num {
		return false
	}
	return equalSlices(t.Args, o.Args) && equalPtr(t.Domain, o.Domain) && equalPtr(t.Cond, o.Cond)
}

// sameShape сравнивает вариант и листовые поля, но не детей.
func (t Term) sameShape(o Term) bool {
	return t.Kind == o.Kind && t.Name == o.Name && t.Op == o.Op && t.Num == o.Num &&
		len(t.Args) == len(o.Args) && ptrShape(t.Domain, o.Domain) && ptrShape(t.Cond, o.Cond)
}

func (t Term) MapChildren(m *Mapper) (Term, bool) {
	args, c1 := mapSlice(m, t.Args)
	dom, c2 := mapPtr(m, t.Domain)
	cond, c3 := mapPtr(m, t.Cond)
	if !c1 && !c2 && !c3 {
		return t, false
	}
	out := t
	out.Args, out.Domain, out.Cond = args, dom, cond
	return out, true
}

func (t Term) ZipChildren(o Term, z *Zipper) bool {
	if !t.sameShape(o) {
		return false
	}
	zipSlices(z, t.Args, o.Args)
	zipPtr(z, t.Domain, o.Domain)
	zipPtr(z, t.Cond, o.Cond)
	return true
}

func (t Term) VisitChildren(v *Visitor) {
	visitSlice(v, t.Args)
	visitPtr(v, t.Domain)
	visitPtr(v, t.Cond)
}

func (Term) mapSlot(m *Mapper) *func(Located[Term]) (Located[Term], bool) { return &m.Term }
func (Term) zipSlot(z *Zipper) *func(a, b Located[Term])                  { return &z.Term }
func (Term) visitSlot(v *Visitor) *func(Located[Term])                    { return &v.Term }
func (Term) indexSlot(idx *Index) map[NodeID]Located[Term]                { return idx.terms }

func (t Term) String() string {
	switch t.Kind {
	case TermVar:
		return t.Name.Name()
	case TermNumber:
		return strconv.FormatInt(t.Num, 10)
	case TermApply:
		return t.applyString()
	case TermCall:
		return t.Name.Name() + "(" + joinLocated(t.Args, ", ") + ")"
	case TermSet:
		return "{" + joinLocated(t.Args, ", ") + "}"
	case TermSetBuilder:
		var sb strings.Builder
		sb.WriteString("{")
		sb.WriteString(t.Name.Name())
		if t.Domain != nil {
			sb.WriteString(" : ")
			sb.WriteString(t.Domain.String())
		}
		sb.WriteString(" | ")
		if t.Cond != nil {
			sb.WriteString(t.Cond.String())
		}
		sb.WriteString("}")
		return sb.String()
	default:
		return "<invalid>"
	}
}

func (t Term) applyString() string {
	switch {
	case t.Op == OpIdentity && len(t.Args) == 0:
		return "e"
	case t.Op == OpNeg && len(t.Args) == 1:
		return "-" + t.Args[0].String()
	case t.Op == OpInverse && len(t.Args) == 1:
		return t.Args[0].String() + "⁻¹"
	case t.Op.Arity() == 2 && len(t.Args) == 2:
		return "(" + t.Args[0].String() + " " + t.Op.symbol() + " " + t.Args[1].String() + ")"
	default:
		return t.Op.String() + "(" + joinLocated(t.Args, ", ") + ")"
	}
}

func joinLocated[T any](xs []Located[T], sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, sep)
}
