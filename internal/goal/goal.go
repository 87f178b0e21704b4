package goal

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/ident"
)

// QuantKind is the kind of a prenex quantifier.
type QuantKind uint8

const (
	QuantInvalid QuantKind = iota
	QuantForAll
	QuantExists
	QuantExistsUnique
)

func (k QuantKind) String() string {
	switch k {
	case QuantForAll:
		return "forall"
	case QuantExists:
		return "exists"
	case QuantExistsUnique:
		return "exists!"
	default:
		return "invalid"
	}
}

func (k QuantKind) symbol() string {
	switch k {
	case QuantForAll:
		return "∀"
	case QuantExists:
		return "∃"
	case QuantExistsUnique:
		return "∃!"
	default:
		return "?"
	}
}

// ParseQuantKind is the inverse of QuantKind.String.
func ParseQuantKind(s string) (QuantKind, bool) {
	for _, k := range []QuantKind{QuantForAll, QuantExists, QuantExistsUnique} {
		if k.String() == s {
			return k, true
		}
	}
	return QuantInvalid, false
}

// Quantifier binds a context variable in front of the statement.
type Quantifier struct {
	Var  ident.Ident
	Kind QuantKind
}

var (
	ErrNoStatement     = errors.New("goal has no statement")
	ErrUnknownQuantVar = errors.New("quantified variable is not in context")
	ErrDuplicateName   = errors.New("duplicate context name")
	ErrScoping         = errors.New("name used before its declaration")
)

// Goal is a (context, quantifiers, statement) triple.
type Goal struct {
	ctx          Context
	quants       []Quantifier
	statement    expr.Located[expr.Relation]
	hasStatement bool
}

// NewEmpty returns a goal with an empty context and the False sentinel as
// statement. Verify rejects it until WithStatement is called.
func NewEmpty() Goal {
	return Goal{statement: expr.False()}
}

// New returns a goal proving stmt in the empty context.
func New(stmt expr.Located[expr.Relation]) Goal {
	return NewEmpty().WithStatement(stmt)
}

func (g Goal) Context() Context                       { return g.ctx }
func (g Goal) Quantifiers() []Quantifier              { return slices.Clone(g.quants) }
func (g Goal) Statement() expr.Located[expr.Relation] { return g.statement }
func (g Goal) HasStatement() bool                     { return g.hasStatement }

// WithEntry appends e to the context.
func (g Goal) WithEntry(e Entry) (Goal, ident.Ident) {
	out := g
	out.ctx = g.ctx.With(e)
	return out, e.Name
}

func (g Goal) WithVariable(name string, ty expr.Located[expr.TypeExpr]) (Goal, ident.Ident) {
	return g.WithEntry(Entry{Kind: EntryVariable, Name: ident.New(name), Type: ty})
}

func (g Goal) WithHypothesis(name string, prop expr.Located[expr.Relation]) (Goal, ident.Ident) {
	return g.WithEntry(Entry{Kind: EntryHypothesis, Name: ident.New(name), Prop: prop, Type: expr.PropType()})
}

func (g Goal) WithDefinition(name string, ty expr.Located[expr.TypeExpr], def expr.Located[expr.Term]) (Goal, ident.Ident) {
	return g.WithEntry(Entry{Kind: EntryDefinition, Name: ident.New(name), Type: ty, Def: &def})
}

// WithQuantifier prefixes the statement with a quantifier over an existing
// context variable. Quantifying an unknown name is a programming error and
// panics.
func (g Goal) WithQuantifier(name string, kind QuantKind) Goal {
	id := ident.New(name)
	if !g.ctx.Has(id) {
		panic(errors.AssertionFailedf("quantifier over %q which is not in context", name))
	}
	out := g
	out.quants = append(slices.Clip(g.quants), Quantifier{Var: id, Kind: kind})
	return out
}

func (g Goal) WithStatement(stmt expr.Located[expr.Relation]) Goal {
	out := g
	out.statement = stmt
	out.hasStatement = true
	return out
}

// WithContext swaps the whole context; quantifiers and statement stay.
func (g Goal) WithContext(ctx Context) Goal {
	out := g
	out.ctx = ctx
	return out
}

// Verify checks that the statement is set, every quantified variable is
// declared and no context name repeats. "Set" means WithStatement was
// called: an explicit False statement is a valid goal, only the
// placeholder of NewEmpty is rejected.
func (g Goal) Verify() error {
	if !g.hasStatement {
		return ErrNoStatement
	}
	for _, q := range g.quants {
		if !g.ctx.Has(q.Var) {
			return errors.Wrapf(ErrUnknownQuantVar, "%s %s", q.Kind, q.Var)
		}
	}
	seen := ident.NewSet()
	for _, e := range g.ctx.entries {
		if seen.Has(e.Name) {
			return errors.Wrapf(ErrDuplicateName, "%q", e.Name.Name())
		}
		seen.Add(e.Name)
	}
	return nil
}

// CheckScoping verifies that entry i only mentions names declared by
// entries 0..i-1, and that the statement only mentions declared names or
// its own binders. Goals built by the builders may legitimately fail this
// when they reason about undeclared constants; callers opt in.
func (g Goal) CheckScoping() error {
	seen := ident.NewSet()
	for i, e := range g.ctx.entries {
		for _, n := range e.freeNames() {
			if !seen.Has(n) {
				return errors.WithHintf(
					errors.Wrapf(ErrScoping, "entry %d (%s) uses %q", i, e.Name, n.Name()),
					"declare %s before %s", n, e.Name)
			}
		}
		seen.Add(e.Name)
	}
	for _, n := range expr.FreeVars(g.statement) {
		if !seen.Has(n) {
			return errors.Wrapf(ErrScoping, "statement uses %q", n.Name())
		}
	}
	return nil
}

func (g Goal) Equal(o Goal) bool {
	return g.hasStatement == o.hasStatement &&
		slices.Equal(g.quants, o.quants) &&
		g.ctx.Equal(o.ctx) &&
		expr.Equal(g.statement, o.statement)
}

// Target renders the statement with its quantifier prefix.
func (g Goal) Target() string {
	var sb strings.Builder
	for _, q := range g.quants {
		sb.WriteString(q.Kind.symbol())
		sb.WriteString(q.Var.Name())
		sb.WriteString(". ")
	}
	sb.WriteString(g.statement.String())
	return sb.String()
}

func (g Goal) String() string {
	var sb strings.Builder
	if g.ctx.Len() > 0 {
		sb.WriteString(g.ctx.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("⊢ ")
	sb.WriteString(g.Target())
	return sb.String()
}
