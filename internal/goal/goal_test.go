package goal

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"prover/internal/expr"
	"prover/internal/ident"
)

func eqab() expr.Located[expr.Relation] {
	return expr.Eq(expr.Var("a"), expr.Var("b"))
}

func TestBuildersAreFunctional(t *testing.T) {
	base := NewEmpty()
	g1, x := base.WithVariable("x", expr.NatType())
	g2, h := g1.WithHypothesis("H", expr.Le(expr.Var("x"), expr.Num(3)))
	g3 := g2.WithStatement(expr.Lt(expr.Var("x"), expr.Num(4)))

	if base.Context().Len() != 0 || base.HasStatement() {
		t.Fatalf("base goal was modified")
	}
	if g1.Context().Len() != 1 || g2.Context().Len() != 2 {
		t.Fatalf("unexpected context sizes")
	}
	if x.Name() != "x" || h.Name() != "H" {
		t.Fatalf("builders must return the declared names")
	}
	if err := g3.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := g3.CheckScoping(); err != nil {
		t.Fatalf("scoping: %v", err)
	}
	want := "x : ℕ\nH : x ≤ 3\n⊢ x < 4"
	if got := g3.String(); got != want {
		t.Fatalf("String:\n%s\nwant:\n%s", got, want)
	}
}

func TestSiblingExtensionsDoNotAlias(t *testing.T) {
	g, _ := NewEmpty().WithVariable("a", expr.NatType())
	g, _ = g.WithVariable("b", expr.NatType())
	left, _ := g.WithVariable("l", expr.NatType())
	right, _ := g.WithVariable("r", expr.NatType())

	if left.Context().At(2).Name.Name() != "l" || right.Context().At(2).Name.Name() != "r" {
		t.Fatalf("contexts extended from the same parent share storage")
	}
}

func TestVerify(t *testing.T) {
	ok, _ := NewEmpty().WithVariable("n", expr.NatType())
	ok = ok.WithQuantifier("n", QuantForAll).WithStatement(expr.Le(expr.Num(0), expr.Var("n")))

	dup, _ := ok.WithVariable("n", expr.IntType())

	tests := []struct {
		name string
		goal Goal
		want error
	}{
		{"consistent", ok, nil},
		{"no statement", NewEmpty(), ErrNoStatement},
		{"explicit false", NewEmpty().WithStatement(expr.False()), nil},
		{"duplicate name", dup, ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Verify()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWithQuantifierPanicsOnUnknownName(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.HasAssertionFailure(err) {
			t.Fatalf("expected assertion failure, got %v", r)
		}
	}()
	NewEmpty().WithQuantifier("ghost", QuantExists)
}

func TestCheckScoping(t *testing.T) {
	g, _ := NewEmpty().WithHypothesis("H", expr.Eq(expr.Var("y"), expr.Num(1)))
	g, _ = g.WithVariable("y", expr.NatType())
	g = g.WithStatement(expr.True())

	if err := g.Verify(); err != nil {
		t.Fatalf("verify does not look at ordering: %v", err)
	}
	if err := g.CheckScoping(); !errors.Is(err, ErrScoping) {
		t.Fatalf("expected scoping error, got %v", err)
	}

	open := New(eqab())
	if err := open.CheckScoping(); !errors.Is(err, ErrScoping) {
		t.Fatalf("undeclared statement variables must be reported")
	}
}

func TestContextLookup(t *testing.T) {
	g, _ := NewEmpty().WithVariable("H", expr.NatType())
	g, _ = g.WithHypothesis("H1", eqab())
	g, _ = g.WithDefinition("d", expr.NatType(), expr.Add(expr.Var("a"), expr.Num(1)))
	ctx := g.Context()

	if e, ok := ctx.Lookup(ident.New("H1")); !ok || e.Kind != EntryHypothesis {
		t.Fatalf("lookup H1 failed")
	}
	if _, ok := ctx.Lookup(ident.New("zz")); ok {
		t.Fatalf("lookup of unknown name succeeded")
	}
	if got := ctx.FreshName("H").Name(); got != "H2" {
		t.Fatalf("FreshName = %s, want H2", got)
	}
	var hyps []string
	for _, e := range ctx.Hypotheses() {
		hyps = append(hyps, e.String())
	}
	if diff := cmp.Diff([]string{"H1 : a = b"}, hyps); diff != "" {
		t.Fatalf("hypotheses mismatch (-want +got):\n%s", diff)
	}
	if got := ctx.At(2).String(); got != "d : ℕ := (a + 1)" {
		t.Fatalf("definition rendering: %s", got)
	}
}

func TestQuantifierRendering(t *testing.T) {
	g, _ := NewEmpty().WithVariable("x", expr.RealType())
	g, _ = g.WithVariable("y", expr.RealType())
	g = g.WithQuantifier("x", QuantForAll).WithQuantifier("y", QuantExistsUnique)
	g = g.WithStatement(expr.Lt(expr.Var("x"), expr.Var("y")))

	if got := g.Target(); got != "∀x. ∃!y. x < y" {
		t.Fatalf("got %s", got)
	}
}

func TestGoalDocRoundTrip(t *testing.T) {
	g, _ := NewEmpty().WithVariable("x", expr.NatType())
	g, _ = g.WithHypothesis("H", eqab())
	g, _ = g.WithDefinition("d", expr.NatType(), expr.Num(2))
	g = g.WithQuantifier("x", QuantExists).WithStatement(expr.Lt(expr.Var("x"), expr.Var("d")))

	back, err := Decode(g.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Equal(g) {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", back, g)
	}
	if back.Statement().ID() == g.Statement().ID() {
		t.Fatalf("decoded nodes must get fresh ids")
	}
}
