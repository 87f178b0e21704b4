package tactic

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"prover/internal/expr"
	"prover/internal/goal"
	"prover/internal/ident"
	"prover/internal/theory"
)

var std = theory.Standard()

func rw(name string) Rewrite {
	return Rewrite{Theorems: std, Theorem: name}
}

func TestRewriteFirstOccurrence(t *testing.T) {
	g := goal.New(expr.Eq(expr.Add(expr.Var("x"), expr.Var("y")), expr.Var("z")))

	out := rw("add_comm").Apply(g)
	if out.Kind != OutcomeSingleGoal {
		t.Fatalf("unexpected outcome %s", out)
	}
	if got := out.Goal().Target(); got != "(y + x) = z" {
		t.Fatalf("got %s", got)
	}
}

func TestRewriteByPathAndNode(t *testing.T) {
	right := expr.Add(expr.Var("u"), expr.Var("v"))
	g := goal.New(expr.Eq(expr.Add(expr.Var("x"), expr.Var("y")), right))

	byPath := rw("add_comm")
	byPath.At = Location{Path: []int{1}}
	if got := byPath.Apply(g).Goal().Target(); got != "(x + y) = (v + u)" {
		t.Fatalf("path rewrite: %s", got)
	}

	byNode := rw("add_comm")
	byNode.At = Location{Node: right.ID()}
	if got := byNode.Apply(g).Goal().Target(); got != "(x + y) = (v + u)" {
		t.Fatalf("node rewrite: %s", got)
	}

	second := rw("add_comm")
	second.At = Location{Occurrence: 1}
	if got := second.Apply(g).Goal().Target(); got != "(x + y) = (v + u)" {
		t.Fatalf("occurrence rewrite: %s", got)
	}
}

func TestRewriteReverseNeedsBindings(t *testing.T) {
	g := goal.New(expr.Eq(expr.Num(0), expr.Var("w")))

	r := rw("mul_zero")
	r.Reverse = true
	out := r.Apply(g)
	if !out.IsError() {
		t.Fatalf("undetermined parameter must be reported, got %s", out)
	}
	if len(errors.GetAllHints(out.Err)) == 0 {
		t.Fatalf("missing hint")
	}

	r.Bindings = map[string]string{"a": "q"}
	out = r.Apply(g)
	if out.IsError() {
		t.Fatalf("rewrite failed: %v", out.Err)
	}
	if got := out.Goal().Target(); got != "(q * 0) = w" {
		t.Fatalf("got %s", got)
	}
}

func TestRewriteSideConditions(t *testing.T) {
	g, _ := goal.NewEmpty().WithVariable("y", expr.RealType())
	g = g.WithStatement(expr.Eq(expr.Div(expr.Var("y"), expr.Var("y")), expr.Num(1)))

	out := rw("div_self").Apply(g)
	if out.Kind != OutcomeMultiGoal {
		t.Fatalf("expected side goal, got %s", out)
	}
	if diff := cmp.Diff([]string{"1 = 1", "y ≠ 0"}, targets(out)); diff != "" {
		t.Fatalf("goals mismatch (-want +got):\n%s", diff)
	}
	for _, sg := range out.Goals {
		if sg.Context().Len() != 1 {
			t.Fatalf("side goals keep the context")
		}
	}
}

func TestRewriteInHypothesis(t *testing.T) {
	g, _ := goal.NewEmpty().WithHypothesis("H", expr.Eq(expr.Add(expr.Var("a"), expr.Var("b")), expr.Var("c")))
	g = g.WithStatement(expr.Eq(expr.Add(expr.Var("a"), expr.Var("b")), expr.Var("c")))

	r := rw("add_comm")
	r.Hyp = "H"
	next := r.Apply(g).Goal()
	h, _ := next.Context().Lookup(ident.New("H"))
	if got := h.Prop.String(); got != "(b + a) = c" {
		t.Fatalf("hypothesis = %s", got)
	}
	if got := next.Target(); got != "(a + b) = c" {
		t.Fatalf("statement must be untouched, got %s", got)
	}

	r.Hyp = "missing"
	if !r.Apply(g).IsError() {
		t.Fatalf("unknown hypothesis must fail")
	}
}

func TestRewriteRelationRule(t *testing.T) {
	g := goal.New(expr.Implies(expr.And(expr.Pred("P"), expr.Pred("Q")), expr.Pred("R")))

	out := rw("and_comm").Apply(g)
	if out.IsError() {
		t.Fatalf("rewrite failed: %v", out.Err)
	}
	if got := out.Goal().Target(); got != "((Q ∧ P) → R)" {
		t.Fatalf("got %s", got)
	}
}

func TestRewriteFailures(t *testing.T) {
	g := goal.New(expr.Eq(expr.Var("x"), expr.Var("y")))
	tests := []struct {
		name string
		r    Rewrite
		is   error
	}{
		{"unknown theorem", rw("no_such_rule"), theory.ErrUnknown},
		{"no occurrence", rw("add_comm"), nil},
		{"bad path", Rewrite{Theorems: std, Theorem: "add_comm", At: Location{Path: []int{7}}}, nil},
		{"no registry", Rewrite{Theorem: "add_comm"}, theory.ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.r.Apply(g)
			if !out.IsError() {
				t.Fatalf("expected error, got %s", out)
			}
			if tt.is != nil && !errors.Is(out.Err, tt.is) {
				t.Fatalf("error %v is not %v", out.Err, tt.is)
			}
		})
	}
}
