package theory

import (
	"testing"

	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/rewrite"
)

func TestStandardCatalog(t *testing.T) {
	r := Standard()
	if r.Len() < 15 {
		t.Fatalf("standard catalog too small: %d", r.Len())
	}
	names := r.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	for _, name := range names {
		th, err := r.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		_, _, isTerm := th.TermRule()
		_, _, isRel := th.RelationRule()
		if !isTerm && !isRel {
			t.Fatalf("%s is neither an equation nor an equivalence", name)
		}
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	th := Theorem{Name: "refl", Params: params(expr.NatType, "a"), Conclusion: expr.Eq(expr.Var("a"), expr.Var("a"))}
	if err := r.Register(th); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(th); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := r.Register(Theorem{Name: "empty"}); err == nil {
		t.Fatalf("theorem without conclusion accepted")
	}
	if _, err := r.Lookup("nope"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	var nilReg *Registry
	if _, err := nilReg.Lookup("refl"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("nil registry must report unknown theorems")
	}
}

func TestTheoremParamsArePlaceholders(t *testing.T) {
	th, err := Standard().Lookup("add_comm")
	if err != nil {
		t.Fatal(err)
	}
	lhs, rhs, ok := th.TermRule()
	if !ok {
		t.Fatalf("add_comm is an equation")
	}
	target := expr.Add(expr.Var("x"), expr.Mul(expr.Var("y"), expr.Num(2)))
	b, full := rewrite.Match(target, lhs, th.Env())
	if !full {
		t.Fatalf("lhs must match %s", target)
	}
	got := rewrite.Substitute(rhs, b, target, th.Env())
	if got.String() != "((y * 2) + x)" {
		t.Fatalf("got %s", got)
	}
}

func TestTheoremString(t *testing.T) {
	th, _ := Standard().Lookup("div_self")
	if got := th.String(); got != "div_self (a : ℝ) : a ≠ 0 ⇒ (a / a) = 1" {
		t.Fatalf("got %q", got)
	}
}
