package rewrite

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"prover/internal/expr"
	"prover/internal/ident"
)

func keys(b Binding) []string {
	var out []string
	for _, k := range b.Keys() {
		out = append(out, k.Name())
	}
	return out
}

func mustGet(t *testing.T, b Binding, name string) Target {
	t.Helper()
	tgt, ok := b.Get(ident.New(name))
	if !ok {
		t.Fatalf("%s is unbound in %s", name, b)
	}
	return tgt
}

func TestInstantiateBindsNodeIDs(t *testing.T) {
	x := expr.Var("x")
	yz := expr.Mul(expr.Var("y"), expr.Var("z"))
	target := expr.Add(x, yz)
	pattern := expr.Add(expr.MetaTerm("a"), expr.MetaTerm("b"))

	b, ok := Match(target, pattern, Env{})
	if !ok {
		t.Fatalf("expected full match")
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys(b)); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got := mustGet(t, b, "a"); got != NodeTarget(x.ID()) {
		t.Fatalf("a bound to %s, want #%d", got, x.ID())
	}
	if got := mustGet(t, b, "b"); got != NodeTarget(yz.ID()) {
		t.Fatalf("b bound to %s, want #%d", got, yz.ID())
	}
}

func TestInstantiateMetaAgainstMeta(t *testing.T) {
	target := expr.Add(expr.MetaTerm("p"), expr.Num(1))
	pattern := expr.Add(expr.MetaTerm("a"), expr.Num(1))

	b := Instantiate(target, pattern, Env{})
	if got := mustGet(t, b, "a"); got != IdentTarget(ident.New("p")) {
		t.Fatalf("a bound to %s, want p", got)
	}
}

func TestInstantiatePartialMatches(t *testing.T) {
	tests := []struct {
		name    string
		target  expr.Located[expr.Relation]
		pattern expr.Located[expr.Relation]
		want    []string
	}{
		{
			name:    "variant mismatch",
			target:  expr.Eq(expr.Var("a"), expr.Var("b")),
			pattern: expr.And(expr.MetaRel("p"), expr.MetaRel("q")),
		},
		{
			name:    "concrete pattern against placeholder",
			target:  expr.Eq(expr.MetaTerm("u"), expr.Var("b")),
			pattern: expr.Eq(expr.Var("a"), expr.MetaTerm("r")),
			want:    []string{"r"},
		},
		{
			name:    "mismatching operands keep the rest",
			target:  expr.Lt(expr.Add(expr.Var("a"), expr.Num(1)), expr.Var("c")),
			pattern: expr.Lt(expr.Mul(expr.MetaTerm("x"), expr.MetaTerm("y")), expr.MetaTerm("z")),
			want:    []string{"z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Match(tt.target, tt.pattern, Env{})
			if ok {
				t.Fatalf("match must be reported partial")
			}
			if diff := cmp.Diff(tt.want, keys(b)); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInstantiateRepeatedPlaceholder(t *testing.T) {
	pattern := expr.Add(expr.MetaTerm("x"), expr.MetaTerm("x"))

	a2 := expr.Var("a")
	b, ok := Match(expr.Add(expr.Var("a"), a2), pattern, Env{})
	if !ok {
		t.Fatalf("a + a must match ?x + ?x")
	}
	if got := mustGet(t, b, "x"); got != NodeTarget(a2.ID()) {
		t.Fatalf("last write must win, got %s", got)
	}
	if len(b.Conflicts()) != 1 {
		t.Fatalf("expected one recorded conflict, got %v", b.Conflicts())
	}

	if _, ok := Match(expr.Add(expr.Var("a"), expr.Var("b")), pattern, Env{}); ok {
		t.Fatalf("a + b must not match ?x + ?x")
	}
}

func TestInstantiateAcrossGrammars(t *testing.T) {
	dom := expr.NatType()
	body := expr.Le(expr.Var("n"), expr.Var("n"))
	target := expr.ForAll("n", dom, body)
	pattern := expr.ForAll("n", expr.MetaType("T"), expr.MetaRel("P"))

	b, ok := Match(target, pattern, Env{})
	if !ok {
		t.Fatalf("expected full match")
	}
	if mustGet(t, b, "T") != NodeTarget(dom.ID()) || mustGet(t, b, "P") != NodeTarget(body.ID()) {
		t.Fatalf("unexpected binding %s", b)
	}
}

func TestParamsActAsPlaceholders(t *testing.T) {
	env := Env{Params: Names{ident.New("x")}}
	a := expr.Var("a")
	target := expr.Add(a, expr.Num(0))
	pattern := expr.Add(expr.Var("x"), expr.Num(0))

	b, ok := Match(target, pattern, env)
	if !ok || mustGet(t, b, "x") != NodeTarget(a.ID()) {
		t.Fatalf("param x must bind to a, got %s", b)
	}
	if _, ok := Match(target, pattern, Env{}); ok {
		t.Fatalf("without params x is a plain variable")
	}
}

func TestMergeManualWins(t *testing.T) {
	var inferred, manual Binding
	inferred.BindNode("a", 10)
	inferred.BindNode("b", 11)
	manual.BindIdent("a", "w")
	manual.BindIdent("c", "v")

	got := Merge(inferred, manual)
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys(got)); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if mustGet(t, got, "a") != IdentTarget(ident.New("w")) {
		t.Fatalf("manual binding must win: %s", got)
	}
	if len(got.Conflicts()) != 0 {
		t.Fatalf("overrides are not conflicts")
	}
	if inferred.Len() != 2 {
		t.Fatalf("merge must not mutate its inputs")
	}
}

func TestUnbound(t *testing.T) {
	n := expr.Add(expr.MetaTerm("a"), expr.Mul(expr.Var("k"), expr.MetaTerm("b")))
	var b Binding
	b.BindNode("a", 1)

	got := Unbound(n, b, Env{Params: Names{ident.New("k")}})
	var names []string
	for _, g := range got {
		names = append(names, g.Name())
	}
	if diff := cmp.Diff([]string{"b", "k"}, names); diff != "" {
		t.Fatalf("unbound mismatch (-want +got):\n%s", diff)
	}
}

func checkRoundTrip[T expr.Grammar[T]](t *testing.T, target, pattern expr.Located[T], bindings int) {
	t.Helper()
	b := Instantiate(target, pattern, Env{})
	if b.Len() != bindings {
		t.Fatalf("bindings = %d (%s), want %d", b.Len(), b, bindings)
	}
	if len(b.Conflicts()) != 0 {
		t.Fatalf("unexpected conflicts: %v", b.Conflicts())
	}
	got := Substitute(pattern, b, target, Env{})
	if !expr.Equal(got, target) {
		t.Fatalf("substitute(%s) = %s, want %s", pattern, got, target)
	}
	if got.IsMeta() || len(expr.Metas(got)) != 0 {
		t.Fatalf("placeholders left in %s", got)
	}
}

func TestMatchSubstituteRoundTrip(t *testing.T) {
	sum := expr.Add(expr.Var("x"), expr.Mul(expr.Var("y"), expr.Num(2)))
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"term/whole", func(t *testing.T) {
			checkRoundTrip(t, sum, expr.MetaTerm("e"), 1)
		}},
		{"term/operands", func(t *testing.T) {
			checkRoundTrip(t, sum, expr.Add(expr.MetaTerm("a"), expr.MetaTerm("b")), 2)
		}},
		{"term/call", func(t *testing.T) {
			target := expr.Call("f", expr.Var("x"), expr.Neg(expr.Var("y")), expr.Num(3))
			checkRoundTrip(t, target, expr.Call("f", expr.MetaTerm("a"), expr.MetaTerm("b"), expr.MetaTerm("c")), 3)
		}},
		{"relation/whole", func(t *testing.T) {
			checkRoundTrip(t, expr.Implies(expr.Eq(sum, expr.Var("z")), expr.Pred("P")), expr.MetaRel("r"), 1)
		}},
		{"relation/conjuncts", func(t *testing.T) {
			target := expr.And(expr.Eq(expr.Var("a"), expr.Var("b")), expr.Not(expr.Pred("Q")))
			checkRoundTrip(t, target, expr.And(expr.MetaRel("p"), expr.MetaRel("q")), 2)
		}},
		{"relation/terms", func(t *testing.T) {
			checkRoundTrip(t, expr.Le(sum, expr.Num(10)), expr.Le(expr.MetaTerm("l"), expr.MetaTerm("r")), 2)
		}},
		{"type/whole", func(t *testing.T) {
			checkRoundTrip(t, expr.FuncType(expr.NatType(), expr.SetType(expr.RealType())), expr.MetaType("t"), 1)
		}},
		{"type/parts", func(t *testing.T) {
			target := expr.FuncType(expr.NatType(), expr.SetType(expr.RealType()))
			checkRoundTrip(t, target, expr.FuncType(expr.MetaType("d"), expr.MetaType("c")), 2)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}
}
