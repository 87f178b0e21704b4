package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"prover/internal/ident"
)

func names(ids []ident.Ident) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name()
	}
	return out
}

func TestIndexFindsEveryGrammar(t *testing.T) {
	x := Var("x")
	dom := NatType()
	cond := Le(x, Num(3))
	set := SetBuilder("x", dom, cond)
	root := In(Var("a"), set)

	idx := BuildIndex(root)
	if got, ok := Lookup[Term](idx, x.ID()); !ok || !Equal(got, x) {
		t.Fatalf("term lookup failed")
	}
	if got, ok := Lookup[Relation](idx, cond.ID()); !ok || !Equal(got, cond) {
		t.Fatalf("relation lookup failed")
	}
	if _, ok := Lookup[TypeExpr](idx, dom.ID()); !ok {
		t.Fatalf("type lookup failed")
	}
	if _, ok := Lookup[Term](idx, cond.ID()); ok {
		t.Fatalf("lookup must respect the grammar of the node")
	}
	if !idx.Has(root.ID()) || idx.Has(Var("zzz").ID()) {
		t.Fatalf("Has is wrong")
	}
	if Size(root) != 7 {
		t.Fatalf("expected 7 nodes, got %d", Size(root))
	}
}

func TestRefreshKeepsShapeChangesIDs(t *testing.T) {
	root := And(Eq(Var("a"), MetaTerm("m")), Not(False()))
	cp := Refresh(root)
	if !Equal(root, cp) {
		t.Fatalf("refresh changed structure: %s vs %s", root, cp)
	}
	orig := BuildIndex(root)
	for _, id := range Occurrences[Term](cp, nil) {
		if orig.Has(id) {
			t.Fatalf("refreshed tree shares id %d with the original", id)
		}
	}
}

func TestMapChildrenWithoutChangeReturnsReceiver(t *testing.T) {
	r := And(True(), False())
	m := &Mapper{}
	out, changed := r.Value().MapChildren(m)
	if changed {
		t.Fatalf("nil mapper slots must not report changes")
	}
	if &out.Parts[0] != &r.Value().Parts[0] {
		t.Fatalf("unchanged children must not be reallocated")
	}
}

func TestPathAddressing(t *testing.T) {
	b := Var("b")
	root := Implies(Eq(Var("a"), b), Eq(b, Var("a")))
	id, ok := At(root, []int{0, 1})
	if !ok || id != b.ID() {
		t.Fatalf("At([0 1]) = %d, %v; want %d", id, ok, b.ID())
	}
	if _, ok := At(root, []int{3}); ok {
		t.Fatalf("out of range path must fail")
	}
	path, ok := PathOf(root, b.ID())
	if !ok {
		t.Fatalf("PathOf failed")
	}
	if diff := cmp.Diff([]int{0, 1}, path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if id, _ := At(root, nil); id != root.ID() {
		t.Fatalf("empty path must address the root")
	}
	if got := len(Children(root)); got != 2 {
		t.Fatalf("implication has 2 children, got %d", got)
	}
}

func TestOccurrencesPreOrder(t *testing.T) {
	root := Eq(Add(Var("a"), Var("b")), Add(Var("b"), Var("a")))
	adds := Occurrences[Term](root, func(n Located[Term]) bool {
		v, ok := n.ConcreteValue()
		return ok && v.Kind == TermApply && v.Op == OpAdd
	})
	if len(adds) != 2 || adds[0] != root.Value().Terms[0].ID() {
		t.Fatalf("unexpected occurrences %v", adds)
	}
}

func TestMetasAndFreeVars(t *testing.T) {
	r := ForAll("x", NatType(), And(
		Eq(Var("x"), Var("y")),
		In(MetaTerm("m"), SetBuilder("z", Located[TypeExpr]{}, Lt(Var("z"), Var("w")))),
		MetaRel("p"),
		MetaRel("m"),
	))
	if diff := cmp.Diff([]string{"m", "p"}, names(Metas(r))); diff != "" {
		t.Fatalf("metas (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"y", "w"}, names(FreeVars(r))); diff != "" {
		t.Fatalf("free vars (-want +got):\n%s", diff)
	}
}

func TestDocRoundTrip(t *testing.T) {
	root := Exists("s", SetType(IntType()), Subset(
		SetLit(Num(1), Neg(Var("k"))),
		SetBuilder("n", IntType(), Or(Pred("Even", Var("n")), MetaRel("q"))),
	))
	back, err := Decode[Relation](Encode(root))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !Equal(root, back) {
		t.Fatalf("round trip changed the expression:\n%s\n%s", root, back)
	}
	if back.ID() == root.ID() {
		t.Fatalf("decoded nodes must get fresh ids")
	}
	if _, err := Decode[Term](Doc{Kind: 200}); err == nil {
		t.Fatalf("unknown kinds must be rejected")
	}
}
