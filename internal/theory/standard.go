package theory

import "prover/internal/expr"

type (
	term = expr.Located[expr.Term]
	rel  = expr.Located[expr.Relation]
)

func group() expr.Located[expr.TypeExpr] { return expr.NamedType("G") }

// Standard builds the default catalog: ring identities over ℝ, group laws
// over a carrier G and a few propositional equivalences.
func Standard() *Registry {
	r := NewRegistry()
	a := func() term { return expr.Var("a") }
	b := func() term { return expr.Var("b") }
	c := func() term { return expr.Var("c") }
	p := func() rel { return expr.MetaRel("P") }
	q := func() rel { return expr.MetaRel("Q") }

	for _, th := range []Theorem{
		{Name: "add_comm", Params: params(expr.RealType, "a", "b"),
			Conclusion: expr.Eq(expr.Add(a(), b()), expr.Add(b(), a()))},
		{Name: "add_assoc", Params: params(expr.RealType, "a", "b", "c"),
			Conclusion: expr.Eq(expr.Add(expr.Add(a(), b()), c()), expr.Add(a(), expr.Add(b(), c())))},
		{Name: "add_zero", Params: params(expr.RealType, "a"),
			Conclusion: expr.Eq(expr.Add(a(), expr.Num(0)), a())},
		{Name: "mul_comm", Params: params(expr.RealType, "a", "b"),
			Conclusion: expr.Eq(expr.Mul(a(), b()), expr.Mul(b(), a()))},
		{Name: "mul_assoc", Params: params(expr.RealType, "a", "b", "c"),
			Conclusion: expr.Eq(expr.Mul(expr.Mul(a(), b()), c()), expr.Mul(a(), expr.Mul(b(), c())))},
		{Name: "mul_one", Params: params(expr.RealType, "a"),
			Conclusion: expr.Eq(expr.Mul(a(), expr.Num(1)), a())},
		{Name: "mul_zero", Params: params(expr.RealType, "a"),
			Conclusion: expr.Eq(expr.Mul(a(), expr.Num(0)), expr.Num(0))},
		{Name: "left_distrib", Params: params(expr.RealType, "a", "b", "c"),
			Conclusion: expr.Eq(expr.Mul(a(), expr.Add(b(), c())), expr.Add(expr.Mul(a(), b()), expr.Mul(a(), c())))},
		{Name: "sub_self", Params: params(expr.RealType, "a"),
			Conclusion: expr.Eq(expr.Sub(a(), a()), expr.Num(0))},
		{Name: "neg_neg", Params: params(expr.RealType, "a"),
			Conclusion: expr.Eq(expr.Neg(expr.Neg(a())), a())},
		{Name: "div_self", Params: params(expr.RealType, "a"),
			Hypotheses:  []rel{expr.Neq(a(), expr.Num(0))},
			Conclusion:  expr.Eq(expr.Div(a(), a()), expr.Num(1)),
			Description: "requires a ≠ 0"},
		{Name: "group_assoc", Params: params(group, "a", "b", "c"),
			Conclusion: expr.Eq(expr.Compose(expr.Compose(a(), b()), c()), expr.Compose(a(), expr.Compose(b(), c())))},
		{Name: "group_mul_id", Params: params(group, "a"),
			Conclusion: expr.Eq(expr.Compose(a(), expr.Identity()), a())},
		{Name: "group_id_mul", Params: params(group, "a"),
			Conclusion: expr.Eq(expr.Compose(expr.Identity(), a()), a())},
		{Name: "group_mul_inv", Params: params(group, "a"),
			Conclusion: expr.Eq(expr.Compose(a(), expr.Inverse(a())), expr.Identity())},
		{Name: "group_inv_inv", Params: params(group, "a"),
			Conclusion: expr.Eq(expr.Inverse(expr.Inverse(a())), a())},
		{Name: "and_comm",
			Conclusion: expr.Iff(expr.And(p(), q()), expr.And(q(), p()))},
		{Name: "or_comm",
			Conclusion: expr.Iff(expr.Or(p(), q()), expr.Or(q(), p()))},
		{Name: "not_not",
			Conclusion: expr.Iff(expr.Not(expr.Not(p())), p())},
	} {
		r.MustRegister(th)
	}
	return r
}
