package script

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"prover/internal/expr"
)

// Expressions are written as TOML values:
//
//	"x", "?x"                 variable, placeholder
//	3                         number
//	{ add = ["x", 1] }        operator application (add, sub, mul, div, pow,
//	                          neg, compose, inverse, identity)
//	{ call = ["f", "x"] }     named function
//	{ set = [1, 2] }          set literal
//	{ setof = "x", type = "nat", where = {...} }
//
// Relations:
//
//	"true", "false", "P", "?P"
//	{ eq = ["a", "b"] }       eq, neq, lt, le, in, subset
//	{ and = [...] }           and, or, implies, iff, not
//	{ pred = ["P", "x"] }
//	{ forall = "x", type = "nat", body = {...} }   forall, exists
//
// Types: "nat", "int", "real", "prop", any other name, "?T",
// { set = "nat" }, { fn = ["nat", "real"] }, { product = [...] }.

func badValue(path string, format string, args ...any) error {
	return errors.Mark(errors.Newf("%s: "+format, append([]any{path}, args...)...), ErrBadScript)
}

func singleKey(path string, m map[string]any) (string, any, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return "", nil, badValue(path, "expected a single-key table, got keys %v", keys)
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}

func asList(v any) []any {
	if xs, ok := v.([]any); ok {
		return xs
	}
	if xs, ok := v.([]map[string]any); ok {
		out := make([]any, len(xs))
		for i, x := range xs {
			out[i] = x
		}
		return out
	}
	return []any{v}
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", badValue(path, "expected a non-empty string, got %v", v)
	}
	return s, nil
}

func metaName(s string) (string, bool) {
	if name, ok := strings.CutPrefix(s, "?"); ok && name != "" {
		return name, true
	}
	return "", false
}

// Term decodes a term value.
func Term(path string, v any) (expr.Located[expr.Term], error) {
	switch x := v.(type) {
	case string:
		if name, ok := metaName(x); ok {
			return expr.MetaTerm(name), nil
		}
		if x == "" {
			return expr.Located[expr.Term]{}, badValue(path, "empty variable name")
		}
		return expr.Var(x), nil
	case int64:
		return expr.Num(x), nil
	case map[string]any:
		return termTable(path, x)
	}
	return expr.Located[expr.Term]{}, badValue(path, "cannot read %T as a term", v)
}

func terms(path string, v any) ([]expr.Located[expr.Term], error) {
	items := asList(v)
	out := make([]expr.Located[expr.Term], 0, len(items))
	for i, it := range items {
		t, err := Term(indexPath(path, i), it)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func termTable(path string, m map[string]any) (expr.Located[expr.Term], error) {
	var zero expr.Located[expr.Term]
	if binder, ok := m["setof"]; ok {
		name, err := asString(path+".setof", binder)
		if err != nil {
			return zero, err
		}
		dom, err := Type(path+".type", m["type"])
		if err != nil {
			return zero, err
		}
		cond, err := Relation(path+".where", m["where"])
		if err != nil {
			return zero, err
		}
		return expr.SetBuilder(name, dom, cond), nil
	}

	key, val, err := singleKey(path, m)
	if err != nil {
		return zero, err
	}
	sub := path + "." + key
	switch key {
	case "set":
		args, err := terms(sub, val)
		if err != nil {
			return zero, err
		}
		return expr.SetLit(args...), nil
	case "call":
		items := asList(val)
		if len(items) == 0 {
			return zero, badValue(sub, "call needs a function name")
		}
		fn, err := asString(sub, items[0])
		if err != nil {
			return zero, err
		}
		args, err := terms(sub, items[1:])
		if err != nil {
			return zero, err
		}
		return expr.Call(fn, args...), nil
	}
	op, ok := expr.ParseOperator(key)
	if !ok {
		return zero, badValue(path, "unknown operator %q", key)
	}
	var args []expr.Located[expr.Term]
	if op.Arity() > 0 {
		if args, err = terms(sub, val); err != nil {
			return zero, err
		}
	}
	if len(args) != op.Arity() {
		return zero, badValue(sub, "%s takes %d operands, got %d", op, op.Arity(), len(args))
	}
	return expr.Apply(op, args...), nil
}

// Relation decodes a relation value.
func Relation(path string, v any) (expr.Located[expr.Relation], error) {
	var zero expr.Located[expr.Relation]
	switch x := v.(type) {
	case string:
		switch x {
		case "true":
			return expr.True(), nil
		case "false":
			return expr.False(), nil
		case "":
			return zero, badValue(path, "empty proposition")
		}
		if name, ok := metaName(x); ok {
			return expr.MetaRel(name), nil
		}
		return expr.Pred(x), nil
	case bool:
		if x {
			return expr.True(), nil
		}
		return expr.False(), nil
	case map[string]any:
		return relationTable(path, x)
	case nil:
		return zero, badValue(path, "missing proposition")
	}
	return zero, badValue(path, "cannot read %T as a proposition", v)
}

func relations(path string, v any) ([]expr.Located[expr.Relation], error) {
	items := asList(v)
	out := make([]expr.Located[expr.Relation], 0, len(items))
	for i, it := range items {
		r, err := Relation(indexPath(path, i), it)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func relationTable(path string, m map[string]any) (expr.Located[expr.Relation], error) {
	var zero expr.Located[expr.Relation]
	for _, q := range []string{"forall", "exists"} {
		binder, ok := m[q]
		if !ok {
			continue
		}
		name, err := asString(path+"."+q, binder)
		if err != nil {
			return zero, err
		}
		dom, err := Type(path+".type", m["type"])
		if err != nil {
			return zero, err
		}
		body, err := Relation(path+".body", m["body"])
		if err != nil {
			return zero, err
		}
		if q == "forall" {
			return expr.ForAll(name, dom, body), nil
		}
		return expr.Exists(name, dom, body), nil
	}

	key, val, err := singleKey(path, m)
	if err != nil {
		return zero, err
	}
	sub := path + "." + key
	kind, ok := expr.ParseRelKind(key)
	if !ok {
		return zero, badValue(path, "unknown relation %q", key)
	}
	switch {
	case kind.IsComparison():
		ts, err := terms(sub, val)
		if err != nil {
			return zero, err
		}
		if len(ts) != 2 {
			return zero, badValue(sub, "%s takes two operands, got %d", key, len(ts))
		}
		return expr.Compare(kind, ts[0], ts[1]), nil
	case kind == expr.RelPredicate:
		items := asList(val)
		if len(items) == 0 {
			return zero, badValue(sub, "pred needs a name")
		}
		name, err := asString(sub, items[0])
		if err != nil {
			return zero, err
		}
		args, err := terms(sub, items[1:])
		if err != nil {
			return zero, err
		}
		return expr.Pred(name, args...), nil
	case kind.IsConnective():
		parts, err := relations(sub, val)
		if err != nil {
			return zero, err
		}
		return connective(sub, kind, parts)
	}
	return zero, badValue(path, "%q is not written as a table", key)
}

func connective(path string, kind expr.RelKind, parts []expr.Located[expr.Relation]) (expr.Located[expr.Relation], error) {
	var zero expr.Located[expr.Relation]
	switch kind {
	case expr.RelAnd:
		return expr.And(parts...), nil
	case expr.RelOr:
		return expr.Or(parts...), nil
	case expr.RelNot:
		if len(parts) != 1 {
			return zero, badValue(path, "not takes one operand, got %d", len(parts))
		}
		return expr.Not(parts[0]), nil
	}
	if len(parts) != 2 {
		return zero, badValue(path, "%s takes two operands, got %d", kind, len(parts))
	}
	if kind == expr.RelImplies {
		return expr.Implies(parts[0], parts[1]), nil
	}
	return expr.Iff(parts[0], parts[1]), nil
}

// Type decodes a type value.
func Type(path string, v any) (expr.Located[expr.TypeExpr], error) {
	var zero expr.Located[expr.TypeExpr]
	switch x := v.(type) {
	case string:
		if name, ok := metaName(x); ok {
			return expr.MetaType(name), nil
		}
		switch x {
		case "prop":
			return expr.PropType(), nil
		case "nat":
			return expr.NatType(), nil
		case "int":
			return expr.IntType(), nil
		case "real":
			return expr.RealType(), nil
		case "":
			return zero, badValue(path, "empty type name")
		}
		return expr.NamedType(x), nil
	case map[string]any:
		key, val, err := singleKey(path, x)
		if err != nil {
			return zero, err
		}
		sub := path + "." + key
		items := asList(val)
		parts := make([]expr.Located[expr.TypeExpr], 0, len(items))
		for i, it := range items {
			p, err := Type(indexPath(sub, i), it)
			if err != nil {
				return zero, err
			}
			parts = append(parts, p)
		}
		switch key {
		case "set":
			if len(parts) != 1 {
				return zero, badValue(sub, "set takes one element type")
			}
			return expr.SetType(parts[0]), nil
		case "fn":
			if len(parts) != 2 {
				return zero, badValue(sub, "fn takes a domain and a codomain")
			}
			return expr.FuncType(parts[0], parts[1]), nil
		case "product":
			return expr.ProductType(parts...), nil
		}
		return zero, badValue(path, "unknown type constructor %q", key)
	case nil:
		return zero, badValue(path, "missing type")
	}
	return zero, badValue(path, "cannot read %T as a type", v)
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
