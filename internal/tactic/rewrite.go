package tactic

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/goal"
	"prover/internal/ident"
	"prover/internal/rewrite"
	"prover/internal/theory"
)

// Location picks the node a rewrite applies to. Node wins over Path; with
// neither set, the Occurrence-th node (pre-order, 0-based) that the rule
// matches is used.
type Location struct {
	Node       expr.NodeID
	Path       []int
	Occurrence int
}

func (l Location) String() string {
	switch {
	case l.Node.IsValid():
		return "#" + strconv.FormatUint(uint64(l.Node), 10)
	case l.Path != nil:
		parts := make([]string, len(l.Path))
		for i, p := range l.Path {
			parts[i] = strconv.Itoa(p)
		}
		return "/" + strings.Join(parts, "/")
	default:
		return "occurrence " + strconv.Itoa(l.Occurrence)
	}
}

// Rewrite applies a registered equation (or equivalence) at one node of the
// statement, or of hypothesis Hyp when set. Theorem hypotheses, specialised
// to the rewritten node, become additional goals.
type Rewrite struct {
	Theorems *theory.Registry
	Theorem  string
	At       Location
	Hyp      string
	Reverse  bool
	// Bindings force theorem parameters onto goal variables.
	Bindings map[string]string
	// NodeBindings force theorem parameters onto nodes of the rewritten
	// expression.
	NodeBindings map[string]expr.NodeID
}

func (t Rewrite) Name() string {
	if t.Reverse {
		return "rw ← " + t.Theorem
	}
	return "rw " + t.Theorem
}

type rewritten struct {
	root  expr.Located[expr.Relation]
	sides []expr.Located[expr.Relation]
}

func (t Rewrite) Apply(g goal.Goal) Outcome {
	th, err := t.Theorems.Lookup(t.Theorem)
	if err != nil {
		return Error(err)
	}
	root := g.Statement()
	var hyp goal.Entry
	if t.Hyp != "" {
		e, ok := g.Context().Lookup(ident.New(t.Hyp))
		if !ok || e.Kind != goal.EntryHypothesis {
			return Errorf("no hypothesis named %q", t.Hyp)
		}
		hyp, root = e, e.Prop
	}

	var res rewritten
	if lhs, rhs, ok := th.TermRule(); ok {
		res, err = rewriteIn(t, th, root, lhs, rhs)
	} else if lhs, rhs, ok := th.RelationRule(); ok {
		res, err = rewriteIn(t, th, root, lhs, rhs)
	} else {
		err = errors.Wrapf(theory.ErrNotARule, "%q", th.Name)
	}
	if err != nil {
		return Error(errors.Wrapf(err, "%s", t.Name()))
	}

	next := g.WithStatement(res.root)
	if t.Hyp != "" {
		hyp.Prop = res.root
		ctx, _ := g.Context().Replace(hyp.Name, hyp)
		next = g.WithContext(ctx)
	}
	if len(res.sides) == 0 {
		return Single(next)
	}
	goals := []goal.Goal{next}
	for _, side := range res.sides {
		goals = append(goals, g.WithStatement(side))
	}
	return Multi(goals...)
}

func (t Rewrite) manual() rewrite.Binding {
	var b rewrite.Binding
	for _, k := range slices.Sorted(maps.Keys(t.Bindings)) {
		b.BindIdent(k, t.Bindings[k])
	}
	for _, k := range slices.Sorted(maps.Keys(t.NodeBindings)) {
		b.BindNode(k, t.NodeBindings[k])
	}
	return b
}

func rewriteIn[P expr.Grammar[P]](t Rewrite, th theory.Theorem, root expr.Located[expr.Relation], lhs, rhs expr.Located[P]) (rewritten, error) {
	if t.Reverse {
		lhs, rhs = rhs, lhs
	}
	env := th.Env()
	id, err := locate(t.At, root, lhs, env)
	if err != nil {
		return rewritten{}, err
	}
	node, ok := expr.Find[P](root, id)
	if !ok {
		return rewritten{}, errors.Newf("%s does not address a rewritable node of %s", t.At, root)
	}
	inferred, full := rewrite.Match(node, lhs, env)
	if !full {
		return rewritten{}, errors.Newf("%s does not match %s", lhs, node)
	}
	manual := t.manual()
	b := rewrite.Merge(inferred, manual)
	if open := rewrite.Unbound(rhs, b, env); len(open) > 0 {
		names := make([]string, len(open))
		for i, n := range open {
			names[i] = n.Name()
		}
		return rewritten{}, errors.WithHintf(
			errors.Newf("parameters not determined by the match: %s", strings.Join(names, ", ")),
			"bind them explicitly, e.g. %s=x", names[0])
	}
	out, found := rewrite.TryReplace(root, id, lhs, rhs, manual, env)
	if !found {
		return rewritten{}, errors.AssertionFailedf("node %d vanished during rewrite", id)
	}
	res := rewritten{root: out}
	for _, h := range th.Hypotheses {
		res.sides = append(res.sides, expr.Refresh(rewrite.Substitute(h, b, node, env)))
	}
	return res, nil
}

func locate[P expr.Grammar[P]](at Location, root expr.Located[expr.Relation], lhs expr.Located[P], env rewrite.Env) (expr.NodeID, error) {
	switch {
	case at.Node.IsValid():
		return at.Node, nil
	case at.Path != nil:
		id, ok := expr.At(root, at.Path)
		if !ok {
			return expr.NoNodeID, errors.Newf("path %s does not exist in %s", at, root)
		}
		return id, nil
	}
	ids := expr.Occurrences(root, func(n expr.Located[P]) bool {
		_, ok := rewrite.Match(n, lhs, env)
		return ok
	})
	if at.Occurrence < 0 || at.Occurrence >= len(ids) {
		return expr.NoNodeID, errors.WithHintf(
			errors.Newf("%s does not occur in %s", lhs, root),
			"%d matching positions found", len(ids))
	}
	return ids[at.Occurrence], nil
}
