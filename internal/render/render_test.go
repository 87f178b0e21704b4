package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prover/internal/expr"
	"prover/internal/forest"
	"prover/internal/goal"
	"prover/internal/tactic"
	"prover/internal/theory"
)

func provedImplication(t *testing.T) *forest.Forest {
	t.Helper()
	f := forest.New(goal.New(expr.Implies(expr.Pred("P"), expr.Pred("P"))))
	root := f.Roots()[0]
	kids, err := f.ApplyTactic(context.Background(), root, tactic.AssumeImplication{Hyp: "hp"})
	require.NoError(t, err)
	_, err = f.ApplyTactic(context.Background(), kids[0], tactic.Assumption{})
	require.NoError(t, err)
	f.PropagateStatus()
	return f
}

func TestForestPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Forest(&buf, provedImplication(t), Options{}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#1 complete    goal (P → P)", lines[0])
	assert.Equal(t, "  #2 complete    intro  goal P", lines[1])
	assert.Equal(t, "    #3 complete    assumption  completed", lines[2])
	assert.Equal(t, "(P → P): proven (3 nodes, 0 open goals)", lines[3])
}

func TestForestGoals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Forest(&buf, provedImplication(t), Options{Goals: true}))
	assert.Contains(t, buf.String(), "      hp : P\n      ⊢ P\n")
}

func TestForestColorAndWidth(t *testing.T) {
	f := forest.New(goal.New(expr.Pred("Q")))
	require.NoError(t, f.Describe(f.Roots()[0], "a rather long description of the root goal"))

	var plain bytes.Buffer
	require.NoError(t, Forest(&plain, f, Options{Width: 30}))
	first := strings.SplitN(plain.String(), "\n", 2)[0]
	assert.True(t, strings.HasSuffix(first, "…"), first)
	assert.Contains(t, plain.String(), "Q: open (1 nodes, 1 open goals)")

	var colored bytes.Buffer
	require.NoError(t, Forest(&colored, f, Options{Color: true}))
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestTheorems(t *testing.T) {
	reg := theory.NewRegistry()
	reg.MustRegister(theory.Theorem{
		Name:       "refl",
		Conclusion: expr.Compare(expr.RelEqual, expr.Var("a"), expr.Var("a")),
	})
	reg.MustRegister(theory.Theorem{
		Name:        "div_self",
		Hypotheses:  []expr.Located[expr.Relation]{expr.Compare(expr.RelNotEqual, expr.Var("a"), expr.Num(0))},
		Conclusion:  expr.Compare(expr.RelEqual, expr.Apply(expr.OpDiv, expr.Var("a"), expr.Var("a")), expr.Num(1)),
		Description: "needs a ≠ 0",
	})
	var buf bytes.Buffer
	require.NoError(t, Theorems(&buf, reg, false))
	assert.Equal(t,
		"div_self  a ≠ 0 ⊢ (a / a) = 1  # needs a ≠ 0\n"+
			"refl      a = a\n",
		buf.String())
}
