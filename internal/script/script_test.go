package script

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prover/internal/forest"
	"prover/internal/tactic"
	"prover/internal/testkit"
	"prover/internal/theory"
)

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse("test.toml", []byte(src))
	require.NoError(t, err)
	return s
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse("bad.toml", []byte(`
[goal]
statement = "true"
colour = "red"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadScript))
	assert.Contains(t, err.Error(), "goal.colour")
}

func TestParseAllowsNestedExpressionKeys(t *testing.T) {
	s := mustParse(t, `
[goal]
statement = { forall = "x", type = "nat", body = { le = ["x", "x"] } }
`)
	g, err := s.BuildGoal()
	require.NoError(t, err)
	assert.Equal(t, "∀x : ℕ. x ≤ x", g.Statement().String())
}

func TestParseNeedsStatement(t *testing.T) {
	_, err := Parse("empty.toml", []byte(`name = "nothing"`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadScript))
}

func TestBuildGoal(t *testing.T) {
	s := mustParse(t, `
[goal]
variables = [{ name = "x", type = "nat" }]
hypotheses = [{ name = "H", prop = { le = ["x", 3] } }]
statement = { lt = ["x", 4] }
`)
	g, err := s.BuildGoal()
	require.NoError(t, err)
	assert.Equal(t, "x : ℕ\nH : x ≤ 3\n⊢ x < 4", g.String())
}

func TestBuildGoalQuantifiers(t *testing.T) {
	s := mustParse(t, `
[goal]
variables = [{ name = "x", type = "nat" }, { name = "y", type = "nat" }]
quantifiers = [{ var = "x", kind = "forall" }, { var = "y", kind = "exists!" }]
statement = { lt = ["x", "y"] }
`)
	g, err := s.BuildGoal()
	require.NoError(t, err)
	assert.Equal(t, "∀x. ∃!y. x < y", g.Target())

	s = mustParse(t, `
[goal]
quantifiers = [{ var = "z", kind = "forall" }]
statement = "true"
`)
	_, err = s.BuildGoal()
	assert.True(t, errors.Is(err, ErrBadScript))
}

func TestBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown operator": `statement = { eq = [{ plus = [1, 2] }, 3] }`,
		"arity":            `statement = { eq = [{ neg = [1, 2] }, 3] }`,
		"comparison":       `statement = { lt = ["x"] }`,
		"not":              `statement = { not = ["P", "Q"] }`,
		"two keys":         `statement = { and = ["P"], or = ["Q"] }`,
		"float":            `statement = { eq = [1.5, 1] }`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			s := mustParse(t, "[goal]\n"+body+"\n")
			_, err := s.BuildGoal()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadScript), "%v", err)
			assert.Contains(t, err.Error(), "goal.statement")
		})
	}
}

func TestRegistryAddsLemmas(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "lemma.toml"))
	require.NoError(t, err)
	base := theory.Standard()
	reg, err := s.Registry(base)
	require.NoError(t, err)
	assert.Equal(t, base.Len()+1, reg.Len())
	_, err = base.Lookup("two_mul")
	assert.Error(t, err, "base registry must stay untouched")

	s.Theorems = append(s.Theorems, TheoremSpec{Name: "add_comm", Conclusion: "true"})
	_, err = s.Registry(base)
	assert.True(t, errors.Is(err, theory.ErrDuplicate))
}

func TestRunExamples(t *testing.T) {
	for _, name := range []string{"add_comm", "modus_ponens", "lemma"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(filepath.Join("testdata", name+".toml"))
			require.NoError(t, err)
			require.NoError(t, s.Check(nil))

			var done []int
			res, err := s.Run(context.Background(), RunOptions{
				Progress: func(n, _ int) { done = append(done, n) },
			})
			require.NoError(t, err)
			assert.True(t, res.Proven, "forest:\n%v", res.Steps)
			assert.Len(t, res.Steps, len(s.Steps))
			assert.Len(t, done, len(s.Steps))
			assert.Empty(t, res.Forest.OpenGoals())
			assert.Len(t, res.Timer.Phases(), len(s.Steps)+1)
			assert.NoError(t, testkit.CheckForestInvariants(res.Forest))
		})
	}
}

func TestRunRecordsProofTerms(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "modus_ponens.toml"))
	require.NoError(t, err)
	log := &tactic.RuleLog{}
	_, err = s.Run(context.Background(), RunOptions{Foundation: log})
	require.NoError(t, err)
	assert.Equal(t, []string{"assumption", "true_intro"}, log.Rules)
}

func TestRunStopsOnFailure(t *testing.T) {
	s := mustParse(t, `
[goal]
statement = "P"

[[steps]]
tactic = "assumption"

[[steps]]
tactic = "trivial"
`)
	res, err := s.Run(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, forest.ErrTacticFailed))
	assert.Contains(t, err.Error(), "steps[0]")
	require.Len(t, res.Steps, 1)
	assert.False(t, res.Proven)
	assert.Len(t, res.Forest.OpenGoals(), 1)
}

func TestRunExpectFail(t *testing.T) {
	s := mustParse(t, `
[goal]
statement = "true"

[[steps]]
tactic = "assumption"
expect_fail = true

[[steps]]
tactic = "trivial"
`)
	res, err := s.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Error(t, res.Steps[0].Err)
	assert.True(t, res.Proven)

	s.Steps[1].ExpectFail = true
	_, err = s.Run(context.Background(), RunOptions{})
	assert.True(t, errors.Is(err, ErrUnexpectedPass))
}

func TestRunStepLimit(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "modus_ponens.toml"))
	require.NoError(t, err)
	res, err := s.Run(context.Background(), RunOptions{MaxSteps: 2})
	assert.True(t, errors.Is(err, ErrStepLimit))
	assert.Len(t, res.Steps, 2)
	assert.False(t, res.Proven)
}

func TestRunAbandonAndDisprove(t *testing.T) {
	s := mustParse(t, `
[goal]
statement = { and = ["P", "false"] }

[[steps]]
tactic = "split"

[[steps]]
tactic = "abandon"

[[steps]]
tactic = "disprove"
reason = "⊥ has no proof"
`)
	res, err := s.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.False(t, res.Proven)
	assert.Empty(t, res.Forest.OpenGoals())
	require.Len(t, res.Steps[2].Created, 1)
	n, ok := res.Forest.Get(res.Steps[2].Created[0])
	require.True(t, ok)
	assert.Equal(t, forest.RoleDisproved, n.Role.Kind())
	assert.Equal(t, "⊥ has no proof", n.Description)
	assert.NoError(t, testkit.CheckForestInvariants(res.Forest))
}

func TestCheckUnknownTactic(t *testing.T) {
	s := mustParse(t, `
[goal]
statement = "true"

[[steps]]
tactic = "magic"
`)
	err := s.Check(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadScript))
	assert.Contains(t, errors.FlattenHints(err), "intro")

	s.Steps[0] = StepSpec{Tactic: "rw", Theorem: "no_such_lemma"}
	assert.True(t, errors.Is(s.Check(nil), theory.ErrUnknown))
}
