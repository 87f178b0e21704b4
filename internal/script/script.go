// Package script reads proof scripts (TOML files naming a goal, optional
// lemmas and a list of tactic steps) and replays them against a forest.
package script

import (
	"bytes"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/goal"
	"prover/internal/ident"
	"prover/internal/theory"
)

var ErrBadScript = errors.New("bad proof script")

// Script is a decoded proof script.
type Script struct {
	Name        string        `toml:"name"`
	Description string        `toml:"description"`
	Goal        GoalSpec      `toml:"goal"`
	Theorems    []TheoremSpec `toml:"theorems"`
	Steps       []StepSpec    `toml:"steps"`

	path string
}

type DeclSpec struct {
	Name        string `toml:"name"`
	Type        any    `toml:"type"`
	Prop        any    `toml:"prop"`
	Def         any    `toml:"def"`
	Description string `toml:"description"`
}

type QuantSpec struct {
	Var  string `toml:"var"`
	Kind string `toml:"kind"`
}

type GoalSpec struct {
	Variables   []DeclSpec  `toml:"variables"`
	Hypotheses  []DeclSpec  `toml:"hypotheses"`
	Definitions []DeclSpec  `toml:"definitions"`
	Quantifiers []QuantSpec `toml:"quantifiers"`
	Statement   any         `toml:"statement"`
}

type TheoremSpec struct {
	Name        string     `toml:"name"`
	Params      []DeclSpec `toml:"params"`
	Hypotheses  []any      `toml:"hypotheses"`
	Conclusion  any        `toml:"conclusion"`
	Description string     `toml:"description"`
}

// StepSpec is one tactic application. Node 0 means "first open goal".
type StepSpec struct {
	Tactic     string            `toml:"tactic"`
	Node       uint32            `toml:"node"`
	Hyp        string            `toml:"hyp"`
	Theorem    string            `toml:"theorem"`
	Reverse    bool              `toml:"reverse"`
	Path       []int             `toml:"path"`
	Occurrence int               `toml:"occurrence"`
	Bind       map[string]string `toml:"bind"`
	Reason     string            `toml:"reason"`
	ExpectFail bool              `toml:"expect_fail"`
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(name string, data []byte) (*Script, error) {
	var s Script
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", name), ErrBadScript)
	}
	var keys []string
	for _, k := range meta.Undecoded() {
		if !freeForm(k) {
			keys = append(keys, k.String())
		}
	}
	if len(keys) > 0 {
		return nil, errors.WithHint(
			errors.Mark(errors.Newf("%s: unknown keys %s", name, strings.Join(keys, ", ")), ErrBadScript),
			"top-level keys are name, description, goal, theorems and steps")
	}
	if !meta.IsDefined("goal", "statement") {
		return nil, errors.Mark(errors.Newf("%s: missing [goal].statement", name), ErrBadScript)
	}
	if s.Name == "" {
		s.Name = name
	}
	s.path = name
	return &s, nil
}

// Expression values are decoded into `any`; keys below them are not
// struct fields and must not be reported as unknown.
var freeFormKeys = map[string]bool{
	"statement":  true,
	"type":       true,
	"prop":       true,
	"def":        true,
	"conclusion": true,
}

func freeForm(k toml.Key) bool {
	for i, part := range k[:max(len(k)-1, 0)] {
		if freeFormKeys[part] || (i == 1 && part == "hypotheses" && k[0] == "theorems") {
			return true
		}
	}
	return false
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return Parse(path, data)
}

// Path is where the script was read from.
func (s *Script) Path() string { return s.path }

// BuildGoal assembles the initial goal: variables, then definitions, then
// hypotheses, quantifiers and the statement.
func (s *Script) BuildGoal() (goal.Goal, error) {
	g := goal.NewEmpty()
	for i, d := range s.Goal.Variables {
		path := indexPath("goal.variables", i)
		ty, err := Type(path+".type", d.Type)
		if err != nil {
			return goal.Goal{}, err
		}
		g, _ = g.WithEntry(goal.Entry{Kind: goal.EntryVariable, Name: ident.New(d.Name), Type: ty, Description: d.Description})
	}
	for i, d := range s.Goal.Definitions {
		path := indexPath("goal.definitions", i)
		ty, err := Type(path+".type", d.Type)
		if err != nil {
			return goal.Goal{}, err
		}
		def, err := Term(path+".def", d.Def)
		if err != nil {
			return goal.Goal{}, err
		}
		g, _ = g.WithEntry(goal.Entry{Kind: goal.EntryDefinition, Name: ident.New(d.Name), Type: ty, Def: &def, Description: d.Description})
	}
	for i, d := range s.Goal.Hypotheses {
		path := indexPath("goal.hypotheses", i)
		prop, err := Relation(path+".prop", d.Prop)
		if err != nil {
			return goal.Goal{}, err
		}
		g, _ = g.WithEntry(goal.Entry{
			Kind:        goal.EntryHypothesis,
			Name:        ident.New(d.Name),
			Type:        expr.PropType(),
			Prop:        prop,
			Description: d.Description,
		})
	}
	for i, q := range s.Goal.Quantifiers {
		kind, ok := goal.ParseQuantKind(q.Kind)
		if !ok {
			return goal.Goal{}, badValue(indexPath("goal.quantifiers", i), "unknown quantifier %q", q.Kind)
		}
		if !g.Context().Has(ident.New(q.Var)) {
			return goal.Goal{}, badValue(indexPath("goal.quantifiers", i), "%q is not declared", q.Var)
		}
		g = g.WithQuantifier(q.Var, kind)
	}
	stmt, err := Relation("goal.statement", s.Goal.Statement)
	if err != nil {
		return goal.Goal{}, err
	}
	g = g.WithStatement(stmt)
	if err := g.Verify(); err != nil {
		return goal.Goal{}, errors.Mark(err, ErrBadScript)
	}
	return g, nil
}

// Registry returns base extended with the script's theorems. base is not
// modified.
func (s *Script) Registry(base *theory.Registry) (*theory.Registry, error) {
	reg := base.Clone()
	for i, ts := range s.Theorems {
		path := indexPath("theorems", i)
		var params goal.Context
		for j, p := range ts.Params {
			ty, err := Type(indexPath(path+".params", j)+".type", p.Type)
			if err != nil {
				return nil, err
			}
			params = params.With(goal.Entry{Kind: goal.EntryVariable, Name: ident.New(p.Name), Type: ty})
		}
		hyps, err := relations(path+".hypotheses", anyList(ts.Hypotheses))
		if err != nil {
			return nil, err
		}
		concl, err := Relation(path+".conclusion", ts.Conclusion)
		if err != nil {
			return nil, err
		}
		th := theory.Theorem{
			Name:        ts.Name,
			Params:      params,
			Hypotheses:  hyps,
			Conclusion:  concl,
			Description: ts.Description,
		}
		if err := reg.Register(th); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s", path), ErrBadScript)
		}
	}
	return reg, nil
}

func anyList(xs []any) any {
	if xs == nil {
		return []any{}
	}
	return xs
}
