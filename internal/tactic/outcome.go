// Package tactic defines the contract by which a proof step turns one goal
// into zero, one or many goals, and ships a handful of reference tactics.
//
// Ordinary failure (wrong shape, no matching hypothesis) is an Error
// outcome. Panics are reserved for programming errors.
package tactic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"prover/internal/goal"
)

// OutcomeKind tags the result of applying a tactic.
type OutcomeKind uint8

const (
	OutcomeInvalid OutcomeKind = iota
	OutcomeSingleGoal
	OutcomeMultiGoal
	OutcomeProofComplete
	OutcomeNoChange
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSingleGoal:
		return "single"
	case OutcomeMultiGoal:
		return "multi"
	case OutcomeProofComplete:
		return "complete"
	case OutcomeNoChange:
		return "no-change"
	case OutcomeError:
		return "error"
	default:
		return "invalid"
	}
}

// Outcome is what Tactic.Apply returns. Goals is set for single and multi
// outcomes, Err for errors. Proof optionally carries a foundation proof
// term for closing tactics.
type Outcome struct {
	Kind  OutcomeKind
	Goals []goal.Goal
	Err   error
	Proof ProofTerm
}

func Single(g goal.Goal) Outcome { return Outcome{Kind: OutcomeSingleGoal, Goals: []goal.Goal{g}} }

// Multi fans out into independent subgoals, all of which must be proved.
func Multi(gs ...goal.Goal) Outcome { return Outcome{Kind: OutcomeMultiGoal, Goals: gs} }

func Complete() Outcome { return Outcome{Kind: OutcomeProofComplete} }

func NoChange() Outcome { return Outcome{Kind: OutcomeNoChange} }

func Error(err error) Outcome {
	if err == nil {
		err = errors.New("tactic failed")
	}
	return Outcome{Kind: OutcomeError, Err: err}
}

func Errorf(format string, args ...any) Outcome {
	return Error(errors.Newf(format, args...))
}

// WithProof attaches a proof term.
func (o Outcome) WithProof(p ProofTerm) Outcome {
	o.Proof = p
	return o
}

func (o Outcome) IsError() bool { return o.Kind == OutcomeError }

// Goal returns the goal of a single outcome and panics otherwise.
func (o Outcome) Goal() goal.Goal {
	if o.Kind != OutcomeSingleGoal || len(o.Goals) != 1 {
		panic(errors.AssertionFailedf("Goal() on %s outcome", o.Kind))
	}
	return o.Goals[0]
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSingleGoal, OutcomeMultiGoal:
		parts := make([]string, len(o.Goals))
		for i, g := range o.Goals {
			parts[i] = g.Target()
		}
		return fmt.Sprintf("%s[%s]", o.Kind, strings.Join(parts, "; "))
	case OutcomeError:
		return fmt.Sprintf("error: %v", o.Err)
	default:
		return o.Kind.String()
	}
}
