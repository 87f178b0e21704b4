package forest

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"prover/internal/logging"
	"prover/internal/tactic"
	"prover/internal/trace"
)

// ApplyTactic runs t on the goal held by node id and records the outcome
// as children of id. It returns the ids of the new children.
//
//   - single goal: one Goal child;
//   - multi goal: one Goal child per subgoal, plus a SubgoalManager (And)
//     child listing exactly those ids; an empty fan-out is an error;
//   - proof complete: one Completed child with status Complete;
//   - no change: one Goal child repeating the current goal;
//   - error: nothing is recorded and the error is returned, marked
//     ErrTacticFailed.
func (f *Forest) ApplyTactic(ctx context.Context, id NodeID, t tactic.Tactic) ([]NodeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := f.goalNode(id)
	if err != nil {
		return nil, err
	}
	current := n.Role.goal
	name := t.Name()

	ctx, step := trace.Start(ctx, trace.ScopeStep, "apply")
	step.WithExtra("node", strconv.FormatUint(uint64(id), 10)).WithExtra("tactic", name)
	_, span := trace.Start(ctx, trace.ScopeTactic, "tactic:"+name)
	out := t.Apply(current)
	span.End(out.Kind.String())
	if out.Kind == tactic.OutcomeMultiGoal && len(out.Goals) == 0 {
		out = tactic.Errorf("%s produced no subgoals", name)
	}

	var created []NodeID
	switch out.Kind {
	case tactic.OutcomeSingleGoal:
		created = append(created, f.add(Node{Parent: id, Role: GoalRole(out.Goal()), Tactic: name}))

	case tactic.OutcomeMultiGoal:
		for _, g := range out.Goals {
			created = append(created, f.add(Node{Parent: id, Role: GoalRole(g), Tactic: name}))
		}
		mgr := f.add(Node{
			Parent: id,
			Role:   ManagerRole(created, CombineAnd),
			Tactic: name,
			Status: StatusInProgress,
		})
		created = append(created, mgr)

	case tactic.OutcomeProofComplete:
		created = append(created, f.add(Node{
			Parent: id,
			Role:   CompletedRole(),
			Tactic: name,
			Status: StatusComplete,
			Proof:  out.Proof,
		}))

	case tactic.OutcomeNoChange:
		created = append(created, f.add(Node{Parent: id, Role: GoalRole(current), Tactic: name}))

	case tactic.OutcomeError:
		step.End("error")
		cause := out.Err
		if cause == nil {
			cause = errors.New("tactic failed")
		}
		f.log.Info("tactic failed",
			zap.Uint32(logging.FieldNode, uint32(id)),
			zap.String(logging.FieldTactic, name),
			zap.Error(cause))
		return nil, errors.Mark(errors.Wrapf(cause, "%s on %s", name, id), ErrTacticFailed)

	default:
		step.End("invalid")
		return nil, errors.AssertionFailedf("tactic %s returned an invalid outcome", name)
	}

	// add может перераспределить арену: узел берём заново
	if cur := f.nodes.get(id); cur.Status == StatusTodo {
		cur.Status = StatusInProgress
	}
	step.End(out.Kind.String())
	f.log.Debug("tactic applied",
		zap.Uint32(logging.FieldNode, uint32(id)),
		zap.String(logging.FieldTactic, name),
		zap.Stringer(logging.FieldOutcome, out.Kind),
		zap.Int(logging.FieldChildren, len(created)))
	return created, nil
}
