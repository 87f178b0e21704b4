package forest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"prover/internal/goal"
	"prover/internal/tactic"
)

// NodeID addresses a node of one forest; 0 is "no node".
type NodeID uint32

const NoNode NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNode }

func (id NodeID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

// RoleKind tags what a node stands for.
type RoleKind uint8

const (
	RoleInvalid RoleKind = iota
	RoleGoal
	RoleSubgoalManager
	RoleCompleted
	RoleDisproved
)

func (k RoleKind) String() string {
	switch k {
	case RoleGoal:
		return "goal"
	case RoleSubgoalManager:
		return "subgoals"
	case RoleCompleted:
		return "completed"
	case RoleDisproved:
		return "disproved"
	default:
		return "invalid"
	}
}

// Combination tells how a subgoal manager folds its subgoals.
type Combination uint8

const (
	CombineAnd Combination = iota + 1
	CombineOr
)

func (c Combination) String() string {
	switch c {
	case CombineAnd:
		return "and"
	case CombineOr:
		return "or"
	default:
		return "invalid"
	}
}

// Status is the bookkeeping state of a node.
type Status uint8

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusWip
	StatusComplete
	StatusAbandoned
)

var statusNames = [...]string{
	StatusTodo:       "todo",
	StatusInProgress: "in-progress",
	StatusWip:        "wip",
	StatusComplete:   "complete",
	StatusAbandoned:  "abandoned",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	i := slices.Index(statusNames[:], strings.ToLower(s))
	if i < 0 {
		return StatusTodo, false
	}
	return Status(i), true
}

// Role is a closed union; accessors panic when used against the wrong kind.
type Role struct {
	kind        RoleKind
	goal        goal.Goal
	subgoals    []NodeID
	combination Combination
}

func GoalRole(g goal.Goal) Role { return Role{kind: RoleGoal, goal: g} }

func ManagerRole(subgoals []NodeID, c Combination) Role {
	return Role{kind: RoleSubgoalManager, subgoals: slices.Clone(subgoals), combination: c}
}

func CompletedRole() Role { return Role{kind: RoleCompleted} }
func DisprovedRole() Role { return Role{kind: RoleDisproved} }

func (r Role) Kind() RoleKind { return r.kind }

func (r Role) Goal() goal.Goal {
	if r.kind != RoleGoal {
		panic(errors.AssertionFailedf("Goal() on %s role", r.kind))
	}
	return r.goal
}

func (r Role) Subgoals() []NodeID {
	if r.kind != RoleSubgoalManager {
		panic(errors.AssertionFailedf("Subgoals() on %s role", r.kind))
	}
	return slices.Clone(r.subgoals)
}

func (r Role) Combination() Combination {
	if r.kind != RoleSubgoalManager {
		panic(errors.AssertionFailedf("Combination() on %s role", r.kind))
	}
	return r.combination
}

func (r Role) String() string {
	switch r.kind {
	case RoleGoal:
		return "goal " + r.goal.Target()
	case RoleSubgoalManager:
		ids := make([]string, len(r.subgoals))
		for i, id := range r.subgoals {
			ids[i] = id.String()
		}
		return r.combination.String() + "[" + strings.Join(ids, " ") + "]"
	default:
		return r.kind.String()
	}
}

// Node is one step of the proof history. Values handed out by the forest
// are copies; mutate through Forest methods.
type Node struct {
	ID          NodeID
	Parent      NodeID
	Children    []NodeID
	Role        Role
	Tactic      string // empty only for synthetic roots
	Status      Status
	Description string
	Proof       tactic.ProofTerm
}

func (n Node) IsRoot() bool { return !n.Parent.IsValid() }
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

func (n Node) clone() Node {
	n.Children = slices.Clone(n.Children)
	return n
}
