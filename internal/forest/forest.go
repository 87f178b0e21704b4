// Package forest records the branching history of a proof: which tactic
// turned which goal into which subgoals, and whether every branch has been
// closed.
//
// A Forest has a single owner. It does no locking; sessions that run in
// parallel each own their forest.
package forest

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"prover/internal/goal"
	"prover/internal/logging"
)

var (
	ErrUnknownNode  = errors.New("unknown proof node")
	ErrNotAGoal     = errors.New("proof node is not a goal")
	ErrTacticFailed = errors.New("tactic failed")
)

// Forest owns every node and edge of a proof attempt.
type Forest struct {
	initial goal.Goal
	nodes   *arena[Node]
	roots   []NodeID
	session uuid.UUID
	log     *zap.Logger
}

type Option func(*Forest)

// WithLogger logs applied steps at debug and failed ones at info.
func WithLogger(l *zap.Logger) Option {
	return func(f *Forest) {
		if l != nil {
			f.log = l
		}
	}
}

// WithSession fixes the session id instead of generating one.
func WithSession(id uuid.UUID) Option {
	return func(f *Forest) { f.session = id }
}

// New returns a forest with a single root holding initial.
func New(initial goal.Goal, opts ...Option) *Forest {
	f := newEmpty(initial, opts...)
	f.AddRoot("")
	return f
}

func newEmpty(initial goal.Goal, opts ...Option) *Forest {
	f := &Forest{
		initial: initial,
		nodes:   newArena[Node](16),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.session == uuid.Nil {
		f.session = uuid.New()
	}
	f.log = f.log.With(zap.String(logging.FieldSession, f.session.String()))
	return f
}

func (f *Forest) Initial() goal.Goal { return f.initial }
func (f *Forest) Session() uuid.UUID { return f.session }
func (f *Forest) Len() int           { return f.nodes.len() }

func (f *Forest) Roots() []NodeID {
	out := make([]NodeID, len(f.roots))
	copy(out, f.roots)
	return out
}

// AddRoot starts an independent attempt at the initial goal.
func (f *Forest) AddRoot(description string) NodeID {
	id := f.add(Node{Role: GoalRole(f.initial), Description: description})
	f.roots = append(f.roots, id)
	return id
}

// Get returns a copy of node id.
func (f *Forest) Get(id NodeID) (Node, bool) {
	n := f.nodes.get(id)
	if n == nil {
		return Node{}, false
	}
	return n.clone(), true
}

// Goal returns the goal held by a Goal node.
func (f *Forest) Goal(id NodeID) (goal.Goal, error) {
	n, err := f.goalNode(id)
	if err != nil {
		return goal.Goal{}, err
	}
	return n.Role.goal, nil
}

func (f *Forest) node(id NodeID) (*Node, error) {
	n := f.nodes.get(id)
	if n == nil {
		return nil, errors.Wrapf(ErrUnknownNode, "%s", id)
	}
	return n, nil
}

func (f *Forest) goalNode(id NodeID) (*Node, error) {
	n, err := f.node(id)
	if err != nil {
		return nil, err
	}
	if n.Role.kind != RoleGoal {
		return nil, errors.Wrapf(ErrNotAGoal, "%s is a %s node", id, n.Role.kind)
	}
	return n, nil
}

// add allocates n and links it under n.Parent.
func (f *Forest) add(n Node) NodeID {
	id := f.nodes.allocate(n)
	f.nodes.get(id).ID = id
	if p := f.nodes.get(n.Parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// SetStatus overrides the status of one node.
func (f *Forest) SetStatus(id NodeID, s Status) error {
	n, err := f.node(id)
	if err != nil {
		return err
	}
	n.Status = s
	return nil
}

// Describe attaches a free-form description.
func (f *Forest) Describe(id NodeID, text string) error {
	n, err := f.node(id)
	if err != nil {
		return err
	}
	n.Description = text
	return nil
}

// Abandon marks id and everything below it Abandoned.
func (f *Forest) Abandon(id NodeID) error {
	if _, err := f.node(id); err != nil {
		return err
	}
	f.walkFrom(id, 0, map[NodeID]bool{}, func(n *Node, _ int) bool {
		n.Status = StatusAbandoned
		return true
	})
	f.log.Info("branch abandoned", zap.Uint32(logging.FieldNode, uint32(id)))
	return nil
}

// Disprove records that the goal at id is false: a Disproved child is added
// and the node is abandoned.
func (f *Forest) Disprove(id NodeID, by, description string) (NodeID, error) {
	n, err := f.goalNode(id)
	if err != nil {
		return NoNode, err
	}
	n.Status = StatusAbandoned
	child := f.add(Node{Parent: id, Role: DisprovedRole(), Tactic: by, Status: StatusComplete, Description: description})
	f.log.Info("goal disproved",
		zap.Uint32(logging.FieldNode, uint32(id)),
		zap.String(logging.FieldTactic, by))
	return child, nil
}

// Walk visits nodes depth-first from every root, in creation order. fn
// returning false skips the node's children.
func (f *Forest) Walk(fn func(n Node, depth int) bool) {
	seen := map[NodeID]bool{}
	for _, r := range f.roots {
		f.walkFrom(r, 0, seen, func(n *Node, depth int) bool { return fn(n.clone(), depth) })
	}
}

func (f *Forest) walkFrom(id NodeID, depth int, seen map[NodeID]bool, fn func(n *Node, depth int) bool) {
	n := f.nodes.get(id)
	if n == nil || seen[id] {
		return
	}
	seen[id] = true
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		f.walkFrom(c, depth+1, seen, fn)
	}
}

// OpenGoals lists Goal leaves that are neither complete nor abandoned.
func (f *Forest) OpenGoals() []NodeID {
	var out []NodeID
	f.Walk(func(n Node, _ int) bool {
		if n.Status == StatusAbandoned {
			return false
		}
		if n.Role.kind == RoleGoal && n.IsLeaf() && n.Status != StatusComplete {
			out = append(out, n.ID)
		}
		return true
	})
	return out
}
