package forest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"prover/internal/goal"
)

// snapshotSchema is bumped whenever snapshotDoc changes shape.
const snapshotSchema uint16 = 1

var ErrSnapshot = errors.New("invalid forest snapshot")

type snapshotDoc struct {
	Schema  uint16    `msgpack:"schema"`
	Session string    `msgpack:"session"`
	Initial goal.Doc  `msgpack:"initial"`
	Roots   []NodeID  `msgpack:"roots"`
	Nodes   []nodeDoc `msgpack:"nodes"`
}

type nodeDoc struct {
	Parent      NodeID    `msgpack:"parent,omitempty"`
	Children    []NodeID  `msgpack:"children,omitempty"`
	Role        uint8     `msgpack:"role"`
	Goal        *goal.Doc `msgpack:"goal,omitempty"`
	Subgoals    []NodeID  `msgpack:"subgoals,omitempty"`
	Combination uint8     `msgpack:"comb,omitempty"`
	Tactic      string    `msgpack:"tactic,omitempty"`
	Status      uint8     `msgpack:"status"`
	Description string    `msgpack:"desc,omitempty"`
	Proof       string    `msgpack:"proof,omitempty"`
}

// Encode writes a msgpack snapshot of f. Node ids are preserved; expression
// node ids are not. Proof terms are stored in their printed form.
func (f *Forest) Encode(w io.Writer) error {
	doc := snapshotDoc{
		Schema:  snapshotSchema,
		Session: f.session.String(),
		Initial: f.initial.Encode(),
		Roots:   f.roots,
	}
	for _, n := range f.nodes.slice() {
		nd := nodeDoc{
			Parent:      n.Parent,
			Children:    n.Children,
			Role:        uint8(n.Role.kind),
			Tactic:      n.Tactic,
			Status:      uint8(n.Status),
			Description: n.Description,
		}
		switch n.Role.kind {
		case RoleGoal:
			gd := n.Role.goal.Encode()
			nd.Goal = &gd
		case RoleSubgoalManager:
			nd.Subgoals = n.Role.subgoals
			nd.Combination = uint8(n.Role.combination)
		}
		if n.Proof != nil {
			nd.Proof = fmt.Sprint(n.Proof)
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return errors.Wrap(msgpack.NewEncoder(w).Encode(&doc), "encode forest")
}

// Decode reads a snapshot written by Encode and checks its links.
func Decode(r io.Reader, opts ...Option) (*Forest, error) {
	var doc snapshotDoc
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode forest"), ErrSnapshot)
	}
	if doc.Schema != snapshotSchema {
		return nil, errors.WithHintf(
			errors.Wrapf(ErrSnapshot, "schema %d, expected %d", doc.Schema, snapshotSchema),
			"re-run the proof script to regenerate the snapshot")
	}
	session, err := uuid.Parse(doc.Session)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "session id"), ErrSnapshot)
	}
	initial, err := goal.Decode(doc.Initial)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "initial goal"), ErrSnapshot)
	}

	f := newEmpty(initial, append([]Option{WithSession(session)}, opts...)...)
	for i, nd := range doc.Nodes {
		n, err := decodeNode(nd)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "node %d", i+1), ErrSnapshot)
		}
		id := f.nodes.allocate(n)
		f.nodes.get(id).ID = id
	}
	f.roots = doc.Roots
	if err := f.validate(); err != nil {
		return nil, errors.Mark(err, ErrSnapshot)
	}
	return f, nil
}

func decodeNode(nd nodeDoc) (Node, error) {
	n := Node{
		Parent:      nd.Parent,
		Children:    nd.Children,
		Tactic:      nd.Tactic,
		Status:      Status(nd.Status),
		Description: nd.Description,
	}
	if nd.Proof != "" {
		n.Proof = nd.Proof
	}
	if int(nd.Status) >= len(statusNames) {
		return Node{}, errors.Newf("unknown status %d", nd.Status)
	}
	switch RoleKind(nd.Role) {
	case RoleGoal:
		if nd.Goal == nil {
			return Node{}, errors.New("goal node without goal")
		}
		g, err := goal.Decode(*nd.Goal)
		if err != nil {
			return Node{}, err
		}
		n.Role = GoalRole(g)
	case RoleSubgoalManager:
		c := Combination(nd.Combination)
		if c != CombineAnd && c != CombineOr {
			return Node{}, errors.Newf("unknown combination %d", nd.Combination)
		}
		n.Role = ManagerRole(nd.Subgoals, c)
	case RoleCompleted:
		n.Role = CompletedRole()
	case RoleDisproved:
		n.Role = DisprovedRole()
	default:
		return Node{}, errors.Newf("unknown role %d", nd.Role)
	}
	return n, nil
}

// validate checks that every edge points at an existing node and that
// parent and child links agree.
func (f *Forest) validate() error {
	for _, r := range f.roots {
		n := f.nodes.get(r)
		if n == nil || n.Parent.IsValid() {
			return errors.Newf("root %s is missing or has a parent", r)
		}
	}
	for _, n := range f.nodes.slice() {
		if n.Parent.IsValid() && f.nodes.get(n.Parent) == nil {
			return errors.Newf("%s: dangling parent %s", n.ID, n.Parent)
		}
		for _, c := range n.Children {
			child := f.nodes.get(c)
			if child == nil || child.Parent != n.ID {
				return errors.Newf("%s: bad child link %s", n.ID, c)
			}
		}
		if n.Role.kind == RoleSubgoalManager {
			for _, s := range n.Role.subgoals {
				if sub := f.nodes.get(s); sub == nil || sub.Parent != n.Parent {
					return errors.Newf("%s: subgoal %s is not a sibling", n.ID, s)
				}
			}
		}
	}
	return nil
}

// Save writes a snapshot to path atomically.
func (f *Forest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create snapshot dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".forest-*")
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := f.Encode(tmp); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close snapshot")
	}
	// атомарная замена
	return errors.Wrap(os.Rename(tmp.Name(), path), "install snapshot")
}

// Load reads a snapshot file.
func Load(path string, opts ...Option) (*Forest, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer fh.Close() //nolint:errcheck
	return Decode(fh, opts...)
}
