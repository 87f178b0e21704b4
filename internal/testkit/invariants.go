// Package testkit holds structural checks shared by tests.
package testkit

import (
	"slices"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"

	"prover/internal/forest"
)

// CheckForestInvariants verifies the links of a forest:
//  1. roots have no parent, every other node is listed by its parent;
//  2. child ids are in range and point back at their parent;
//  3. Completed and Disproved nodes are leaves with status Complete;
//  4. a subgoal manager's subgoals are its Goal siblings.
func CheckForestInvariants(f *forest.Forest) error {
	if f == nil {
		return errors.New("nil forest")
	}
	n, err := safecast.Conv[uint32](f.Len())
	if err != nil {
		return errors.Wrap(err, "forest size overflow")
	}
	last := forest.NodeID(n)

	for _, r := range f.Roots() {
		node, ok := f.Get(r)
		if !ok {
			return errors.Newf("root %s missing", r)
		}
		if node.Parent.IsValid() {
			return errors.Newf("root %s has parent %s", r, node.Parent)
		}
	}

	for id := forest.NodeID(1); id <= last; id++ {
		node, ok := f.Get(id)
		if !ok {
			return errors.Newf("node %s missing", id)
		}
		if node.Parent.IsValid() {
			parent, ok := f.Get(node.Parent)
			if !ok {
				return errors.Newf("node %s: parent %s missing", id, node.Parent)
			}
			if !slices.Contains(parent.Children, id) {
				return errors.Newf("node %s not listed by parent %s", id, node.Parent)
			}
		}
		for _, c := range node.Children {
			if !c.IsValid() || c > last {
				return errors.Newf("node %s: child %s out of range", id, c)
			}
			child, _ := f.Get(c)
			if child.Parent != id {
				return errors.Newf("node %s: child %s points at %s", id, c, child.Parent)
			}
		}
		switch node.Role.Kind() {
		case forest.RoleCompleted, forest.RoleDisproved:
			if !node.IsLeaf() {
				return errors.Newf("%s node %s has children", node.Role.Kind(), id)
			}
			if node.Status != forest.StatusComplete {
				return errors.Newf("%s node %s has status %s", node.Role.Kind(), id, node.Status)
			}
		case forest.RoleSubgoalManager:
			for _, s := range node.Role.Subgoals() {
				sib, ok := f.Get(s)
				if !ok || sib.Parent != node.Parent || sib.Role.Kind() != forest.RoleGoal {
					return errors.Newf("manager %s: subgoal %s is not a sibling goal", id, s)
				}
			}
		}
	}
	return nil
}
