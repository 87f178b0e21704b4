package forest

// IsFullyProven reports whether every root's branch is complete. A branch
// is complete when it is a Complete leaf, or when all of its children are;
// a SubgoalManager child stands for the subgoals it lists, folded with its
// combination. Missing nodes, managers without subgoals and Disproved nodes
// count as incomplete. Forests without roots are not proven.
func (f *Forest) IsFullyProven() bool {
	if len(f.roots) == 0 {
		return false
	}
	for _, r := range f.roots {
		if !f.BranchComplete(r) {
			return false
		}
	}
	return true
}

// BranchComplete evaluates the completeness fold for the branch rooted at id.
func (f *Forest) BranchComplete(id NodeID) bool {
	return f.complete(id, map[NodeID]bool{})
}

func (f *Forest) complete(id NodeID, visiting map[NodeID]bool) bool {
	n := f.nodes.get(id)
	if n == nil || visiting[id] {
		return false
	}
	visiting[id] = true
	defer delete(visiting, id)

	switch n.Role.kind {
	case RoleDisproved:
		return false
	case RoleSubgoalManager:
		return f.combined(n, visiting)
	}
	if len(n.Children) == 0 {
		return n.Status == StatusComplete
	}

	governed := map[NodeID]bool{}
	for _, c := range n.Children {
		if m := f.nodes.get(c); m != nil && m.Role.kind == RoleSubgoalManager {
			for _, s := range m.Role.subgoals {
				governed[s] = true
			}
		}
	}
	for _, c := range n.Children {
		if governed[c] {
			continue
		}
		if !f.complete(c, visiting) {
			return false
		}
	}
	return true
}

func (f *Forest) combined(m *Node, visiting map[NodeID]bool) bool {
	subs := m.Role.subgoals
	if len(subs) == 0 {
		return false
	}
	switch m.Role.combination {
	case CombineOr:
		for _, s := range subs {
			if f.complete(s, visiting) {
				return true
			}
		}
		return false
	default:
		for _, s := range subs {
			if !f.complete(s, visiting) {
				return false
			}
		}
		return true
	}
}

// PropagateStatus marks Complete every Goal or SubgoalManager node whose
// branch is complete, and returns how many statuses changed.
func (f *Forest) PropagateStatus() int {
	changed := 0
	for i := range f.nodes.slice() {
		n := &f.nodes.slice()[i]
		if n.Status == StatusComplete || n.Status == StatusAbandoned {
			continue
		}
		if n.Role.kind != RoleGoal && n.Role.kind != RoleSubgoalManager {
			continue
		}
		if len(n.Children) == 0 && n.Role.kind == RoleGoal {
			continue
		}
		if f.complete(n.ID, map[NodeID]bool{}) {
			n.Status = StatusComplete
			changed++
		}
	}
	return changed
}
