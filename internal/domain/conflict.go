package domain

import "slices"

// ConflictStatus is the per-node conflict record kept by a ConflictTracker.
// Missing and duplicate are independent axes; a subtree can be both.
type ConflictStatus struct {
	Missing         bool
	IsMissingRoot   bool
	Duplicate       bool
	IsDuplicateRoot bool

	// TreePath is the child-index path at first traversal. It never
	// changes afterwards, even when the node moves.
	TreePath []int
}

// ConflictInfo summarizes the conflict state of a scene for warning banners
type ConflictInfo struct {
	Missing   bool `json:"missing"`
	Duplicate bool `json:"duplicate"`
}

// Resolution reports a missing placeholder whose real parent now exists.
// The caller moves the placeholder's children under Target and removes it.
type Resolution struct {
	Placeholder *Node
	Target      *Node
}

// ConflictTracker tracks duplicate names and missing parents over one live
// scene tree. Status is kept in a side table keyed by node ID. It assumes a
// single writer.
type ConflictTracker struct {
	names  *NameAllocator
	status map[NodeID]*ConflictStatus
	paths  map[string]NodeID
}

// NewConflictTracker creates an empty tracker
func NewConflictTracker() *ConflictTracker {
	return &ConflictTracker{
		names:  NewNameAllocator(),
		status: make(map[NodeID]*ConflictStatus),
		paths:  make(map[string]NodeID),
	}
}

// Status returns a copy of the status record of n
func (t *ConflictTracker) Status(n *Node) (ConflictStatus, bool) {
	st, ok := t.status[n.ID]
	if !ok {
		return ConflictStatus{}, false
	}
	out := *st
	out.TreePath = slices.Clone(st.TreePath)
	return out, true
}

func (t *ConflictTracker) statusOf(n *Node) *ConflictStatus {
	st, ok := t.status[n.ID]
	if !ok {
		st = &ConflictStatus{}
		t.status[n.ID] = st
	}
	return st
}

// AssignTreePaths gives every node seen for the first time its tree path,
// and names unnamed nodes after it. Already known nodes keep their path.
func (t *ConflictTracker) AssignTreePaths(root *Node) {
	root.Walk(func(n *Node) bool {
		st := t.statusOf(n)
		if st.TreePath == nil {
			path := n.Position()
			if path == nil {
				path = []int{}
			}
			// A node that moved may still hold the key of this position.
			for {
				if _, taken := t.paths[TreePathKey(path)]; !taken {
					break
				}
				path = append(path, 0)
			}
			st.TreePath = path
			t.paths[TreePathKey(path)] = n.ID
		}
		if n.Name == "" {
			n.Name = UnnamedNodeName(st.TreePath)
		}
		return true
	})
}

// AddToDuplicateNameCounters registers a use of name and returns the name
// the node must carry to stay unique.
func (t *ConflictTracker) AddToDuplicateNameCounters(name string) string {
	return t.names.Add(name)
}

// RemoveFromDuplicateNameCounters releases one use of name
func (t *ConflictTracker) RemoveFromDuplicateNameCounters(name string) {
	t.names.Remove(name)
}

// IsUniqueObjectName reports whether name is free for a new node
func (t *ConflictTracker) IsUniqueObjectName(name string) bool {
	return t.names.IsUnique(name)
}

// DuplicateCounter exposes the stored counter of a base name
func (t *ConflictTracker) DuplicateCounter(base string) (int, bool) {
	return t.names.Counter(base)
}

// PruneUnusedBases rescans the names in use under root and drops counters
// for bases no live node carries anymore.
func (t *ConflictTracker) PruneUnusedBases(root *Node) []string {
	t.names.Rebuild(collectNames(root))
	return t.names.PruneUnused()
}

// MarkMissingRoot flags n as a placeholder for a parent that does not exist
func (t *ConflictTracker) MarkMissingRoot(n *Node) {
	st := t.statusOf(n)
	st.IsMissingRoot = true
	st.Missing = true
}

// IsMissingRoot reports whether n is a missing-parent placeholder
func (t *ConflictTracker) IsMissingRoot(n *Node) bool {
	st, ok := t.status[n.ID]
	return ok && st.IsMissingRoot
}

// UpdateNodesMissingStatus copies the missing flag from parent to child,
// top-down. Missing roots and duplicate roots start their own subtree
// status, so duplicate status must be current before this runs.
func (t *ConflictTracker) UpdateNodesMissingStatus(root *Node) {
	var walk func(n *Node, parentMissing bool)
	walk = func(n *Node, parentMissing bool) {
		st := t.statusOf(n)
		st.Missing = st.IsMissingRoot || (parentMissing && !st.IsDuplicateRoot)
		for _, c := range n.Children {
			walk(c, st.Missing)
		}
	}
	walk(root, false)
}

// UpdateAllDuplicateStatus flags every non-root node whose name is carried
// by more than one live node. Only the shallowest flagged node of a chain
// is a duplicate root; its descendants inherit the flag.
func (t *ConflictTracker) UpdateAllDuplicateStatus(root *Node) {
	t.names.Rebuild(collectNames(root))

	var walk func(n *Node, parentDuplicate bool)
	walk = func(n *Node, parentDuplicate bool) {
		st := t.statusOf(n)
		own := n != root && t.names.Refs(n.Name) > 1
		st.IsDuplicateRoot = own && !parentDuplicate
		st.Duplicate = own || parentDuplicate
		for _, c := range n.Children {
			walk(c, st.Duplicate)
		}
	}
	walk(root, false)
}

// CheckResolvedMissingRoot finds placeholders whose name is now carried by
// a real node elsewhere in the tree, clears their flags and reports them.
// It does not touch the tree structure.
func (t *ConflictTracker) CheckResolvedMissingRoot(root *Node) []Resolution {
	var placeholders []*Node
	root.Walk(func(n *Node) bool {
		if t.IsMissingRoot(n) {
			placeholders = append(placeholders, n)
		}
		return true
	})

	var resolved []Resolution
	for _, p := range placeholders {
		target := t.findReal(root, p.Name, p)
		if target == nil {
			continue
		}
		st := t.statusOf(p)
		st.IsMissingRoot = false
		st.Missing = false
		resolved = append(resolved, Resolution{Placeholder: p, Target: target})
	}
	return resolved
}

func (t *ConflictTracker) findReal(root *Node, name string, exclude *Node) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n == exclude {
			return false
		}
		if n.Name == name && !t.IsMissingRoot(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// Forget drops the side-table entries of every node in the subtree
func (t *ConflictTracker) Forget(subtree *Node) {
	subtree.Walk(func(n *Node) bool {
		if st, ok := t.status[n.ID]; ok {
			if st.TreePath != nil {
				delete(t.paths, TreePathKey(st.TreePath))
			}
			delete(t.status, n.ID)
		}
		return true
	})
}

// Refresh brings the tracker in line with the tree after structural changes
func (t *ConflictTracker) Refresh(root *Node) {
	t.AssignTreePaths(root)
	t.UpdateAllDuplicateStatus(root)
	t.UpdateNodesMissingStatus(root)
}

// GetConflictInfo reports whether any tracked node is missing or duplicate
func (t *ConflictTracker) GetConflictInfo() ConflictInfo {
	var info ConflictInfo
	for _, st := range t.status {
		info.Missing = info.Missing || st.Missing
		info.Duplicate = info.Duplicate || st.Duplicate
	}
	return info
}

// DisplayName returns the name shown for n. Nodes under a duplicate root
// get their tree path hash appended so they stay distinguishable; the
// stored name is left alone.
func (t *ConflictTracker) DisplayName(n *Node) string {
	st, ok := t.status[n.ID]
	if !ok || !st.Duplicate {
		return n.Name
	}
	return n.Name + "_" + PathHash(st.TreePath)
}

// MissingRoots returns the missing placeholders under root in tree order
func (t *ConflictTracker) MissingRoots(root *Node) []*Node {
	return t.collect(root, func(st *ConflictStatus) bool { return st.IsMissingRoot })
}

// DuplicateRoots returns the duplicate roots under root in tree order
func (t *ConflictTracker) DuplicateRoots(root *Node) []*Node {
	return t.collect(root, func(st *ConflictStatus) bool { return st.IsDuplicateRoot })
}

func (t *ConflictTracker) collect(root *Node, match func(*ConflictStatus) bool) []*Node {
	var out []*Node
	root.Walk(func(n *Node) bool {
		if st, ok := t.status[n.ID]; ok && match(st) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func collectNames(root *Node) []string {
	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})
	return names
}
