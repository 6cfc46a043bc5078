package domain

import "sync/atomic"

// NodeID is a stable identifier for a live scene node
type NodeID int64

var lastNodeID atomic.Int64

// Node is a live scene tree node. Each node is owned by exactly one parent;
// the root has none.
type Node struct {
	ID         NodeID
	Name       string
	Parent     *Node
	Children   []*Node
	Components []Component

	// SaveParent marks entities defined explicitly by the top-level scene
	// file. Only those get parent and index persisted on save.
	SaveParent bool

	// IsExpanded is browser state, never persisted.
	IsExpanded bool

	saved map[string]bool
}

// NewNode creates a detached node with a fresh ID
func NewNode(name string) *Node {
	return &Node{
		ID:   NodeID(lastNodeID.Add(1)),
		Name: name,
	}
}

// IndexInParent returns the position of the node among its siblings,
// or -1 for a root.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// AddChild appends c as the last child of n
func (n *Node) AddChild(c *Node) {
	n.InsertChild(c, len(n.Children))
}

// InsertChild inserts c at position at, detaching it from its previous
// parent first. Out of range positions are clamped. Returns the index the
// child ended up at.
func (n *Node) InsertChild(c *Node, at int) int {
	c.Detach()
	if at < 0 || at > len(n.Children) {
		at = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[at+1:], n.Children[at:])
	n.Children[at] = c
	c.Parent = n
	return at
}

// RemoveChild removes c from the children of n
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return true
		}
	}
	return false
}

// Detach removes the node from its parent, if any
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Walk visits the subtree rooted at n in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range append([]*Node(nil), n.Children...) {
		c.Walk(fn)
	}
}

// Contains reports whether other is n or one of its descendants
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Position returns the current child-index path from the root to n
func (n *Node) Position() []int {
	var path []int
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		path = append([]int{cur.IndexInParent()}, path...)
	}
	return path
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *Node) Flatten() []*Node {
	var result []*Node
	n.flattenRecursive(&result)
	return result
}

func (n *Node) flattenRecursive(result *[]*Node) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *Node) Depth() int {
	depth := 0
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		depth++
	}
	return depth
}

// Toggle expands or collapses the node
func (n *Node) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *Node) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *Node) Collapse() {
	n.IsExpanded = false
}

// Component returns the component with the given name
func (n *Node) Component(name string) (Component, bool) {
	for _, c := range n.Components {
		if c.ComponentName() == name {
			return c, true
		}
	}
	return nil, false
}

// SetComponent replaces the component with the same name, or appends it.
// saved marks the component as defined by the top-level scene file.
func (n *Node) SetComponent(c Component, saved bool) {
	replaced := false
	for i, existing := range n.Components {
		if existing.ComponentName() == c.ComponentName() {
			n.Components[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		n.Components = append(n.Components, c)
	}
	if n.saved == nil {
		n.saved = make(map[string]bool)
	}
	n.saved[c.ComponentName()] = saved
}

// SavedComponents returns the components that must be written back on save
func (n *Node) SavedComponents() []Component {
	var out []Component
	for _, c := range n.Components {
		if n.saved[c.ComponentName()] {
			out = append(out, c)
		}
	}
	return out
}

// ClearSaveMarkers forgets which parts of the subtree were defined by the
// top-level file. Used when a scene becomes the parent of another level.
func (n *Node) ClearSaveMarkers() {
	n.Walk(func(c *Node) bool {
		c.SaveParent = false
		c.saved = nil
		return true
	})
}

// MarkComponentsSaved flags every component of n as defined by the
// top-level scene file
func (n *Node) MarkComponentsSaved() {
	for _, c := range n.Components {
		if n.saved == nil {
			n.saved = make(map[string]bool)
		}
		n.saved[c.ComponentName()] = true
	}
}
