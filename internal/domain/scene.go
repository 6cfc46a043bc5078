package domain

// Scene is a composed, live scene tree together with its conflict tracker
type Scene struct {
	// URI is the absolute URI the scene was loaded from
	URI string
	// Inherits is the absolute URI of the direct parent scene, if any
	Inherits string
	// Chain lists ancestor scene URIs, oldest first
	Chain []string

	Root    *Node
	Tracker *ConflictTracker

	// Geometry is set when the scene came from the geometry loader
	Geometry bool
	// UnknownComponents lists component names the registry did not know
	UnknownComponents []string
}

// NewScene creates a base scene with an empty root node
func NewScene(uri, rootName string) *Scene {
	return &Scene{
		URI:     uri,
		Root:    NewNode(rootName),
		Tracker: NewConflictTracker(),
	}
}

// FindByName returns the first real node carrying name, in tree order.
// Missing placeholders are skipped.
func (s *Scene) FindByName(name string) *Node {
	var found *Node
	s.Root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Name == name && !s.Tracker.IsMissingRoot(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindPlaceholder returns the missing placeholder named name, if any
func (s *Scene) FindPlaceholder(name string) *Node {
	for _, n := range s.Tracker.MissingRoots(s.Root) {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// FindByID returns the node with the given ID
func (s *Scene) FindByID(id NodeID) *Node {
	var found *Node
	s.Root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// EnsurePlaceholder returns the placeholder for a missing parent name,
// creating it under the root when needed.
func (s *Scene) EnsurePlaceholder(name string) *Node {
	if p := s.FindPlaceholder(name); p != nil {
		return p
	}
	p := NewNode(name)
	s.Root.AddChild(p)
	s.Tracker.MarkMissingRoot(p)
	return p
}

// HealMissing relocates the children of every placeholder whose real parent
// exists now and removes the placeholder. Returns what was healed.
func (s *Scene) HealMissing() []Resolution {
	resolved := s.Tracker.CheckResolvedMissingRoot(s.Root)
	for _, r := range resolved {
		for _, c := range append([]*Node(nil), r.Placeholder.Children...) {
			r.Target.AddChild(c)
		}
		r.Placeholder.Detach()
		s.Tracker.Forget(r.Placeholder)
	}
	if len(resolved) > 0 {
		s.Refresh()
	}
	return resolved
}

// Refresh recomputes conflict state after structural changes
func (s *Scene) Refresh() {
	s.Tracker.Refresh(s.Root)
}

// ConflictInfo reports the scene's conflict summary
func (s *Scene) ConflictInfo() ConflictInfo {
	return s.Tracker.GetConflictInfo()
}

// Nodes returns every node of the scene in tree order
func (s *Scene) Nodes() []*Node {
	var out []*Node
	s.Root.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
