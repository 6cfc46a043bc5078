package application

import "sceneforge/internal/domain"

// Re-export domain types for use by adapters
type (
	Scene          = domain.Scene
	Node           = domain.Node
	ConflictInfo   = domain.ConflictInfo
	ConflictStatus = domain.ConflictStatus
	PersistedScene = domain.PersistedScene
)

// NodeView is a JSON-friendly snapshot of a node and its conflict status
type NodeView struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	DisplayName   string      `json:"display_name"`
	TreePath      []int       `json:"tree_path"`
	Missing       bool        `json:"missing"`
	MissingRoot   bool        `json:"missing_root"`
	Duplicate     bool        `json:"duplicate"`
	DuplicateRoot bool        `json:"duplicate_root"`
	Components    []string    `json:"components,omitempty"`
	Children      []*NodeView `json:"children,omitempty"`
}

// SceneView is a JSON-friendly snapshot of a loaded scene
type SceneView struct {
	URI       string       `json:"uri"`
	Inherits  string       `json:"inherits,omitempty"`
	Chain     []string     `json:"chain"`
	Conflicts ConflictInfo `json:"conflicts"`
	Root      *NodeView    `json:"root"`
}

// ViewOf snapshots a scene for rendering by adapters
func ViewOf(s *domain.Scene) *SceneView {
	chain := s.Chain
	if chain == nil {
		chain = []string{}
	}
	return &SceneView{
		URI:       s.URI,
		Inherits:  s.Inherits,
		Chain:     chain,
		Conflicts: s.ConflictInfo(),
		Root:      nodeView(s, s.Root),
	}
}

func nodeView(s *domain.Scene, n *domain.Node) *NodeView {
	st, _ := s.Tracker.Status(n)
	v := &NodeView{
		ID:            int64(n.ID),
		Name:          n.Name,
		DisplayName:   s.Tracker.DisplayName(n),
		TreePath:      st.TreePath,
		Missing:       st.Missing,
		MissingRoot:   st.IsMissingRoot,
		Duplicate:     st.Duplicate,
		DuplicateRoot: st.IsDuplicateRoot,
	}
	for _, c := range n.Components {
		v.Components = append(v.Components, c.ComponentName())
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, nodeView(s, c))
	}
	return v
}
