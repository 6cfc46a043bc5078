package domain

import "time"

// IndexedScene is the cached summary of a loaded scene
type IndexedScene struct {
	URI        string // Absolute scene URI (primary key)
	Root       string // Root node name
	Inherits   string // Direct parent scene URI, empty for base scenes
	ChainDepth int    // Number of ancestor scenes
	Missing    bool
	Duplicate  bool
	Entities   int
	IndexedAt  time.Time
}

// IndexedEntity is one node of an indexed scene
type IndexedEntity struct {
	SceneURI   string
	Name       string
	Parent     string // Empty for the root
	Index      int
	TreePath   string // Tree path key, e.g. "0-2"
	Missing    bool
	Duplicate  bool
	Components int
}

// IndexStats holds statistics from an indexing run
type IndexStats struct {
	ScenesIndexed   int
	ScenesFailed    int
	EntitiesIndexed int
	FilesScanned    int
	Duration        time.Duration
}

// IndexScene flattens a live scene into index rows
func IndexScene(s *Scene) (*IndexedScene, []IndexedEntity) {
	info := s.ConflictInfo()
	summary := &IndexedScene{
		URI:        s.URI,
		Root:       s.Root.Name,
		Inherits:   s.Inherits,
		ChainDepth: len(s.Chain),
		Missing:    info.Missing,
		Duplicate:  info.Duplicate,
		IndexedAt:  time.Now(),
	}

	var rows []IndexedEntity
	for _, n := range s.Nodes() {
		st, _ := s.Tracker.Status(n)
		row := IndexedEntity{
			SceneURI:   s.URI,
			Name:       n.Name,
			Index:      n.IndexInParent(),
			TreePath:   TreePathKey(st.TreePath),
			Missing:    st.Missing,
			Duplicate:  st.Duplicate,
			Components: len(n.Components),
		}
		if n.Parent != nil {
			row.Parent = n.Parent.Name
		}
		rows = append(rows, row)
	}
	summary.Entities = len(rows)
	return summary, rows
}
