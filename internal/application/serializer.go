package application

import "sceneforge/internal/domain"

// Serializer turns a live scene back into its persisted document. It is
// pure: the same tree and target always yield the same document.
type Serializer struct{}

// NewSerializer creates a Serializer
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize builds the document that, written at targetURI, reproduces the
// parts of the tree the top-level scene defines. Parent and index are read
// from the live tree, so manual reordering is reflected.
func (s *Serializer) Serialize(scene *domain.Scene, targetURI string) *domain.PersistedScene {
	entities := make(map[string]domain.EntityRecord)
	var order []string

	scene.Root.Walk(func(n *domain.Node) bool {
		// Placeholders are not entities; their children keep the dangling
		// parent name.
		if scene.Tracker.IsMissingRoot(n) {
			return true
		}

		var rec domain.EntityRecord
		emit := false

		if n.SaveParent && n.Parent != nil {
			parent := n.Parent.Name
			index := n.IndexInParent()
			rec.Parent = &parent
			rec.Index = &index
			emit = true
		}

		for _, c := range n.SavedComponents() {
			rec.Components = append(rec.Components, domain.DefOf(c))
			emit = true
		}

		if emit {
			if _, exists := entities[n.Name]; !exists {
				order = append(order, n.Name)
			}
			entities[n.Name] = rec
		}
		return true
	})

	domain.ConvertEntityRefsToRelative(entities, targetURI)

	out := &domain.PersistedScene{EntityOrder: order}
	if len(entities) > 0 {
		out.Entities = entities
	}
	if scene.Inherits != "" {
		out.Inherits = domain.AbsoluteToRelative(targetURI, scene.Inherits)
	} else {
		out.Root = scene.Root.Name
	}
	return out
}
