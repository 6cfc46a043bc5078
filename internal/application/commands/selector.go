package commands

import (
	"fmt"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// NodeSelector picks a node of a live scene, by ID when set and by name
// otherwise
type NodeSelector struct {
	ID   domain.NodeID
	Name string
}

// ByName selects the first real node carrying name
func ByName(name string) NodeSelector {
	return NodeSelector{Name: name}
}

// ByID selects the node with the given ID
func ByID(id domain.NodeID) NodeSelector {
	return NodeSelector{ID: id}
}

func (s NodeSelector) empty() bool {
	return s.ID == 0 && s.Name == ""
}

func (s NodeSelector) String() string {
	if s.ID != 0 {
		return fmt.Sprintf("#%d", s.ID)
	}
	return s.Name
}

// resolve finds the selected node. Missing placeholders are only matched
// when allowPlaceholder is set.
func (s NodeSelector) resolve(scene *domain.Scene, allowPlaceholder bool) (*domain.Node, error) {
	var n *domain.Node
	switch {
	case s.ID != 0:
		n = scene.FindByID(s.ID)
		if n != nil && !allowPlaceholder && scene.Tracker.IsMissingRoot(n) {
			n = nil
		}
	default:
		n = scene.FindByName(s.Name)
		if n == nil && allowPlaceholder {
			n = scene.FindPlaceholder(s.Name)
		}
	}
	if n == nil {
		return nil, fmt.Errorf("node %s: %w", s, application.ErrNotFound)
	}
	return n, nil
}

// claimName allocates requested for a node placed under within. A missing
// placeholder holds its name for the real node that will replace it, so
// that name is granted as is unless the node would end up inside the
// placeholder itself.
func claimName(scene *domain.Scene, requested string, within *domain.Node) string {
	p := scene.FindPlaceholder(requested)
	if p != nil && scene.FindByName(requested) == nil && !p.Contains(within) {
		return requested
	}
	return scene.Tracker.AddToDuplicateNameCounters(requested)
}
