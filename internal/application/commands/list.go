package commands

import (
	"context"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// NodeLine is one row of a flattened scene tree
type NodeLine struct {
	Node          *domain.Node
	Depth         int
	DisplayName   string
	Missing       bool
	MissingRoot   bool
	Duplicate     bool
	DuplicateRoot bool
	Components    []string
}

// ListNodesCommand flattens a scene tree in display order
type ListNodesCommand struct {
	Scene *domain.Scene
	// MaxDepth limits the listing; zero lists everything
	MaxDepth int
}

// NewListNodesCommand creates a new ListNodesCommand
func NewListNodesCommand(scene *domain.Scene) *ListNodesCommand {
	return &ListNodesCommand{Scene: scene}
}

// Validate checks that a scene is set
func (c *ListNodesCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{Field: "scene", Message: "no scene loaded"}
	}
	return nil
}

// Execute runs the list command
func (c *ListNodesCommand) Execute(ctx context.Context) ([]NodeLine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var lines []NodeLine
	var walk func(n *domain.Node, depth int)
	walk = func(n *domain.Node, depth int) {
		if c.MaxDepth > 0 && depth > c.MaxDepth {
			return
		}
		st, _ := c.Scene.Tracker.Status(n)
		line := NodeLine{
			Node:          n,
			Depth:         depth,
			DisplayName:   c.Scene.Tracker.DisplayName(n),
			Missing:       st.Missing,
			MissingRoot:   st.IsMissingRoot,
			Duplicate:     st.Duplicate,
			DuplicateRoot: st.IsDuplicateRoot,
		}
		for _, comp := range n.Components {
			line.Components = append(line.Components, comp.ComponentName())
		}
		lines = append(lines, line)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(c.Scene.Root, 0)
	return lines, nil
}
