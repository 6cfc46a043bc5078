package commands

import (
	"context"
	"fmt"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// RemoveResult contains the result of a remove operation
type RemoveResult struct {
	Removed     []string
	PrunedBases []string
	Message     string
}

// RemoveNodeCommand detaches a node and its subtree from the scene
type RemoveNodeCommand struct {
	Scene  *domain.Scene
	Target NodeSelector
}

// NewRemoveNodeCommand creates a new RemoveNodeCommand
func NewRemoveNodeCommand(scene *domain.Scene, target NodeSelector) *RemoveNodeCommand {
	return &RemoveNodeCommand{
		Scene:  scene,
		Target: target,
	}
}

// Validate checks if the remove operation is valid
func (c *RemoveNodeCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{Field: "scene", Message: "no scene loaded"}
	}
	if c.Target.empty() {
		return &application.ValidationError{Field: "nodeName", Message: "node name is required"}
	}
	return nil
}

// Execute runs the remove command
func (c *RemoveNodeCommand) Execute(ctx context.Context) (*RemoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, err := c.Target.resolve(c.Scene, true)
	if err != nil {
		return nil, err
	}
	if node == c.Scene.Root {
		return nil, &application.NodeError{Node: node.Name, Reason: "the root cannot be removed"}
	}

	tracker := c.Scene.Tracker
	var removed []string
	node.Walk(func(n *domain.Node) bool {
		tracker.RemoveFromDuplicateNameCounters(n.Name)
		removed = append(removed, n.Name)
		return true
	})

	node.Detach()
	tracker.Forget(node)
	pruned := tracker.PruneUnusedBases(c.Scene.Root)
	c.Scene.Refresh()

	return &RemoveResult{
		Removed:     removed,
		PrunedBases: pruned,
		Message:     fmt.Sprintf("Removed %s (%d nodes)", removed[0], len(removed)),
	}, nil
}
