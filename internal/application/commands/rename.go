package commands

import (
	"context"
	"fmt"
	"strings"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	OriginalName string
	NewName      string
	Healed       []domain.Resolution
	Message      string
}

// RenameNodeCommand renames a node. Taking the name of a missing parent
// placeholder adopts the placeholder's children.
type RenameNodeCommand struct {
	Scene   *domain.Scene
	Target  NodeSelector
	NewName string
}

// NewRenameNodeCommand creates a new RenameNodeCommand
func NewRenameNodeCommand(scene *domain.Scene, target NodeSelector, newName string) *RenameNodeCommand {
	return &RenameNodeCommand{
		Scene:   scene,
		Target:  target,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameNodeCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{Field: "scene", Message: "no scene loaded"}
	}
	if c.Target.empty() {
		return &application.ValidationError{Field: "nodeName", Message: "node name is required"}
	}
	return application.ValidateRequired("newName", c.NewName)
}

// Execute runs the rename command
func (c *RenameNodeCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, err := c.Target.resolve(c.Scene, true)
	if err != nil {
		return nil, err
	}
	if eligibility := CheckRenameEligibility(c.Scene, node); !eligibility.CanRename {
		return nil, &application.NodeError{Node: node.Name, Reason: eligibility.Reason}
	}

	original := node.Name
	requested := strings.TrimSpace(c.NewName)
	if requested == original {
		return &RenameResult{
			OriginalName: original,
			NewName:      original,
			Message:      fmt.Sprintf("%s unchanged", original),
		}, nil
	}

	c.Scene.Tracker.RemoveFromDuplicateNameCounters(original)
	node.Name = claimName(c.Scene, requested, node)

	// The new name has to reach the saved file, and so does every child
	// that now refers to it
	if node != c.Scene.Root {
		node.SaveParent = true
	}
	node.MarkComponentsSaved()
	for _, child := range node.Children {
		child.SaveParent = true
	}

	healed := c.Scene.HealMissing()
	c.Scene.Refresh()

	msg := fmt.Sprintf("Renamed %s to %s", original, node.Name)
	if len(healed) > 0 {
		msg += fmt.Sprintf(" (resolved %d missing parents)", len(healed))
	}
	return &RenameResult{
		OriginalName: original,
		NewName:      node.Name,
		Healed:       healed,
		Message:      msg,
	}, nil
}

// RenameEligibility contains the result of checking if a node can be renamed
type RenameEligibility struct {
	CanRename bool
	Reason    string
}

// CheckRenameEligibility determines if a node can be renamed. Placeholders
// carry the name their children refer to, and the root of an inheriting
// scene is owned by the base scene.
func CheckRenameEligibility(scene *domain.Scene, node *domain.Node) RenameEligibility {
	switch {
	case scene.Tracker.IsMissingRoot(node):
		return RenameEligibility{Reason: "missing parent placeholders cannot be renamed"}
	case node == scene.Root && scene.Inherits != "":
		return RenameEligibility{Reason: "the root of an inheriting scene is defined by its base scene"}
	default:
		return RenameEligibility{CanRename: true}
	}
}
