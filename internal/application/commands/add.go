package commands

import (
	"context"
	"fmt"
	"strings"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// AddNodeResult contains the result of adding a node
type AddNodeResult struct {
	Node    *domain.Node
	Name    string
	Renamed bool
	Message string
}

// AddNodeCommand creates a new entity under a parent node. The name is
// suffixed when it is already in use.
type AddNodeCommand struct {
	Scene  *domain.Scene
	Parent NodeSelector
	Name   string
	// Index is the position among the parent's children; nil appends
	Index *int
}

// NewAddNodeCommand creates a new AddNodeCommand
func NewAddNodeCommand(scene *domain.Scene, parent NodeSelector, name string) *AddNodeCommand {
	return &AddNodeCommand{
		Scene:  scene,
		Parent: parent,
		Name:   name,
	}
}

// Validate checks if the add operation is valid
func (c *AddNodeCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{Field: "scene", Message: "no scene loaded"}
	}
	if c.Parent.empty() {
		return &application.ValidationError{Field: "parentName", Message: "parent name is required"}
	}
	if err := application.ValidateRequired("nodeName", c.Name); err != nil {
		return err
	}
	if c.Index != nil && *c.Index < 0 {
		return &application.ValidationError{Field: "index", Message: "index cannot be negative"}
	}
	return nil
}

// Execute runs the add command
func (c *AddNodeCommand) Execute(ctx context.Context) (*AddNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	parent, err := c.Parent.resolve(c.Scene, true)
	if err != nil {
		return nil, err
	}

	requested := strings.TrimSpace(c.Name)
	name := claimName(c.Scene, requested, parent)

	node := domain.NewNode(name)
	node.SaveParent = true
	at := len(parent.Children)
	if c.Index != nil {
		at = *c.Index
	}
	parent.InsertChild(node, at)
	c.Scene.Refresh()

	return &AddNodeResult{
		Node:    node,
		Name:    name,
		Renamed: name != requested,
		Message: fmt.Sprintf("Added %s under %s", name, parent.Name),
	}, nil
}
