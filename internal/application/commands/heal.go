package commands

import (
	"context"
	"fmt"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// HealResult lists the placeholders that were resolved
type HealResult struct {
	Resolved []string
	Message  string
}

// HealMissingCommand moves the children of resolved missing placeholders
// under their real parent and drops the placeholders
type HealMissingCommand struct {
	Scene *domain.Scene
}

// NewHealMissingCommand creates a new HealMissingCommand
func NewHealMissingCommand(scene *domain.Scene) *HealMissingCommand {
	return &HealMissingCommand{Scene: scene}
}

// Validate checks that a scene is set
func (c *HealMissingCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{Field: "scene", Message: "no scene loaded"}
	}
	return nil
}

// Execute runs the heal command
func (c *HealMissingCommand) Execute(ctx context.Context) (*HealResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &HealResult{Resolved: []string{}}
	for _, r := range c.Scene.HealMissing() {
		result.Resolved = append(result.Resolved, r.Target.Name)
	}
	c.Scene.Refresh()

	if len(result.Resolved) == 0 {
		result.Message = "Nothing to heal"
	} else {
		result.Message = fmt.Sprintf("Resolved %d missing parents", len(result.Resolved))
	}
	return result, nil
}
