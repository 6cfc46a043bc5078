package commands

import (
	"context"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

// ConflictReport summarizes the conflicts of a loaded scene
type ConflictReport struct {
	domain.ConflictInfo
	MissingRoots      []string `json:"missing_roots"`
	DuplicateRoots    []string `json:"duplicate_roots"`
	UnknownComponents []string `json:"unknown_components,omitempty"`
}

// ConflictsCommand reports the missing and duplicate state of a scene
type ConflictsCommand struct {
	Scene *domain.Scene
}

// NewConflictsCommand creates a new ConflictsCommand
func NewConflictsCommand(scene *domain.Scene) *ConflictsCommand {
	return &ConflictsCommand{Scene: scene}
}

// Validate checks that a scene is set
func (c *ConflictsCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{Field: "scene", Message: "no scene loaded"}
	}
	return nil
}

// Execute runs the conflicts command
func (c *ConflictsCommand) Execute(ctx context.Context) (*ConflictReport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	report := &ConflictReport{
		ConflictInfo:      c.Scene.ConflictInfo(),
		MissingRoots:      []string{},
		DuplicateRoots:    []string{},
		UnknownComponents: c.Scene.UnknownComponents,
	}
	for _, n := range c.Scene.Tracker.MissingRoots(c.Scene.Root) {
		report.MissingRoots = append(report.MissingRoots, n.Name)
	}
	for _, n := range c.Scene.Tracker.DuplicateRoots(c.Scene.Root) {
		report.DuplicateRoots = append(report.DuplicateRoots, c.Scene.Tracker.DisplayName(n))
	}
	return report, nil
}
