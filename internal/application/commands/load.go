package commands

import (
	"context"
	"fmt"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// LoadSceneCommand composes a scene and its inheritance chain
type LoadSceneCommand struct {
	loader ports.SceneLoader
	URI    string
}

// NewLoadSceneCommand creates a new LoadSceneCommand
func NewLoadSceneCommand(loader ports.SceneLoader, uri string) *LoadSceneCommand {
	return &LoadSceneCommand{
		loader: loader,
		URI:    uri,
	}
}

// Validate checks that the URI is absolute
func (c *LoadSceneCommand) Validate() error {
	return application.ValidateURI("uri", c.URI)
}

// Execute runs the load command
func (c *LoadSceneCommand) Execute(ctx context.Context) (*domain.Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	scene, err := c.loader.Load(ctx, c.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return scene, nil
}
