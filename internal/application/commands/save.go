package commands

import (
	"context"
	"fmt"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// SaveResult contains the result of a save operation
type SaveResult struct {
	TargetURI string
	Document  *domain.PersistedScene
	Data      []byte
	Written   bool
	Message   string
}

// SaveSceneCommand serializes a live scene for a target URI and, when a
// writer is set, writes it there
type SaveSceneCommand struct {
	writer     ports.Writer
	serializer *application.Serializer
	Scene      *domain.Scene
	TargetURI  string
}

// NewSaveSceneCommand creates a new SaveSceneCommand. An empty target saves
// back to the scene's own URI; a nil writer only serializes.
func NewSaveSceneCommand(writer ports.Writer, scene *domain.Scene, targetURI string) *SaveSceneCommand {
	if targetURI == "" && scene != nil {
		targetURI = scene.URI
	}
	return &SaveSceneCommand{
		writer:     writer,
		serializer: application.NewSerializer(),
		Scene:      scene,
		TargetURI:  targetURI,
	}
}

// Validate checks if the save operation is valid
func (c *SaveSceneCommand) Validate() error {
	if c.Scene == nil {
		return &application.ValidationError{
			Field:   "scene",
			Message: "no scene loaded",
		}
	}
	if c.Scene.Geometry {
		return &application.ValidationError{
			Field:   "scene",
			Message: "geometry files cannot be saved as scenes",
		}
	}
	return application.ValidateURI("targetURI", c.TargetURI)
}

// Execute runs the save command. When the write fails the serialized
// document is still returned so the caller can retry.
func (c *SaveSceneCommand) Execute(ctx context.Context) (*SaveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc := c.serializer.Serialize(c.Scene, c.TargetURI)
	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene: %w", err)
	}

	result := &SaveResult{
		TargetURI: c.TargetURI,
		Document:  doc,
		Data:      data,
		Message:   fmt.Sprintf("Serialized %d entities for %s", len(doc.Entities), c.TargetURI),
	}
	if c.writer == nil {
		return result, nil
	}

	if err := c.writer.Write(ctx, c.TargetURI, data); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", c.TargetURI, err)
	}
	result.Written = true
	result.Message = fmt.Sprintf("Saved %d entities to %s", len(doc.Entities), c.TargetURI)
	return result, nil
}
