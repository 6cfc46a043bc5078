package ports

import (
	"context"

	"sceneforge/internal/domain"
)

// SceneLoader composes a scene and its inheritance chain into a live tree
type SceneLoader interface {
	Load(ctx context.Context, uri string) (*domain.Scene, error)
}
