package ports

import (
	"context"
	"errors"

	"sceneforge/internal/domain"
)

// ErrMalformedGeometry marks a geometry document that was fetched but could
// not be read as a scene.
var ErrMalformedGeometry = errors.New("malformed geometry")

// GeometryLoader imports geometry formats (e.g. glTF) as an opaque subtree
type GeometryLoader interface {
	// Supports reports whether uri points at a format this loader handles
	Supports(uri string) bool

	// Load builds a detached node subtree for the document at uri
	Load(ctx context.Context, uri string) (*domain.Node, error)
}
