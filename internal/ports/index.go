package ports

import "sceneforge/internal/domain"

// SceneIndex stores summaries of loaded scenes and their entities so they
// can be searched without reloading.
type SceneIndex interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Queries
	GetScene(uri string) (*domain.IndexedScene, error)
	ListScenes() ([]domain.IndexedScene, error)
	SearchEntities(query string, limit int) ([]domain.IndexedEntity, error)

	// Batch updates
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic index updates
type IndexTx interface {
	UpsertScene(scene *domain.IndexedScene) error
	DeleteEntities(sceneURI string) error
	InsertEntity(entity *domain.IndexedEntity) error

	// Transaction control
	Commit() error
	Rollback() error
}
