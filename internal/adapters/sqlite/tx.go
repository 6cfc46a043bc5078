package sqlite

import (
	"database/sql"

	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertScene inserts or updates a scene summary
func (t *indexTx) UpsertScene(s *domain.IndexedScene) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO scenes (uri, root, inherits, chain_depth, missing, duplicate, entities, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.URI, s.Root, s.Inherits, s.ChainDepth, s.Missing, s.Duplicate, s.Entities, s.IndexedAt.Unix())
	return err
}

// DeleteEntities removes every entity row of a scene
func (t *indexTx) DeleteEntities(sceneURI string) error {
	_, err := t.tx.Exec(`DELETE FROM entities WHERE scene_uri = ?`, sceneURI)
	return err
}

// InsertEntity adds an entity row
func (t *indexTx) InsertEntity(e *domain.IndexedEntity) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO entities (scene_uri, name, parent, idx, tree_path, missing, duplicate, components)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.SceneURI, e.Name, e.Parent, e.Index, e.TreePath, e.Missing, e.Duplicate, e.Components)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
