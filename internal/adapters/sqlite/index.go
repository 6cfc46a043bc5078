package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sceneforge/internal/application"
	"sceneforge/internal/config"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.SceneIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
}

// Ensure Index implements SceneIndex
var _ ports.SceneIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

const schema = `
	CREATE TABLE IF NOT EXISTS scenes (
		uri TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		inherits TEXT NOT NULL DEFAULT '',
		chain_depth INTEGER NOT NULL DEFAULT 0,
		missing INTEGER NOT NULL DEFAULT 0,
		duplicate INTEGER NOT NULL DEFAULT 0,
		entities INTEGER NOT NULL DEFAULT 0,
		indexed_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS entities (
		scene_uri TEXT NOT NULL,
		name TEXT NOT NULL,
		parent TEXT NOT NULL DEFAULT '',
		idx INTEGER NOT NULL DEFAULT 0,
		tree_path TEXT NOT NULL,
		missing INTEGER NOT NULL DEFAULT 0,
		duplicate INTEGER NOT NULL DEFAULT 0,
		components INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (scene_uri, tree_path)
	);
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);
`

// Open initializes the index database at path
func (idx *Index) Open(path string) error {
	idx.dbPath = config.ExpandHome(path)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;
	` + schema)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if idx.NeedsFullRebuild() {
		if err := idx.reset(); err != nil {
			db.Close()
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the stored schema is not the current one
func (idx *Index) NeedsFullRebuild() bool {
	var version string
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	return version != schemaVersion
}

// reset drops every indexed row and records the current schema version
func (idx *Index) reset() error {
	_, err := idx.db.Exec(`
		DROP TABLE IF EXISTS scenes;
		DROP TABLE IF EXISTS entities;
	` + schema)
	if err != nil {
		return err
	}
	_, err = idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// GetScene retrieves a scene summary by URI
func (idx *Index) GetScene(uri string) (*domain.IndexedScene, error) {
	row := idx.db.QueryRow(`
		SELECT uri, root, inherits, chain_depth, missing, duplicate, entities, indexed_at
		FROM scenes WHERE uri = ?
	`, uri)

	s, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scene %s: %w", uri, application.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListScenes returns every indexed scene ordered by URI
func (idx *Index) ListScenes() ([]domain.IndexedScene, error) {
	rows, err := idx.db.Query(`
		SELECT uri, root, inherits, chain_depth, missing, duplicate, entities, indexed_at
		FROM scenes ORDER BY uri
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []domain.IndexedScene
	for rows.Next() {
		s, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, *s)
	}
	return scenes, rows.Err()
}

// SearchEntities returns entities whose name or scene URI contains query,
// case insensitively. Name matches come first.
func (idx *Index) SearchEntities(query string, limit int) ([]domain.IndexedEntity, error) {
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := idx.db.Query(`
		SELECT scene_uri, name, parent, idx, tree_path, missing, duplicate, components
		FROM entities
		WHERE name LIKE ? ESCAPE '\' OR scene_uri LIKE ? ESCAPE '\'
		ORDER BY name NOT LIKE ? ESCAPE '\', scene_uri, tree_path
		LIMIT ?
	`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.IndexedEntity
	for rows.Next() {
		var e domain.IndexedEntity
		if err := rows.Scan(&e.SceneURI, &e.Name, &e.Parent, &e.Index, &e.TreePath,
			&e.Missing, &e.Duplicate, &e.Components); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScene(row scanner) (*domain.IndexedScene, error) {
	var s domain.IndexedScene
	var indexedAt int64
	if err := row.Scan(&s.URI, &s.Root, &s.Inherits, &s.ChainDepth,
		&s.Missing, &s.Duplicate, &s.Entities, &indexedAt); err != nil {
		return nil, err
	}
	s.IndexedAt = time.Unix(indexedAt, 0)
	return &s, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
