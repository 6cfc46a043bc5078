package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"sceneforge/internal/domain"
)

func benchEntities(uri string, n int) []domain.IndexedEntity {
	entities := make([]domain.IndexedEntity, n)
	for i := range entities {
		entities[i] = domain.IndexedEntity{
			SceneURI: uri,
			Name:     fmt.Sprintf("entity_%d", i),
			Parent:   "world",
			Index:    i,
			TreePath: fmt.Sprint(i),
		}
	}
	return entities
}

// BenchmarkIndexScene benchmarks replacing the rows of one 1000-entity scene
func BenchmarkIndexScene(b *testing.B) {
	idx := NewIndex()
	if err := idx.Open(filepath.Join(b.TempDir(), "index.db")); err != nil {
		b.Fatalf("failed to open index: %v", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			b.Fatalf("failed to close index: %v", err)
		}
	}()

	scene := &domain.IndexedScene{URI: "file:///bench.scene", Root: "world", IndexedAt: time.Now()}
	entities := benchEntities(scene.URI, 1000)

	b.ResetTimer()
	for b.Loop() {
		tx, err := idx.BeginTx()
		if err != nil {
			b.Fatalf("BeginTx failed: %v", err)
		}
		tx.UpsertScene(scene)
		tx.DeleteEntities(scene.URI)
		for i := range entities {
			if err := tx.InsertEntity(&entities[i]); err != nil {
				b.Fatalf("insert failed: %v", err)
			}
		}
		if err := tx.Commit(); err != nil {
			b.Fatalf("commit failed: %v", err)
		}
	}
}

// BenchmarkSearchEntities benchmarks a substring search over 10000 rows
func BenchmarkSearchEntities(b *testing.B) {
	idx := NewIndex()
	if err := idx.Open(filepath.Join(b.TempDir(), "index.db")); err != nil {
		b.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	tx, err := idx.BeginTx()
	if err != nil {
		b.Fatalf("BeginTx failed: %v", err)
	}
	for i := range 10 {
		uri := fmt.Sprintf("file:///bench_%d.scene", i)
		tx.UpsertScene(&domain.IndexedScene{URI: uri, Root: "world", IndexedAt: time.Now()})
		entities := benchEntities(uri, 1000)
		for j := range entities {
			tx.InsertEntity(&entities[j])
		}
	}
	if err := tx.Commit(); err != nil {
		b.Fatalf("commit failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := idx.SearchEntities("entity_99", 100); err != nil {
			b.Fatalf("search failed: %v", err)
		}
	}
}
