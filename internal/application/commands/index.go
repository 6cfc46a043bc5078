package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// SceneFileExt is the extension of scene documents on disk
const SceneFileExt = ".scene"

// IndexScenesCommand loads every scene file under a directory and records
// its entities and conflict flags in the scene index
type IndexScenesCommand struct {
	loader ports.SceneLoader
	index  ports.SceneIndex
	log    logrus.FieldLogger
	Dir    string
}

// NewIndexScenesCommand creates a new IndexScenesCommand
func NewIndexScenesCommand(loader ports.SceneLoader, index ports.SceneIndex, dir string, log logrus.FieldLogger) *IndexScenesCommand {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &IndexScenesCommand{
		loader: loader,
		index:  index,
		log:    log,
		Dir:    dir,
	}
}

// Validate checks if the index operation is valid
func (c *IndexScenesCommand) Validate() error {
	return application.ValidateRequired("dir", c.Dir)
}

// Execute runs the index command. Scenes that fail to load are counted and
// skipped; index write failures abort the run.
func (c *IndexScenesCommand) Execute(ctx context.Context) (*domain.IndexStats, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	stats := &domain.IndexStats{}

	root, err := filepath.Abs(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", c.Dir, err)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		stats.FilesScanned++
		if strings.EqualFold(filepath.Ext(d.Name()), SceneFileExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	tx, err := c.index.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin index transaction: %w", err)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			tx.Rollback()
			return nil, err
		}

		uri := domain.PathToURI(path)
		scene, err := c.loader.Load(ctx, uri)
		if err != nil {
			c.log.WithError(err).WithField("uri", uri).Warn("skipping scene")
			stats.ScenesFailed++
			continue
		}

		summary, entities := domain.IndexScene(scene)
		if err := c.store(tx, summary, entities); err != nil {
			tx.Rollback()
			return nil, err
		}
		stats.ScenesIndexed++
		stats.EntitiesIndexed += len(entities)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit index: %w", err)
	}

	stats.Duration = time.Since(start)
	c.log.WithFields(logrus.Fields{
		"scenes":   stats.ScenesIndexed,
		"failed":   stats.ScenesFailed,
		"entities": stats.EntitiesIndexed,
	}).Info("index updated")
	return stats, nil
}

func (c *IndexScenesCommand) store(tx ports.IndexTx, summary *domain.IndexedScene, entities []domain.IndexedEntity) error {
	if err := tx.UpsertScene(summary); err != nil {
		return fmt.Errorf("failed to index scene %s: %w", summary.URI, err)
	}
	if err := tx.DeleteEntities(summary.URI); err != nil {
		return fmt.Errorf("failed to clear entities of %s: %w", summary.URI, err)
	}
	for i := range entities {
		if err := tx.InsertEntity(&entities[i]); err != nil {
			return fmt.Errorf("failed to index entity %s: %w", entities[i].Name, err)
		}
	}
	return nil
}
