package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sceneforge/internal/config"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// Store implements ports.Transport over the local filesystem. It accepts
// file:// URIs and absolute paths.
type Store struct {
	basePath string
}

var _ ports.Transport = (*Store)(nil)

// NewStore creates a store. Relative path arguments given to ToURI are
// resolved against basePath.
func NewStore(basePath string) *Store {
	return &Store{basePath: config.ExpandHome(basePath)}
}

// Fetch reads the file a URI points to
func (s *Store) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(uri)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the file a URI points to. The data goes to a temp file in
// the same directory first, so readers never see a partial document.
func (s *Store) Write(ctx context.Context, uri string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(uri)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set mode of %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Path returns the local path of a file URI or absolute path
func (s *Store) Path(uri string) (string, error) {
	path, ok := domain.URIToPath(uri)
	if !ok {
		return "", fmt.Errorf("not a local file URI: %s", uri)
	}
	return filepath.FromSlash(path), nil
}

// ToURI converts a command line path argument to an absolute file URI.
// Arguments that already carry a scheme are returned unchanged.
func (s *Store) ToURI(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}

	path := config.ExpandHome(arg)
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil && s.basePath != "" {
			path = filepath.Join(s.basePath, path)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	return domain.PathToURI(filepath.ToSlash(abs)), nil
}

// Exists reports whether the file a URI points to is present
func (s *Store) Exists(uri string) bool {
	path, err := s.Path(uri)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
