package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

type memStore struct {
	mu       sync.Mutex
	docs     map[string]string
	writeErr error
}

func (m *memStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("no document at %s", uri)
	}
	return []byte(doc), nil
}

func (m *memStore) Write(ctx context.Context, uri string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uri] = string(data)
	return nil
}

var _ ports.Transport = (*memStore)(nil)

func loadScene(t *testing.T, docs map[string]string, uri string) (*domain.Scene, *memStore) {
	t.Helper()
	store := &memStore{docs: docs}
	scene, err := application.NewResolver(store).Load(context.Background(), uri)
	if err != nil {
		t.Fatalf("failed to load %s: %v", uri, err)
	}
	return scene, store
}

func childNames(n *domain.Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

func equalNames(got, want []string) bool {
	return strings.Join(got, ",") == strings.Join(want, ",")
}

func isValidationError(err error) bool {
	var valErr *application.ValidationError
	return errors.As(err, &valErr)
}
