package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sceneforge/internal/domain"
)

func TestStore_WriteThenFetch(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx := context.Background()

	uri := domain.PathToURI(filepath.Join(dir, "nested", "room.scene"))
	if err := store.Write(ctx, uri, []byte(`{"root": "world"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := store.Fetch(ctx, uri)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != `{"root": "world"}` {
		t.Errorf("unexpected content %q", data)
	}

	// Overwrite leaves no temp files behind
	if err := store.Write(ctx, uri, []byte(`{"root": "earth"}`)); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the scene file, got %d entries", len(entries))
	}
}

func TestStore_FetchErrors(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name string
		uri  string
	}{
		{name: "missing file", uri: "file:///definitely/not/here.scene"},
		{name: "remote scheme", uri: "https://example.com/a.scene"},
		{name: "relative path", uri: "a.scene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Fetch(ctx, tt.uri); err == nil {
				t.Errorf("expected error for %s", tt.uri)
			}
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uri := domain.PathToURI(filepath.Join(dir, "a.scene"))
	if err := store.Write(ctx, uri, []byte("{}")); err == nil {
		t.Errorf("expected Write to observe cancellation")
	}
	if store.Exists(uri) {
		t.Errorf("nothing should have been written")
	}
}

func TestStore_ToURI(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.scene"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(dir)

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "absolute path", arg: filepath.Join(dir, "base.scene"), want: domain.PathToURI(filepath.Join(dir, "base.scene"))},
		{name: "relative to search path", arg: "base.scene", want: domain.PathToURI(filepath.Join(dir, "base.scene"))},
		{name: "already a URI", arg: "https://example.com/a.scene", want: "https://example.com/a.scene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ToURI(tt.arg)
			if err != nil {
				t.Fatalf("ToURI failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToURI(%q) = %q, want %q", tt.arg, got, tt.want)
			}
			if !strings.Contains(got, "://") {
				t.Errorf("expected a URI, got %q", got)
			}
		})
	}
}
