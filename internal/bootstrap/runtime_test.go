package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneforge/internal/config"
)

func TestNew_LoadsSceneFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.scene"), []byte(`{"root": "world", "entities": {"table": {}}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.scene"), []byte(`{"inherits": "./base.scene", "entities": {"lamp": {}}}`), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("search_path: "+dir+"\nindex_path: "+filepath.Join(dir, "idx", "index.db")+"\nprefetch: true\n"), 0o644))

	rt, err := New(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, dir, rt.Config.SearchPath)
	assert.True(t, rt.Config.Prefetch)

	uri, err := rt.ToURI("room.scene")
	require.NoError(t, err)

	scene, err := rt.Loader.Load(context.Background(), uri)
	require.NoError(t, err)
	assert.NotNil(t, scene.FindByName("table"))
	assert.NotNil(t, scene.FindByName("lamp"))

	idx, err := rt.OpenIndex()
	require.NoError(t, err)
	defer idx.Close()
	assert.FileExists(t, rt.Config.IndexPath)
}

func TestNew_Overrides(t *testing.T) {
	rt, err := New(filepath.Join(t.TempDir(), "missing.yaml"), func(c *config.Config) {
		c.LogLevel = "debug"
	})
	require.NoError(t, err)
	assert.Equal(t, "debug", rt.Log.GetLevel().String())
}

func TestNew_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o644))

	_, err := New(path)
	assert.Error(t, err)
}
