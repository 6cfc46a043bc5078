// Package bootstrap wires configuration, logging, transports and the scene
// resolver the same way for every sceneforge binary.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"sceneforge/internal/adapters/filesystem"
	"sceneforge/internal/adapters/gltf"
	"sceneforge/internal/adapters/registry"
	"sceneforge/internal/adapters/sqlite"
	"sceneforge/internal/adapters/transport"
	"sceneforge/internal/application"
	"sceneforge/internal/config"
)

// Runtime holds the adapters shared by the binaries
type Runtime struct {
	Config    config.Config
	Log       *logrus.Logger
	Store     *filesystem.Store
	Transport *transport.Mux
	Registry  *registry.Static
	Loader    *application.Resolver
}

// New loads the config file at path (empty means config.DefaultFile) and
// builds the runtime. Each override is applied to the loaded config before
// anything is constructed.
func New(path string, overrides ...func(*config.Config)) (*Runtime, error) {
	if path == "" {
		path = config.DefaultFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(&cfg)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	store := filesystem.NewStore(cfg.SearchPath)
	mux := transport.NewMux().
		Handle(store, "", "file").
		Handle(transport.NewHTTP(cfg.FetchTimeout), "http", "https")
	reg := registry.Builtin()

	opts := []application.ResolverOption{
		application.WithGeometryLoader(gltf.NewLoader(mux)),
		application.WithComponentRegistry(reg),
		application.WithLogger(log),
	}
	if cfg.Prefetch {
		opts = append(opts, application.WithPrefetch(cfg.PrefetchLimit))
	}

	return &Runtime{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Transport: mux,
		Registry:  reg,
		Loader:    application.NewResolver(mux, opts...),
	}, nil
}

// ToURI converts a path or URI argument to an absolute URI
func (r *Runtime) ToURI(arg string) (string, error) {
	return r.Store.ToURI(arg)
}

// OpenIndex opens the scene index, creating its directory when needed.
// The caller closes it.
func (r *Runtime) OpenIndex() (*sqlite.Index, error) {
	if err := os.MkdirAll(filepath.Dir(r.Config.IndexPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	idx := sqlite.NewIndex()
	if err := idx.Open(r.Config.IndexPath); err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return idx, nil
}
