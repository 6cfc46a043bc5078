package tui

import (
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"sceneforge/internal/domain"
)

// sceneChangedMsg reports a write to one of the watched scene files
type sceneChangedMsg struct {
	path string
}

type watchErrMsg struct {
	err error
}

// sceneWatcher follows the local files of a scene and its inheritance
// chain. Directories are watched rather than files so editors that save by
// rename are still seen.
type sceneWatcher struct {
	w   *fsnotify.Watcher
	log logrus.FieldLogger

	mu    sync.Mutex
	files map[string]bool
}

func newSceneWatcher(log logrus.FieldLogger) (*sceneWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &sceneWatcher{w: w, files: make(map[string]bool), log: log}, nil
}

// watchScene replaces the watched set with the local files behind scene
func (s *sceneWatcher) watchScene(scene *domain.Scene) {
	for _, dir := range s.w.WatchList() {
		_ = s.w.Remove(dir)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]bool)

	for _, uri := range append([]string{scene.URI}, scene.Chain...) {
		path, ok := domain.URIToPath(uri)
		if !ok {
			continue
		}
		path = filepath.Clean(path)
		s.files[path] = true
		if err := s.w.Add(filepath.Dir(path)); err != nil {
			s.log.WithError(err).WithField("path", path).Warn("cannot watch scene file")
		}
	}
}

// next waits for the next relevant change
func (s *sceneWatcher) next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-s.w.Events:
				if !ok {
					return nil
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if s.watches(ev.Name) {
					return sceneChangedMsg{path: ev.Name}
				}
			case err, ok := <-s.w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (s *sceneWatcher) watches(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[filepath.Clean(path)]
}

func (s *sceneWatcher) close() error {
	return s.w.Close()
}
