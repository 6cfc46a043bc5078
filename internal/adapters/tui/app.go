package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"sceneforge/internal/adapters/tui/views"
	"sceneforge/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewInput
	ViewRemove
	ViewHelp
)

// App is the main TUI application model
type App struct {
	editor  ports.EditorOpener
	viewer  ports.ViewerOpener
	watcher *sceneWatcher
	log     logrus.FieldLogger

	state   ViewState
	browser *views.BrowserModel
	input   *views.NodeInputModel
	remove  *views.RemoveModel
	help    *views.HelpModel

	listening bool
	width     int
	height    int
}

// NewApp creates a new TUI application browsing the scene at uri. A nil
// writer disables saving, a nil editor disables the edit key.
func NewApp(loader ports.SceneLoader, writer ports.Writer, ed ports.EditorOpener, uri string, log logrus.FieldLogger) *App {
	a := &App{
		editor:  ed,
		log:     log,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(loader, writer, uri),
		input:   views.NewNodeInputModel(),
		remove:  views.NewRemoveModel(),
		help:    views.NewHelpModel(),
	}

	w, err := newSceneWatcher(log)
	if err != nil {
		log.WithError(err).Warn("live reload disabled")
	} else {
		a.watcher = w
	}
	return a
}

// WithViewer enables the open-in-viewer key
func (a *App) WithViewer(v ports.ViewerOpener) *App {
	a.viewer = v
	return a
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Close releases the file watcher
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.close()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.input.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SceneLoadedMsg:
		_, cmd := a.browser.Update(msg)
		if a.watcher == nil {
			return a, cmd
		}
		a.watcher.watchScene(msg.Scene)
		if a.listening {
			return a, cmd
		}
		a.listening = true
		return a, tea.Batch(cmd, a.watcher.next())

	case sceneChangedMsg:
		a.log.WithField("path", msg.path).Debug("scene file changed")
		return a, tea.Batch(a.browser.ExternalChange(msg.path), a.watcher.next())

	case watchErrMsg:
		a.log.WithError(msg.err).Warn("file watcher error")
		return a, a.watcher.next()

	// View switching messages
	case views.SwitchToInputMsg:
		a.state = ViewInput
		a.input.SetTarget(a.browser.Scene(), msg.Node, msg.Mode)
		return a, a.input.Init()

	case views.SwitchToRemoveMsg:
		a.state = ViewRemove
		a.remove.SetTarget(a.browser.Scene(), msg.Node)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.EditDoneMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.OpenEditorMsg:
		a.state = ViewBrowser
		return a, a.openEditor(msg.URI)

	case views.OpenViewerMsg:
		if a.viewer == nil {
			return a, nil
		}
		if err := a.viewer.Open(msg.URI); err != nil {
			a.browser.SetMessage(err.Error(), true)
		}
		return a, nil

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage(msg.err.Error(), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewInput:
		_, cmd = a.input.Update(msg)
	case ViewRemove:
		_, cmd = a.remove.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(uri string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(uri)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewInput:
		return a.input.View()
	case ViewRemove:
		return a.remove.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
