package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sceneforge/internal/adapters/tui/styles"
)

var helpClose = key.NewBinding(
	key.WithKeys("esc", "q", "?"),
	key.WithHelp("esc/q/?", "close"),
)

// helpSection groups browser bindings under a heading
type helpSection struct {
	title string
	keys  []key.Binding
}

func helpSections() []helpSection {
	k := BrowserKeys
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Enter, k.PageUp, k.PageDown}},
		{"Editing", []key.Binding{k.Add, k.Rename, k.Remove, k.Heal, k.Save}},
		{"General", []key.Binding{k.Copy, k.CopyJSON, k.Edit, k.View, k.Reload, k.Help, k.Quit}},
	}
}

// HelpModel lists the browser keys and explains the conflict markers
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, helpClose) {
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		}
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	p := newPanel("SceneForge Help").subtitle("Layered scene browser")

	for _, s := range helpSections() {
		lines := make([]string, len(s.keys))
		for i, b := range s.keys {
			h := b.Help()
			lines[i] = fmt.Sprintf("  %s%s", styles.HelpKey.Render(fmt.Sprintf("%-10s", h.Key)), styles.HelpDesc.Render(h.Desc))
		}
		p.section(s.title, lines...)
	}

	p.section("Markers",
		styles.NodeMissing.Render("  [missing]   ")+RenderMuted("a parent no scene level defines; its children wait under it"),
		styles.NodeDuplicate.Render("  [duplicate] ")+RenderMuted("a name used more than once; names below get a path suffix"),
		RenderMuted("  Unsaved edits mark the scene title with *. Heal reattaches children"),
		RenderMuted("  whose missing parent has been added since."),
	)

	return p.done(RenderHelpLine(helpClose))
}
