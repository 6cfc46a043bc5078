package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sceneforge/internal/adapters/tui/styles"
	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Add      key.Binding
	Rename   key.Binding
	Remove   key.Binding
	Heal     key.Binding
	Save     key.Binding
	Copy     key.Binding
	CopyJSON key.Binding
	Edit     key.Binding
	View     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Heal: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "heal"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy name"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("Y"),
		key.WithHelp("Y", "copy json"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit file"),
	),
	View: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in viewer"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// chrome is the number of rows the browser uses around the tree
const chrome = 10

// BrowserModel is the model for the scene tree browser. It owns the live
// scene; every edit runs inside Update so the tree has a single writer.
type BrowserModel struct {
	ViewState
	loader ports.SceneLoader
	writer ports.Writer
	copy   func(string) error

	uri     string
	scene   *domain.Scene
	rows    []*domain.Node
	scroll  *Scroller
	dirty   bool
	loadErr error
}

// NewBrowserModel creates a browser for the scene at uri. A nil writer
// disables saving.
func NewBrowserModel(loader ports.SceneLoader, writer ports.Writer, uri string) *BrowserModel {
	return &BrowserModel{
		loader: loader,
		writer: writer,
		copy:   clipboard.WriteAll,
		uri:    uri,
		scroll: NewScroller(20),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadScene
}

func (m *BrowserModel) loadScene() tea.Msg {
	scene, err := commands.NewLoadSceneCommand(m.loader, m.uri).Execute(context.Background())
	if err != nil {
		return loadFailedMsg{err}
	}
	return SceneLoadedMsg{Scene: scene}
}

// SceneLoadedMsg carries a freshly loaded scene
type SceneLoadedMsg struct {
	Scene *domain.Scene
}

type loadFailedMsg struct {
	err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case SceneLoadedMsg:
		m.setScene(msg.Scene)
		return m, nil

	case loadFailedMsg:
		m.loadErr = msg.err
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case EditDoneMsg:
		m.dirty = true
		m.SetMessage(msg.Message, false)
		m.refreshRows()
		if msg.Select != nil {
			m.reveal(msg.Select)
		}
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, BrowserKeys.Edit):
		return func() tea.Msg { return OpenEditorMsg{URI: m.uri} }
	case key.Matches(msg, BrowserKeys.View):
		return func() tea.Msg { return OpenViewerMsg{URI: m.uri} }
	}

	if m.scene == nil {
		return nil
	}

	switch {
	case key.Matches(msg, BrowserKeys.Up):
		m.scroll.Up()

	case key.Matches(msg, BrowserKeys.Down):
		m.scroll.Down()

	case key.Matches(msg, BrowserKeys.PageUp):
		m.scroll.PageUp()

	case key.Matches(msg, BrowserKeys.PageDown):
		m.scroll.PageDown()

	case key.Matches(msg, BrowserKeys.Left):
		if node := m.SelectedNode(); node != nil {
			if node.IsExpanded && len(node.Children) > 0 {
				node.Collapse()
				m.refreshRows()
			} else if node.Parent != nil {
				m.reveal(node.Parent)
			}
		}

	case key.Matches(msg, BrowserKeys.Right):
		if node := m.SelectedNode(); node != nil && len(node.Children) > 0 {
			node.Expand()
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Enter):
		if node := m.SelectedNode(); node != nil && len(node.Children) > 0 {
			node.Toggle()
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Add):
		if node := m.SelectedNode(); node != nil {
			return func() tea.Msg { return SwitchToInputMsg{Mode: InputModeAdd, Node: node} }
		}

	case key.Matches(msg, BrowserKeys.Rename):
		if node := m.SelectedNode(); node != nil {
			if check := commands.CheckRenameEligibility(m.scene, node); !check.CanRename {
				m.SetMessage(check.Reason, true)
				return nil
			}
			return func() tea.Msg { return SwitchToInputMsg{Mode: InputModeRename, Node: node} }
		}

	case key.Matches(msg, BrowserKeys.Remove):
		if node := m.SelectedNode(); node != nil {
			if node == m.scene.Root {
				m.SetMessage("the root cannot be removed", true)
				return nil
			}
			return func() tea.Msg { return SwitchToRemoveMsg{Node: node} }
		}

	case key.Matches(msg, BrowserKeys.Heal):
		m.heal()

	case key.Matches(msg, BrowserKeys.Save):
		m.save()

	case key.Matches(msg, BrowserKeys.Copy):
		if node := m.SelectedNode(); node != nil {
			m.copyText(node.Name, fmt.Sprintf("Copied %s", node.Name))
		}

	case key.Matches(msg, BrowserKeys.CopyJSON):
		result, err := commands.NewSaveSceneCommand(nil, m.scene, "").Execute(context.Background())
		if err != nil {
			m.SetMessage(err.Error(), true)
			return nil
		}
		m.copyText(string(result.Data), "Copied scene JSON")
	}
	return nil
}

func (m *BrowserModel) heal() {
	result, err := commands.NewHealMissingCommand(m.scene).Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	if len(result.Resolved) > 0 {
		m.dirty = true
	}
	m.refreshRows()
	m.SetMessage(result.Message, false)
}

func (m *BrowserModel) save() {
	if m.writer == nil {
		m.SetMessage("saving is disabled", true)
		return
	}
	result, err := commands.NewSaveSceneCommand(m.writer, m.scene, "").Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.dirty = false
	m.SetMessage(result.Message, false)
}

func (m *BrowserModel) copyText(text, done string) {
	if err := m.copy(text); err != nil {
		m.SetMessage(fmt.Sprintf("clipboard: %v", err), true)
		return
	}
	m.SetMessage(done, false)
}

func (m *BrowserModel) setScene(scene *domain.Scene) {
	var selected string
	if node := m.SelectedNode(); node != nil {
		selected = node.Name
	}

	m.scene = scene
	m.loadErr = nil
	m.dirty = false
	scene.Root.Expand()
	for _, n := range scene.Tracker.MissingRoots(scene.Root) {
		n.Expand()
	}
	m.refreshRows()

	if selected != "" {
		if node := scene.FindByName(selected); node != nil {
			m.reveal(node)
		}
	}
}

// reveal expands the ancestors of node and moves the cursor onto it
func (m *BrowserModel) reveal(node *domain.Node) {
	for p := node.Parent; p != nil; p = p.Parent {
		p.Expand()
	}
	m.refreshRows()
	for i, n := range m.rows {
		if n == node {
			m.scroll.SetCursor(i)
			return
		}
	}
}

func (m *BrowserModel) refreshRows() {
	if m.scene == nil {
		m.rows = nil
		m.scroll.SetTotal(0)
		return
	}
	m.rows = m.scene.Root.Flatten()
	m.scroll.SetTotal(len(m.rows))
}

// SelectedNode returns the node under the cursor
func (m *BrowserModel) SelectedNode() *domain.Node {
	if i := m.scroll.Cursor(); i >= 0 && i < len(m.rows) {
		return m.rows[i]
	}
	return nil
}

// Scene returns the live scene, nil until loaded
func (m *BrowserModel) Scene() *domain.Scene {
	return m.scene
}

// Dirty reports unsaved edits
func (m *BrowserModel) Dirty() bool {
	return m.dirty
}

// ExternalChange reacts to a scene file changing on disk. Unsaved edits
// are never discarded silently.
func (m *BrowserModel) ExternalChange(path string) tea.Cmd {
	if m.dirty {
		m.SetMessage(fmt.Sprintf("%s changed on disk; press R to reload and drop edits", path), true)
		return nil
	}
	return m.loadScene
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.scene == nil {
		if m.loadErr != nil {
			return newPanel("SceneForge").
				subtitle(m.uri).
				section("", RenderMessage(m.loadErr.Error(), true)).
				done(RenderHelpLine(BrowserKeys.Reload, BrowserKeys.Edit, BrowserKeys.Quit))
		}
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("SceneForge"))
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	start, end := m.scroll.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.rows[i], i == m.scroll.Cursor()))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Add, BrowserKeys.Rename, BrowserKeys.Remove,
		BrowserKeys.Heal, BrowserKeys.Save, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderHeader() string {
	title := m.scene.URI
	if m.dirty {
		title += " *"
	}
	header := styles.Subtitle.Render(title)
	for _, ancestor := range reversed(m.scene.Chain) {
		header += "\n" + RenderMuted("  inherits "+ancestor)
	}
	return header
}

func (m *BrowserModel) renderBanner() string {
	info := m.scene.ConflictInfo()
	var parts []string
	if info.Missing {
		parts = append(parts, fmt.Sprintf("%d missing parents", len(m.scene.Tracker.MissingRoots(m.scene.Root))))
	}
	if info.Duplicate {
		parts = append(parts, fmt.Sprintf("%d duplicate names", len(m.scene.Tracker.DuplicateRoots(m.scene.Root))))
	}
	if len(m.scene.UnknownComponents) > 0 {
		parts = append(parts, "unknown components: "+strings.Join(m.scene.UnknownComponents, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return styles.Banner.Render("⚠ " + strings.Join(parts, " • "))
}

func (m *BrowserModel) renderNode(node *domain.Node, selected bool) string {
	indent := strings.Repeat("  ", node.Depth())

	var prefix string
	switch {
	case len(node.Children) == 0:
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	st, _ := m.scene.Tracker.Status(node)
	text := m.scene.Tracker.DisplayName(node)
	switch {
	case st.IsMissingRoot:
		text += " [missing]"
	case st.IsDuplicateRoot:
		text += " [duplicate]"
	}

	var style lipgloss.Style
	switch {
	case selected:
		style = styles.NodeSelected
	case st.Missing:
		style = styles.NodeMissing
	case st.Duplicate:
		style = styles.NodeDuplicate
	case node == m.scene.Root:
		style = styles.NodeRoot
	default:
		style = styles.NodeEntity
	}

	line := indent + styles.TreeBranch.Render(prefix) + style.Render(text)
	if len(node.Components) > 0 {
		names := make([]string, len(node.Components))
		for i, c := range node.Components {
			names[i] = c.ComponentName()
		}
		line += "  " + styles.NodeComponents.Render(strings.Join(names, ", "))
	}
	return line
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.scroll.SetHeight(height - chrome - len(m.chain()))
}

func (m *BrowserModel) chain() []string {
	if m.scene == nil {
		return nil
	}
	return m.scene.Chain
}

// Reload loads the scene again, dropping unsaved edits
func (m *BrowserModel) Reload() tea.Cmd {
	m.dirty = false
	return m.loadScene
}

func reversed(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[len(list)-1-i] = s
	}
	return out
}

// Messages for view switching
type SwitchToInputMsg struct {
	Mode InputMode
	Node *domain.Node
}

type SwitchToRemoveMsg struct {
	Node *domain.Node
}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// EditDoneMsg reports an edit applied to the live scene. Select, when set,
// is the node to move the cursor to.
type EditDoneMsg struct {
	Message string
	Select  *domain.Node
}

// OpenEditorMsg requests opening the scene file in an editor
type OpenEditorMsg struct {
	URI string
}

// OpenViewerMsg requests showing the scene in the desktop viewer
type OpenViewerMsg struct {
	URI string
}
