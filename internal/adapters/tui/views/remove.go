package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
)

// RemoveKeyMap holds the keys of the remove confirmation
type RemoveKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var RemoveKeys = RemoveKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "remove"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// RemoveModel confirms removing an entity with its subtree
type RemoveModel struct {
	ViewState
	scene *domain.Scene
	node  *domain.Node
}

// NewRemoveModel creates a new remove view model
func NewRemoveModel() *RemoveModel {
	return &RemoveModel{}
}

// SetTarget sets the scene and the node to remove
func (m *RemoveModel) SetTarget(scene *domain.Scene, node *domain.Node) {
	m.scene = scene
	m.node = node
	m.ClearMessage()
}

// Init initializes the remove view
func (m *RemoveModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the remove view. The removal itself runs
// here, not in a command goroutine.
func (m *RemoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, RemoveKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, RemoveKeys.Confirm):
			return m, m.remove()
		}
	}
	return m, nil
}

func (m *RemoveModel) remove() tea.Cmd {
	if m.scene == nil || m.node == nil {
		m.SetMessage("no target selected", true)
		return nil
	}

	parent := m.node.Parent
	result, err := commands.NewRemoveNodeCommand(m.scene, commands.ByID(m.node.ID)).Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	message := result.Message
	if len(result.PrunedBases) > 0 {
		message += fmt.Sprintf("; released %s", strings.Join(result.PrunedBases, ", "))
	}
	return func() tea.Msg {
		return EditDoneMsg{Message: message, Select: parent}
	}
}

// View renders the remove confirmation view
func (m *RemoveModel) View() string {
	p := newPanel("Remove Entity")
	if m.node != nil {
		target := "  " + m.node.Name
		if n := descendants(m.node); n > 0 {
			target += RenderMuted(fmt.Sprintf("  (%d %s)", n, plural(n, "descendant")))
		}
		p.section("Entity:", target)

		if m.scene != nil && m.scene.Tracker.IsMissingRoot(m.node) {
			p.section("", RenderMuted("  This is a missing parent; its children are removed with it."))
		}
	}
	p.section("", RenderMuted("  The change is kept in memory until the scene is saved."))
	return p.status(m.ViewState).done(RenderHelpLine(RemoveKeys.Confirm, RemoveKeys.Cancel))
}

func descendants(node *domain.Node) int {
	n := -1
	node.Walk(func(*domain.Node) bool {
		n++
		return true
	})
	return n
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
