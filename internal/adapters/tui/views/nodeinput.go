package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
)

// InputMode selects what the node input view does on submit
type InputMode int

const (
	InputModeAdd InputMode = iota
	InputModeRename
)

// NodeInputModel asks for an entity name, either for a new child of the
// selected node or as the new name of the selected node
type NodeInputModel struct {
	ViewState
	name  *NameInput
	mode  InputMode
	scene *domain.Scene
	node  *domain.Node
}

// NewNodeInputModel creates a new node input view model
func NewNodeInputModel() *NodeInputModel {
	return &NodeInputModel{name: NewNameInput()}
}

// SetTarget prepares the input for mode on node. Renaming starts from the
// current name.
func (m *NodeInputModel) SetTarget(scene *domain.Scene, node *domain.Node, mode InputMode) {
	m.scene = scene
	m.node = node
	m.mode = mode
	m.ClearMessage()
	if mode == InputModeRename {
		m.name.Reset(node.Name)
	} else {
		m.name.Reset("")
	}
}

// Init initializes the input view
func (m *NodeInputModel) Init() tea.Cmd {
	return m.name.Init()
}

// Update handles messages for the input view
func (m *NodeInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.name.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.name.Keys.Submit):
			return m, m.submit()
		}
		m.ClearMessage()
	}

	return m, m.name.Update(msg)
}

// submit applies the edit to the live scene before returning, so the
// browser sees the new tree together with EditDoneMsg
func (m *NodeInputModel) submit() tea.Cmd {
	if m.scene == nil || m.node == nil {
		m.SetMessage("no target selected", true)
		return nil
	}

	name := m.name.Value()
	ctx := context.Background()

	var done EditDoneMsg
	switch m.mode {
	case InputModeAdd:
		result, err := commands.NewAddNodeCommand(m.scene, commands.ByID(m.node.ID), name).Execute(ctx)
		if err != nil {
			m.SetMessage(err.Error(), true)
			return nil
		}
		done = EditDoneMsg{Message: result.Message, Select: result.Node}
		if result.Renamed {
			done.Message += fmt.Sprintf(" (%s was taken)", name)
		}

	case InputModeRename:
		result, err := commands.NewRenameNodeCommand(m.scene, commands.ByID(m.node.ID), name).Execute(ctx)
		if err != nil {
			m.SetMessage(err.Error(), true)
			return nil
		}
		done = EditDoneMsg{Message: result.Message, Select: m.node}
	}

	return func() tea.Msg { return done }
}

// Hint describes what the typed name will turn into, or is empty when the
// name is used as typed
func (m *NodeInputModel) Hint() string {
	name := m.name.Value()
	if name == "" || m.scene == nil || m.node == nil {
		return ""
	}
	if m.mode == InputModeRename && name == m.node.Name {
		return ""
	}

	if p := m.scene.FindPlaceholder(name); p != nil && m.scene.FindByName(name) == nil {
		switch {
		case m.mode == InputModeRename && !p.Contains(m.node):
			return fmt.Sprintf("takes the place of missing parent %s and adopts its %d children", name, len(p.Children))
		case m.mode == InputModeAdd && !p.Contains(m.node):
			return fmt.Sprintf("fills missing parent %s; press H in the browser to attach its children", name)
		}
	}
	if !m.scene.Tracker.IsUniqueObjectName(name) {
		return fmt.Sprintf("%s is taken; a numeric suffix will be added", name)
	}
	return ""
}

// View renders the input view
func (m *NodeInputModel) View() string {
	title, subtitle, action := "Add Entity", "New child of "+m.targetName(), "add"
	if m.mode == InputModeRename {
		title, subtitle, action = "Rename Entity", "Renaming "+m.targetName(), "rename"
	}

	p := newPanel(title).subtitle(subtitle)
	if hint := m.Hint(); hint != "" {
		p.section("", m.name.View("Name:"), RenderMuted("  "+hint))
	} else {
		p.section("", m.name.View("Name:"))
	}
	return p.status(m.ViewState).done(m.name.Help(action))
}

func (m *NodeInputModel) targetName() string {
	if m.node == nil {
		return ""
	}
	return m.node.Name
}
