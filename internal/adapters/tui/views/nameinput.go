package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sceneforge/internal/adapters/tui/styles"
)

// NameInputKeyMap holds the keys that leave a name input
type NameInputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var NameInputKeys = NameInputKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// maxNameLength bounds entity names typed in the browser
const maxNameLength = 100

// NameInput is a single line editor for an entity name
type NameInput struct {
	input textinput.Model
	Keys  NameInputKeyMap
}

// NewNameInput creates a focused, empty name input
func NewNameInput() *NameInput {
	in := textinput.New()
	in.Placeholder = "entity name"
	in.CharLimit = maxNameLength
	in.Focus()
	return &NameInput{input: in, Keys: NameInputKeys}
}

// Init starts the cursor blinking
func (n *NameInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards editing keys to the text input
func (n *NameInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)
	return cmd
}

// Value returns the typed name without surrounding blanks
func (n *NameInput) Value() string {
	return strings.TrimSpace(n.input.Value())
}

// Reset replaces the text and puts the cursor at its end
func (n *NameInput) Reset(value string) {
	n.input.SetValue(value)
	n.input.CursorEnd()
	n.input.Focus()
}

// View renders the input box under label
func (n *NameInput) View(label string) string {
	return styles.Label.Render(label) + "\n" + styles.InputBox.Render(n.input.View())
}

// Help renders the footer, naming the submit action
func (n *NameInput) Help(action string) string {
	submit := key.NewBinding(
		key.WithKeys(n.Keys.Submit.Keys()...),
		key.WithHelp(n.Keys.Submit.Help().Key, action),
	)
	return RenderHelpLine(submit, n.Keys.Cancel)
}
