package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"sceneforge/internal/adapters/tui/styles"
)

// ViewState is embedded by every view model: the terminal size and the
// single status line the view shows under its body
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize records the terminal size
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage replaces the status line
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage empties the status line
func (s *ViewState) ClearMessage() {
	s.SetMessage("", false)
}

// panel lays out a full screen view: title, optional sections, the status
// line and a help line at the bottom
type panel struct {
	b strings.Builder
}

func newPanel(title string) *panel {
	p := &panel{}
	p.b.WriteString(styles.Title.Render(title))
	p.b.WriteString("\n")
	return p
}

func (p *panel) subtitle(text string) *panel {
	p.b.WriteString(styles.Subtitle.Render(text))
	p.b.WriteString("\n\n")
	return p
}

// section writes a labelled block; lines are written as given
func (p *panel) section(label string, lines ...string) *panel {
	if label != "" {
		p.b.WriteString(styles.Label.Render(label))
		p.b.WriteString("\n")
	}
	for _, l := range lines {
		p.b.WriteString(l)
		p.b.WriteString("\n")
	}
	p.b.WriteString("\n")
	return p
}

func (p *panel) status(s ViewState) *panel {
	if s.Message != "" {
		p.b.WriteString(RenderMessage(s.Message, s.MessageErr))
		p.b.WriteString("\n\n")
	}
	return p
}

// done appends the footer and renders the panel
func (p *panel) done(footer string) string {
	p.b.WriteString(footer)
	return styles.App.Render(p.b.String())
}

// RenderHelpLine renders key bindings as "key desc" pairs separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage styles a status line as an error or a success
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// RenderMuted renders secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}
