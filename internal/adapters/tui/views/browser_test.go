package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
)

type memTransport map[string]string

func (m memTransport) Fetch(_ context.Context, uri string) ([]byte, error) {
	doc, ok := m[uri]
	if !ok {
		return nil, fmt.Errorf("no document at %s", uri)
	}
	return []byte(doc), nil
}

func (m memTransport) Write(_ context.Context, uri string, data []byte) error {
	m[uri] = string(data)
	return nil
}

const roomURI = "file:///s/room.scene"

func newLoadedBrowser(t *testing.T) (*BrowserModel, memTransport) {
	t.Helper()
	tr := memTransport{
		"file:///s/base.scene": `{"root": "world", "entities": {"table": {}, "cup": {"parent": "shelf"}}}`,
		roomURI:                `{"inherits": "./base.scene", "entities": {"lamp": {"components": [{"name": "light", "props": {}}]}}}`,
	}
	m := NewBrowserModel(application.NewResolver(tr), tr, roomURI)
	m.SetSize(80, 40)

	msg := m.Init()()
	if _, ok := msg.(SceneLoadedMsg); !ok {
		t.Fatalf("expected SceneLoadedMsg, got %T", msg)
	}
	m.Update(msg)
	return m, tr
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selectNamed(t *testing.T, m *BrowserModel, name string) {
	t.Helper()
	for i, n := range m.rows {
		if n.Name == name {
			m.scroll.SetCursor(i)
			return
		}
	}
	t.Fatalf("row %s not visible", name)
}

func TestBrowser_LoadExpandsRootAndPlaceholders(t *testing.T) {
	m, _ := newLoadedBrowser(t)

	var names []string
	for _, n := range m.rows {
		names = append(names, n.Name)
	}
	want := "world table shelf cup lamp"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("rows = %q, want %q", got, want)
	}

	view := m.View()
	for _, s := range []string{"[missing]", "1 missing parents", "inherits file:///s/base.scene", "light"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected %q in view", s)
		}
	}
}

func TestBrowser_Navigation(t *testing.T) {
	m, _ := newLoadedBrowser(t)

	m.Update(keyMsg("j"))
	if got := m.SelectedNode().Name; got != "table" {
		t.Fatalf("expected table, got %s", got)
	}

	selectNamed(t, m, "cup")
	m.Update(keyMsg("h"))
	if got := m.SelectedNode().Name; got != "shelf" {
		t.Fatalf("h on a leaf should move to its parent, got %s", got)
	}

	m.Update(keyMsg("h"))
	if len(m.rows) != 4 {
		t.Errorf("expected shelf collapsed, rows = %d", len(m.rows))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.rows) != 5 {
		t.Errorf("expected shelf expanded again, rows = %d", len(m.rows))
	}
}

func TestBrowser_EditRequests(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		key     string
		want    any
		wantErr string
	}{
		{name: "add", row: "table", key: "a", want: SwitchToInputMsg{}},
		{name: "rename", row: "table", key: "r", want: SwitchToInputMsg{}},
		{name: "rename placeholder", row: "shelf", key: "r", wantErr: "cannot be renamed"},
		{name: "rename inherited root", row: "world", key: "r", wantErr: "base scene"},
		{name: "remove", row: "lamp", key: "d", want: SwitchToRemoveMsg{}},
		{name: "remove root", row: "world", key: "d", wantErr: "root cannot be removed"},
		{name: "edit file", row: "lamp", key: "e", want: OpenEditorMsg{}},
		{name: "open viewer", row: "lamp", key: "o", want: OpenViewerMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newLoadedBrowser(t)
			selectNamed(t, m, tt.row)

			_, cmd := m.Update(keyMsg(tt.key))
			if tt.wantErr != "" {
				if cmd != nil {
					t.Fatalf("expected no command")
				}
				if !m.MessageErr || !strings.Contains(m.Message, tt.wantErr) {
					t.Errorf("expected error %q, got %q", tt.wantErr, m.Message)
				}
				return
			}
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := fmt.Sprintf("%T", cmd()); got != fmt.Sprintf("%T", tt.want) {
				t.Errorf("expected %s, got %s", fmt.Sprintf("%T", tt.want), got)
			}
		})
	}
}

func TestBrowser_AddRenameSaveFlow(t *testing.T) {
	m, tr := newLoadedBrowser(t)
	selectNamed(t, m, "table")

	_, cmd := m.Update(keyMsg("r"))
	req := cmd().(SwitchToInputMsg)

	input := NewNodeInputModel()
	input.SetTarget(m.Scene(), req.Node, req.Mode)
	input.name.Reset("shelf")
	if hint := input.Hint(); !strings.Contains(hint, "adopts its 1 children") {
		t.Errorf("unexpected hint %q", hint)
	}
	_, cmd = input.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("rename failed: %s", input.Message)
	}
	m.Update(cmd())

	if !m.Dirty() {
		t.Error("expected unsaved edits")
	}
	if m.SelectedNode().Name != "shelf" {
		t.Errorf("expected cursor on renamed node, got %s", m.SelectedNode().Name)
	}
	if m.Scene().ConflictInfo().Missing {
		t.Error("rename onto the placeholder name should heal it")
	}

	m.Update(keyMsg("s"))
	if m.Dirty() || m.MessageErr {
		t.Fatalf("save failed: %s", m.Message)
	}
	if !strings.Contains(tr[roomURI], `"shelf"`) {
		t.Errorf("saved scene lacks renamed entity: %s", tr[roomURI])
	}
}

func TestNodeInput_Hint(t *testing.T) {
	tests := []struct {
		name   string
		target string
		mode   InputMode
		typed  string
		want   string
	}{
		{name: "free name", target: "world", mode: InputModeAdd, typed: "rug", want: ""},
		{name: "taken name", target: "world", mode: InputModeAdd, typed: "lamp", want: "lamp is taken"},
		{name: "fills missing parent", target: "world", mode: InputModeAdd, typed: "shelf", want: "fills missing parent shelf"},
		{name: "unchanged rename", target: "table", mode: InputModeRename, typed: "table", want: ""},
		{name: "rename onto taken name", target: "table", mode: InputModeRename, typed: "lamp", want: "numeric suffix"},
		{name: "rename adopts children", target: "table", mode: InputModeRename, typed: "shelf", want: "adopts its 1 children"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newLoadedBrowser(t)
			input := NewNodeInputModel()
			input.SetTarget(m.Scene(), m.Scene().FindByName(tt.target), tt.mode)
			input.name.Reset(tt.typed)

			hint := input.Hint()
			if tt.want == "" {
				if hint != "" {
					t.Errorf("expected no hint, got %q", hint)
				}
				return
			}
			if !strings.Contains(hint, tt.want) {
				t.Errorf("hint %q does not mention %q", hint, tt.want)
			}
			if !strings.Contains(input.View(), tt.want) {
				t.Errorf("view does not show the hint")
			}
		})
	}
}

func TestBrowser_RemoveFlow(t *testing.T) {
	m, _ := newLoadedBrowser(t)
	selectNamed(t, m, "shelf")

	_, cmd := m.Update(keyMsg("d"))
	req := cmd().(SwitchToRemoveMsg)

	remove := NewRemoveModel()
	remove.SetTarget(m.Scene(), req.Node)
	if !strings.Contains(remove.View(), "(1 descendant)") {
		t.Errorf("expected descendant count in view")
	}

	_, cmd = remove.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatalf("remove failed: %s", remove.Message)
	}
	m.Update(cmd())

	if m.Scene().FindByName("cup") != nil {
		t.Error("expected cup removed with its placeholder")
	}
	if m.Scene().ConflictInfo().Missing {
		t.Error("expected no missing conflicts left")
	}
	if m.SelectedNode() != m.Scene().Root {
		t.Errorf("expected cursor on the former parent")
	}
}

func TestBrowser_Copy(t *testing.T) {
	m, _ := newLoadedBrowser(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	selectNamed(t, m, "lamp")
	m.Update(keyMsg("y"))
	if copied != "lamp" {
		t.Errorf("expected lamp copied, got %q", copied)
	}

	m.Update(keyMsg("Y"))
	if !strings.Contains(copied, `"inherits"`) {
		t.Errorf("expected scene JSON copied, got %q", copied)
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(keyMsg("y"))
	if !m.MessageErr {
		t.Error("expected clipboard error shown")
	}
}

func TestBrowser_ExternalChange(t *testing.T) {
	m, _ := newLoadedBrowser(t)

	if cmd := m.ExternalChange("/s/room.scene"); cmd == nil {
		t.Error("clean scene should reload on change")
	}

	m.Update(EditDoneMsg{Message: "edited"})
	if cmd := m.ExternalChange("/s/room.scene"); cmd != nil {
		t.Error("dirty scene must not reload on change")
	}
	if !strings.Contains(m.Message, "changed on disk") {
		t.Errorf("expected warning, got %q", m.Message)
	}
}

func TestBrowser_LoadFailure(t *testing.T) {
	m := NewBrowserModel(application.NewResolver(memTransport{}), nil, roomURI)
	m.Update(m.Init()())

	if m.Scene() != nil {
		t.Fatal("expected no scene")
	}
	if !strings.Contains(m.View(), "cannot load") {
		t.Errorf("expected load error in view")
	}

	m.loadErr = nil
	m.scene = domain.NewScene(roomURI, "world")
	m.Update(keyMsg("s"))
	if !strings.Contains(m.Message, "saving is disabled") {
		t.Errorf("expected saving disabled, got %q", m.Message)
	}
}

func TestScroller(t *testing.T) {
	s := NewScroller(3)
	s.SetTotal(10)

	for range 4 {
		s.Down()
	}
	if start, end := s.VisibleRange(); start != 2 || end != 5 {
		t.Errorf("range = [%d,%d), want [2,5)", start, end)
	}

	s.PageDown()
	s.PageDown()
	if s.Cursor() != 9 {
		t.Errorf("cursor = %d, want 9", s.Cursor())
	}
	if s.Down() {
		t.Error("Down at the end should report false")
	}

	s.SetTotal(4)
	if start, end := s.VisibleRange(); s.Cursor() != 3 || start != 1 || end != 4 {
		t.Errorf("after shrink cursor=%d range=[%d,%d)", s.Cursor(), start, end)
	}

	s.SetTotal(0)
	if s.Cursor() != 0 {
		t.Errorf("empty scroller cursor = %d", s.Cursor())
	}
}
