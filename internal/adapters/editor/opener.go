package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// Opener implements ports.EditorOpener for local scene files
type Opener struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath, getenv: os.Getenv}
}

// OpenScene opens the file behind a scene URI in the user's editor and
// waits for it to exit
func (o *Opener) OpenScene(uri string) error {
	cmd, err := o.Command(uri)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd editing the file behind a scene URI, for use
// with bubbletea's ExecProcess. Remote scenes cannot be edited in place.
func (o *Opener) Command(uri string) (*exec.Cmd, error) {
	path, ok := domain.URIToPath(uri)
	if !ok {
		return nil, fmt.Errorf("only local scenes can be edited: %s", uri)
	}

	argv := o.findEditor()
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command line, which may carry flags such
// as "code --wait"
func (o *Opener) findEditor() []string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := strings.Fields(o.getenv(key)); len(v) > 0 {
			return v
		}
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(editor); err == nil {
			return []string{path}
		}
	}
	return nil
}
