package ports

import "os/exec"

// EditorOpener opens scene files in an external editor
type EditorOpener interface {
	// OpenScene opens the file behind a scene URI and waits for the editor
	OpenScene(uri string) error

	// Command returns an exec.Cmd for editing the file behind a scene URI.
	// This is useful for integrating with bubbletea's ExecProcess
	Command(uri string) (*exec.Cmd, error)
}
