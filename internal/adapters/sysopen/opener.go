package sysopen

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// Opener implements ports.ViewerOpener with the desktop's default handler
type Opener struct {
	goos  string
	start func(*exec.Cmd) error
}

var _ ports.ViewerOpener = (*Opener)(nil)

// NewOpener creates an opener for the running operating system
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, start: (*exec.Cmd).Start}
}

// Open hands a scene URI to the default viewer without waiting for it
func (o *Opener) Open(uri string) error {
	target, err := Target(uri)
	if err != nil {
		return err
	}
	cmd, err := o.command(target)
	if err != nil {
		return err
	}
	return o.start(cmd)
}

// Target returns what the viewer should be given for a scene URI: a local
// path for file URIs, the URI itself for http(s)
func Target(uri string) (string, error) {
	if path, ok := domain.URIToPath(uri); ok {
		return path, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid scene uri %q: %w", uri, err)
	}
	switch u.Scheme {
	case "http", "https":
		return uri, nil
	default:
		return "", fmt.Errorf("cannot open %q: unsupported scheme %q", uri, u.Scheme)
	}
}

func (o *Opener) command(target string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
