package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sceneforge/internal/adapters/editor"
	"sceneforge/internal/adapters/sysopen"
	"sceneforge/internal/adapters/tui"
	"sceneforge/internal/bootstrap"
)

func main() {
	configFlag := flag.String("config", "", "config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: sceneforge [-config file] <scene>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	rt, err := bootstrap.New(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	uri, err := rt.ToURI(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Log lines would tear the alternate screen
	if f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0); err == nil {
		rt.Log.SetOutput(f)
		defer f.Close()
	}

	// Create and run TUI app
	app := tui.NewApp(rt.Loader, rt.Transport, editor.NewOpener(), uri, rt.Log).
		WithViewer(sysopen.NewOpener())
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
