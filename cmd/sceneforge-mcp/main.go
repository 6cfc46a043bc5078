package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "sceneforge/internal/adapters/mcp"
	"sceneforge/internal/bootstrap"
	"sceneforge/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "config file")
	searchFlag := flag.String("search-path", config.SearchPath(), "directory scenes are looked up in")
	readOnly := flag.Bool("read-only", false, "do not register tools that write scenes")
	flag.Parse()

	rt, err := bootstrap.New(*configFlag, func(c *config.Config) {
		c.SearchPath = config.ExpandHome(*searchFlag)
	})
	if err != nil {
		log.Fatalf("sceneforge-mcp: %v", err)
	}

	tools := &mcpadapter.Tools{
		Loader: rt.Loader,
		Writer: rt.Transport,
		ToURI:  rt.ToURI,
	}

	idx, err := rt.OpenIndex()
	if err != nil {
		rt.Log.WithError(err).Warn("entity search disabled")
	} else {
		defer idx.Close()
		tools.Index = idx
	}

	mcpServer := server.NewMCPServer(
		"sceneforge-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, tools)
	if !*readOnly {
		mcpadapter.RegisterWriteTools(mcpServer, tools)
	}

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("sceneforge-mcp: %v", err)
	}
}
