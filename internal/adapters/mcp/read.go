package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// Tools carries what the scene tools need. ToURI turns a tool argument
// (path or URI) into an absolute URI; nil leaves arguments unchanged.
type Tools struct {
	Loader ports.SceneLoader
	Writer ports.Writer
	Index  ports.SceneIndex
	ToURI  func(string) (string, error)
}

// RegisterReadTools adds all read-only scene tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, t *Tools) {
	s.AddTool(loadSceneTool(), loadSceneHandler(t))
	s.AddTool(conflictsTool(), conflictsHandler(t))
	s.AddTool(serializeTool(), serializeHandler(t))
	if t.Index != nil {
		s.AddTool(searchTool(), searchHandler(t))
	}
}

// --- load_scene ---

func loadSceneTool() mcp.Tool {
	return mcp.NewTool("load_scene",
		mcp.WithDescription("Load a scene with its inheritance chain and display the composed entity tree. Missing placeholders and duplicate subtrees are flagged."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI (file://, http://, https://)"),
			mcp.Required(),
		),
	)
}

func loadSceneHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scene, err := t.load(ctx, req)
		if err != nil {
			return toolError(err)
		}

		lines, err := commands.NewListNodesCommand(scene).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "scene: %s\n", scene.URI)
		for _, ancestor := range scene.Chain {
			fmt.Fprintf(&sb, "inherits: %s\n", ancestor)
		}
		sb.WriteByte('\n')
		renderLines(&sb, lines)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderLines(sb *strings.Builder, lines []commands.NodeLine) {
	for _, l := range lines {
		sb.WriteString(strings.Repeat("  ", l.Depth))
		sb.WriteString(l.DisplayName)
		switch {
		case l.MissingRoot:
			sb.WriteString("  [missing]")
		case l.DuplicateRoot:
			sb.WriteString("  [duplicate]")
		}
		if len(l.Components) > 0 {
			fmt.Fprintf(sb, "  (%s)", strings.Join(l.Components, ", "))
		}
		sb.WriteByte('\n')
	}
}

// --- scene_conflicts ---

func conflictsTool() mcp.Tool {
	return mcp.NewTool("scene_conflicts",
		mcp.WithDescription("Report missing parents and duplicate names in a scene."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
	)
}

func conflictsHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scene, err := t.load(ctx, req)
		if err != nil {
			return toolError(err)
		}

		report, err := commands.NewConflictsCommand(scene).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if !report.Missing && !report.Duplicate && len(report.UnknownComponents) == 0 {
			return mcp.NewToolResultText("No conflicts."), nil
		}

		var sb strings.Builder
		for _, name := range report.MissingRoots {
			fmt.Fprintf(&sb, "missing parent: %s\n", name)
		}
		for _, name := range report.DuplicateRoots {
			fmt.Fprintf(&sb, "duplicate name: %s\n", name)
		}
		for _, name := range report.UnknownComponents {
			fmt.Fprintf(&sb, "unknown component: %s\n", name)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- serialize_scene ---

func serializeTool() mcp.Tool {
	return mcp.NewTool("serialize_scene",
		mcp.WithDescription("Return the scene document that would be written for a target location, without writing it."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
		mcp.WithString("target",
			mcp.Description("Target path or URI; relative references are rewritten for it. Defaults to the scene's own URI."),
		),
	)
}

func serializeHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scene, err := t.load(ctx, req)
		if err != nil {
			return toolError(err)
		}

		target, err := t.uri(req.GetString("target", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewSaveSceneCommand(nil, scene, target).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(result.Data)), nil
	}
}

// --- search_entities ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search_entities",
		mcp.WithDescription("Search indexed scenes for entities by name."),
		mcp.WithString("query",
			mcp.Description("Search query (at least two characters)"),
			mcp.Required(),
		),
	)
}

func searchHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchEntitiesCommand(t.Index, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  %s\n", r.Name, r.TreePath, r.SceneURI)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func (t *Tools) uri(arg string) (string, error) {
	if arg == "" || t.ToURI == nil {
		return arg, nil
	}
	return t.ToURI(arg)
}

func (t *Tools) load(ctx context.Context, req mcp.CallToolRequest) (*domain.Scene, error) {
	uri := req.GetString("uri", "")
	if uri == "" {
		return nil, fmt.Errorf("uri is required")
	}
	uri, err := t.uri(uri)
	if err != nil {
		return nil, err
	}
	return commands.NewLoadSceneCommand(t.Loader, uri).Execute(ctx)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
