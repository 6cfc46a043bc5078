package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/domain"
)

// RegisterWriteTools adds the tools that write scene files. Each call loads
// the scene, applies one edit and saves it back to the same URI.
func RegisterWriteTools(s *server.MCPServer, t *Tools) {
	s.AddTool(saveTool(), saveHandler(t))
	s.AddTool(addNodeTool(), addNodeHandler(t))
	s.AddTool(renameNodeTool(), renameNodeHandler(t))
	s.AddTool(removeNodeTool(), removeNodeHandler(t))
	s.AddTool(healTool(), healHandler(t))
}

// --- save_scene ---

func saveTool() mcp.Tool {
	return mcp.NewTool("save_scene",
		mcp.WithDescription("Write a scene to a target location. Inherited entities stay in their base scenes; relative references are rewritten for the target."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
		mcp.WithString("target",
			mcp.Description("Target path or URI"),
			mcp.Required(),
		),
	)
}

func saveHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := req.GetString("target", "")
		if target == "" {
			return toolError(fmt.Errorf("target is required"))
		}

		target, err := t.uri(target)
		if err != nil {
			return toolError(err)
		}

		scene, err := t.load(ctx, req)
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewSaveSceneCommand(t.Writer, scene, target).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_node ---

func addNodeTool() mcp.Tool {
	return mcp.NewTool("add_node",
		mcp.WithDescription("Add an entity under a parent and save the scene. Names already in use get a numeric suffix."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
		mcp.WithString("parent",
			mcp.Description("Parent entity name. Omit to add under the root."),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new entity"),
			mcp.Required(),
		),
	)
}

func addNodeHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return t.edit(ctx, req, func(scene *domain.Scene) (string, error) {
			parent := req.GetString("parent", "")
			if parent == "" {
				parent = scene.Root.Name
			}
			result, err := commands.NewAddNodeCommand(scene, commands.ByName(parent), req.GetString("name", "")).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- rename_node ---

func renameNodeTool() mcp.Tool {
	return mcp.NewTool("rename_node",
		mcp.WithDescription("Rename an entity and save the scene. Taking the name of a missing parent adopts its orphaned children."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Current entity name"),
			mcp.Required(),
		),
		mcp.WithString("new_name",
			mcp.Description("New entity name"),
			mcp.Required(),
		),
	)
}

func renameNodeHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return t.edit(ctx, req, func(scene *domain.Scene) (string, error) {
			cmd := commands.NewRenameNodeCommand(scene, commands.ByName(req.GetString("name", "")), req.GetString("new_name", ""))
			result, err := cmd.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- remove_node ---

func removeNodeTool() mcp.Tool {
	return mcp.NewTool("remove_node",
		mcp.WithDescription("Remove an entity and its subtree, then save the scene."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Entity name"),
			mcp.Required(),
		),
	)
}

func removeNodeHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return t.edit(ctx, req, func(scene *domain.Scene) (string, error) {
			result, err := commands.NewRemoveNodeCommand(scene, commands.ByName(req.GetString("name", ""))).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- heal_scene ---

func healTool() mcp.Tool {
	return mcp.NewTool("heal_scene",
		mcp.WithDescription("Reattach children of missing parents that now exist, then save the scene."),
		mcp.WithString("uri",
			mcp.Description("Scene file path or absolute URI"),
			mcp.Required(),
		),
	)
}

func healHandler(t *Tools) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return t.edit(ctx, req, func(scene *domain.Scene) (string, error) {
			result, err := commands.NewHealMissingCommand(scene).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// edit loads the scene named by the request, applies fn and saves the
// scene back to its own URI
func (t *Tools) edit(ctx context.Context, req mcp.CallToolRequest, fn func(*domain.Scene) (string, error)) (*mcp.CallToolResult, error) {
	if t.Writer == nil {
		return toolError(fmt.Errorf("scene writing is not configured"))
	}

	scene, err := t.load(ctx, req)
	if err != nil {
		return toolError(err)
	}

	message, err := fn(scene)
	if err != nil {
		return toolError(err)
	}

	if _, err := commands.NewSaveSceneCommand(t.Writer, scene, "").Execute(ctx); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(message), nil
}
