package shelf

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cmdshelf/cmdshelf/internal/library"
	"github.com/cmdshelf/cmdshelf/internal/tree"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

func registerTools(srv *server.MCPServer, svc *library.Service) {
	registerListCommandsTool(srv, svc)
	registerGetCommandTool(srv, svc)
	registerAddCommandTool(srv, svc)
	registerAddGroupTool(srv, svc)
	registerUpdateCommandTool(srv, svc)
	registerDeleteNodeTool(srv, svc)
	registerMoveNodeTool(srv, svc)
	registerRunCommandTool(srv, svc)
	registerCopyCommandTool(srv, svc)
	registerSearchCommandsTool(srv, svc)
	registerExportLibraryTool(srv, svc)
}

func registerListCommandsTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"list_commands",
		mcp.WithDescription("List the full command library as an ordered forest of commands and groups."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(types.CommandData{Commands: svc.Data()})
	})
}

func registerGetCommandTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"get_command",
		mcp.WithDescription("Fetch a single command or group by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		node, ok := svc.Find(id)
		if !ok {
			return mcp.NewToolResultError(library.ErrNotFound.Error()), nil
		}
		return toJSONResult(node)
	})
}

func registerAddCommandTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"add_command",
		mcp.WithDescription("Save a shell command to the library."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Raw shell command text, stored verbatim."),
		),
		mcp.WithString("label",
			mcp.Description("Display label; derived from the command text when omitted."),
		),
		mcp.WithString("description",
			mcp.Description("Optional free-text description."),
		),
		mcp.WithString("parent_id",
			mcp.Description("Group to place the command in; the root sequence when omitted."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Command     string `json:"command"`
			Label       string `json:"label"`
			Description string `json:"description"`
			ParentID    string `json:"parent_id"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		item, err := svc.AddCommand(ctx, args.Label, args.Command, args.Description, args.ParentID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(item)
	})
}

func registerAddGroupTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"add_group",
		mcp.WithDescription("Create a group for organizing commands."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Group display label."),
		),
		mcp.WithString("parent_id",
			mcp.Description("Group to nest under; the root sequence when omitted."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		label, err := request.RequireString("label")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		parentID := request.GetString("parent_id", "")

		group, err := svc.AddGroup(ctx, label, parentID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(group)
	})
}

func registerUpdateCommandTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"update_command",
		mcp.WithDescription("Update fields of a command or rename a group. Omitted fields are left untouched."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node identifier to modify."),
		),
		mcp.WithString("label",
			mcp.Description("New display label."),
		),
		mcp.WithString("command",
			mcp.Description("New command text. Ignored for groups."),
		),
		mcp.WithString("description",
			mcp.Description("New description. Ignored for groups."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var patch tree.Patch
		raw := request.GetArguments()
		if v, ok := raw["label"].(string); ok {
			patch.Label = &v
		}
		if v, ok := raw["command"].(string); ok {
			patch.Command = &v
		}
		if v, ok := raw["description"].(string); ok {
			patch.Description = &v
		}

		if err := svc.Update(ctx, id, patch); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		node, _ := svc.Find(id)
		return toJSONResult(node)
	})
}

func registerDeleteNodeTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"delete_node",
		mcp.WithDescription("Delete a command or group. Deleting a group removes its whole subtree."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": id})
	})
}

func registerMoveNodeTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"move_node",
		mcp.WithDescription("Move a node relative to another node, or to the end of the root sequence when no target is given."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node identifier to move."),
		),
		mcp.WithString("target_id",
			mcp.Description("Node to position against."),
		),
		mcp.WithString("position",
			mcp.Description("Placement relative to the target."),
			mcp.Enum("before", "after", "inside"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		targetID := request.GetString("target_id", "")
		position := request.GetString("position", "")

		if targetID == "" || position == "" {
			err = svc.Drop(ctx, id, targetID)
		} else {
			err = svc.Move(ctx, id, targetID, tree.Position(position))
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"moved": id})
	})
}

func registerRunCommandTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"run_command",
		mcp.WithDescription("Dispatch a saved command to the configured terminal."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Command identifier to run."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.Run(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"ran": id})
	})
}

func registerCopyCommandTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"copy_command",
		mcp.WithDescription("Copy a saved command's text to the configured clipboard."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Command identifier to copy."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.Copy(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"copied": id})
	})
}

func registerSearchCommandsTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"search_commands",
		mcp.WithDescription("Search commands and groups by label or command text. Supports * and ** wildcards."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search pattern. Plain text matches as a case-insensitive substring."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		matches := svc.Search(query)
		payload := map[string]any{
			"query":   query,
			"matches": matches,
			"count":   len(matches),
		}
		if len(matches) == 0 {
			if suggestion, ok := svc.Suggest(query); ok {
				payload["suggestion"] = suggestion
			}
		}
		return toJSONResult(payload)
	})
}

func registerExportLibraryTool(srv *server.MCPServer, svc *library.Service) {
	tool := mcp.NewTool(
		"export_library",
		mcp.WithDescription("Export the full library as its canonical JSON document."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := svc.Export()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(doc)), nil
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
