package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/keonwoo-dev/todo-mcp/internal/service"
)

func registerTools(s *server.MCPServer, svc *service.TodoService) {
	s.AddTool(mcp.NewTool("list_todos",
		mcp.WithDescription("List all todos in display order."),
	), listTodosHandler(svc))

	s.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a new todo."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the todo; must not be empty.")),
	), addTodoHandler(svc))

	s.AddTool(mcp.NewTool("complete_todo",
		mcp.WithDescription("Mark a todo as completed. Select it by exactly one of: id, 1-based index, or a case-insensitive fragment of its title. Title selection picks the first incomplete match."),
		mcp.WithString("id", mcp.Description("Todo id, e.g. todo-3.")),
		mcp.WithNumber("index", mcp.Description("1-based position in the current list.")),
		mcp.WithString("title", mcp.Description("Substring of the title to match, case-insensitive.")),
	), completeTodoHandler(svc))

	s.AddTool(mcp.NewTool("delete_todo",
		mcp.WithDescription("Delete a todo by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Todo id, e.g. todo-3.")),
	), deleteTodoHandler(svc))

	s.AddTool(mcp.NewTool("clear_completed",
		mcp.WithDescription("Delete every completed todo and report what was removed."),
	), clearCompletedHandler(svc))
}

func listTodosHandler(svc *service.TodoService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		todos, err := svc.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list todos: %w", err)
		}
		return jsonResult(map[string]any{"todos": todos})
	}
}

func addTodoHandler(svc *service.TodoService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		todo, err := svc.Add(ctx, title)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(todo)
	}
}

func completeTodoHandler(svc *service.TodoService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		index := req.GetInt("index", 0)
		title := req.GetString("title", "")

		selectors := 0
		for _, set := range []bool{id != "", index != 0, title != ""} {
			if set {
				selectors++
			}
		}
		if selectors != 1 {
			return mcp.NewToolResultError("exactly one of id, index or title is required"), nil
		}

		switch {
		case id != "":
			todo, err := svc.CompleteByID(ctx, id)
			if err != nil {
				return serviceErrorResult(err)
			}
			return jsonResult(todo)
		case index != 0:
			todo, resolved, err := svc.CompleteByIndex(ctx, index)
			if err != nil {
				return serviceErrorResult(err)
			}
			return jsonResult(map[string]any{"todo": todo, "index": resolved})
		default:
			todo, err := svc.CompleteByTitle(ctx, title)
			if err != nil {
				return serviceErrorResult(err)
			}
			return jsonResult(todo)
		}
	}
}

func deleteTodoHandler(svc *service.TodoService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		todo, err := svc.DeleteByID(ctx, id)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{"deleted": todo})
	}
}

func clearCompletedHandler(svc *service.TodoService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		removed, err := svc.DeleteCompleted(ctx)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{"removed": removed})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// serviceErrorResult reports domain failures to the model as tool errors;
// anything unexpected propagates as a protocol-level error.
func serviceErrorResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidIndex):
		return mcp.NewToolResultError(err.Error()), nil
	default:
		return nil, err
	}
}
