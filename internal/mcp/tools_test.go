package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/keonwoo-dev/todo-mcp/internal/model"
	"github.com/keonwoo-dev/todo-mcp/internal/service"
	"github.com/keonwoo-dev/todo-mcp/internal/store"
)

func newTestService(t *testing.T) *service.TodoService {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "todos.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return service.NewTodoService(st)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func mustCall(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := h(context.Background(), callRequest(args))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return result
}

func TestAddTodoTool(t *testing.T) {
	svc := newTestService(t)
	h := addTodoHandler(svc)

	result := mustCall(t, h, map[string]any{"title": "Buy milk"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}

	var todo model.Todo
	if err := json.Unmarshal([]byte(textOf(t, result)), &todo); err != nil {
		t.Fatalf("result is not a todo: %v", err)
	}
	if todo.ID != "todo-1" || todo.Title != "Buy milk" || todo.Completed {
		t.Errorf("unexpected todo: %+v", todo)
	}
}

func TestAddTodoTool_MissingTitle(t *testing.T) {
	svc := newTestService(t)
	h := addTodoHandler(svc)

	result := mustCall(t, h, map[string]any{})
	if !result.IsError {
		t.Fatal("expected tool error for missing title")
	}
}

func TestAddTodoTool_BlankTitle(t *testing.T) {
	svc := newTestService(t)
	h := addTodoHandler(svc)

	result := mustCall(t, h, map[string]any{"title": "   "})
	if !result.IsError {
		t.Fatal("expected tool error for blank title")
	}
}

func TestListTodosTool(t *testing.T) {
	svc := newTestService(t)
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Buy milk"})
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Walk dog"})

	result := mustCall(t, listTodosHandler(svc), nil)
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}

	var payload struct {
		Todos []model.Todo `json:"todos"`
	}
	if err := json.Unmarshal([]byte(textOf(t, result)), &payload); err != nil {
		t.Fatalf("result is not a todo list: %v", err)
	}
	if len(payload.Todos) != 2 || payload.Todos[0].ID != "todo-1" || payload.Todos[1].ID != "todo-2" {
		t.Errorf("unexpected list: %+v", payload.Todos)
	}
}

func TestCompleteTodoTool_Selectors(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantError string
	}{
		{name: "by id", args: map[string]any{"id": "todo-1"}},
		{name: "by index", args: map[string]any{"index": 2}},
		{name: "by title", args: map[string]any{"title": "dog"}},
		{
			name:      "no selector",
			args:      map[string]any{},
			wantError: "exactly one",
		},
		{
			name:      "multiple selectors",
			args:      map[string]any{"id": "todo-1", "title": "dog"},
			wantError: "exactly one",
		},
		{
			name:      "unknown id",
			args:      map[string]any{"id": "todo-99"},
			wantError: "not found",
		},
		{
			name:      "index out of range",
			args:      map[string]any{"index": 9},
			wantError: "invalid index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			mustCall(t, addTodoHandler(svc), map[string]any{"title": "Buy milk"})
			mustCall(t, addTodoHandler(svc), map[string]any{"title": "Walk dog"})

			result := mustCall(t, completeTodoHandler(svc), tt.args)
			if tt.wantError != "" {
				if !result.IsError {
					t.Fatalf("expected tool error, got: %s", textOf(t, result))
				}
				if text := textOf(t, result); !strings.Contains(text, tt.wantError) {
					t.Errorf("expected error containing %q, got %q", tt.wantError, text)
				}
				return
			}
			if result.IsError {
				t.Fatalf("unexpected tool error: %s", textOf(t, result))
			}
		})
	}
}

func TestCompleteTodoTool_ByIndexEchoesIndex(t *testing.T) {
	svc := newTestService(t)
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Buy milk"})
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Walk dog"})

	result := mustCall(t, completeTodoHandler(svc), map[string]any{"index": 2})

	var payload struct {
		Todo  model.Todo `json:"todo"`
		Index int        `json:"index"`
	}
	if err := json.Unmarshal([]byte(textOf(t, result)), &payload); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if payload.Index != 2 || payload.Todo.ID != "todo-2" || !payload.Todo.Completed {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestCompleteTodoTool_TitleProgressesThroughDuplicates(t *testing.T) {
	svc := newTestService(t)
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Walk dog"})
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Walk dog"})

	first := mustCall(t, completeTodoHandler(svc), map[string]any{"title": "walk"})
	second := mustCall(t, completeTodoHandler(svc), map[string]any{"title": "walk"})
	third := mustCall(t, completeTodoHandler(svc), map[string]any{"title": "walk"})

	var a, b model.Todo
	if err := json.Unmarshal([]byte(textOf(t, first)), &a); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if err := json.Unmarshal([]byte(textOf(t, second)), &b); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if a.ID != "todo-1" || b.ID != "todo-2" {
		t.Errorf("expected progression todo-1 then todo-2, got %s then %s", a.ID, b.ID)
	}
	if !third.IsError {
		t.Error("expected tool error once all matches are complete")
	}
}

func TestDeleteTodoTool(t *testing.T) {
	svc := newTestService(t)
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Buy milk"})

	result := mustCall(t, deleteTodoHandler(svc), map[string]any{"id": "todo-1"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}

	again := mustCall(t, deleteTodoHandler(svc), map[string]any{"id": "todo-1"})
	if !again.IsError {
		t.Error("expected tool error deleting a missing todo")
	}
}

func TestClearCompletedTool(t *testing.T) {
	svc := newTestService(t)
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Buy milk"})
	mustCall(t, addTodoHandler(svc), map[string]any{"title": "Walk dog"})
	mustCall(t, completeTodoHandler(svc), map[string]any{"id": "todo-1"})

	result := mustCall(t, clearCompletedHandler(svc), nil)
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}

	var payload struct {
		Removed []model.Todo `json:"removed"`
	}
	if err := json.Unmarshal([]byte(textOf(t, result)), &payload); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(payload.Removed) != 1 || payload.Removed[0].ID != "todo-1" {
		t.Errorf("unexpected removed set: %+v", payload.Removed)
	}
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := NewServer(newTestService(t))
	if s == nil {
		t.Fatal("expected a server")
	}
	if h := HTTPHandler(s); h == nil {
		t.Fatal("expected an HTTP transport")
	}
}
