package http

import (
	"net/http"

	"github.com/keonwoo-dev/todo-mcp/internal/http/handler"
	"github.com/keonwoo-dev/todo-mcp/internal/service"
)

// NewRouter wires the REST endpoints and, when given, the MCP transport
// onto one mux. Both surfaces share the same TodoService instance.
func NewRouter(todoSvc *service.TodoService, mcpHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	todoHandler := handler.NewTodoHandler(todoSvc)
	mux.Handle("/api/v1/todos", todoHandler)
	mux.Handle("/api/v1/todos/", todoHandler)

	if mcpHandler != nil {
		mux.Handle("/mcp", mcpHandler)
	}

	return mux
}
