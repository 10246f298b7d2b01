// Package mcp exposes the todo service as Model Context Protocol tools.
package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/keonwoo-dev/todo-mcp/internal/service"
)

// Version is set at build time via ldflags.
var Version = "dev"

const instructions = `Manage a personal todo list. Use list_todos to see the
current list, add_todo to create entries, complete_todo to check one off (by
id, 1-based position, or a fragment of its title), delete_todo to remove one,
and clear_completed to remove everything already done.`

// NewServer builds the MCP server with all todo tools registered against
// the given service.
func NewServer(svc *service.TodoService) *server.MCPServer {
	s := server.NewMCPServer(
		"todo-mcp",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	registerTools(s, svc)
	return s
}

// HTTPHandler wraps the MCP server in its streamable HTTP transport, for
// mounting on the shared router.
func HTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}
