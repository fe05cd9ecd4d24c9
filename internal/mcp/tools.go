package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds every registry tool to s and returns how many were added.
func RegisterTools(s *server.MCPServer, r *Registry) int {
	handler := toolHandler(r)
	for _, tool := range r.Tools() {
		s.AddTool(tool, handler)
	}
	return r.Len()
}
