package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/apperrors"
)

// successResult renders a tool payload as indented JSON text.
func successResult(value any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}, nil
}

// failureResult renders a failure envelope as compact JSON with IsError set.
func failureResult(f apperrors.Failure) *mcp.CallToolResult {
	out, _ := json.Marshal(f)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
		IsError: true,
	}
}

// toolHandler routes an MCP tool call through the registry.
func toolHandler(r *Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return r.Dispatch(ctx, req.Params.Name, req.Params.Arguments), nil
	}
}
