package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/common"
)

// versionInfo describes the running server.
type versionInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
	API     string `json:"api_base_url,omitempty"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get finance MCP server version and the API it talks to. Use this to verify connectivity."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

// VersionToolHandler reports build information and the configured API base URL.
func VersionToolHandler(apiBaseURL string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := successResult(versionInfo{
			Service: common.ServiceName,
			Version: common.GetVersion(),
			Build:   common.GetBuild(),
			Commit:  common.GetGitCommit(),
			API:     apiBaseURL,
		})
		if err != nil {
			return mcp.NewToolResultError("failed to marshal version info"), nil
		}
		return res, nil
	}
}
