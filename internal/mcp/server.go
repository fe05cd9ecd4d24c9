package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/common"
)

// Options configures NewServer.
type Options struct {
	Name       string
	Version    string
	APIBaseURL string
	Logger     *common.Logger
}

// NewServer builds the MCP server with every registry tool, get_version and
// the fixed prompts.
func NewServer(r *Registry, opts Options) *server.MCPServer {
	if opts.Name == "" {
		opts.Name = common.ServiceName
	}
	if opts.Version == "" {
		opts.Version = common.GetVersion()
	}
	logger := opts.Logger
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	s := server.NewMCPServer(opts.Name, opts.Version,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	toolCount := RegisterTools(s, r)
	s.AddTool(VersionTool(), VersionToolHandler(opts.APIBaseURL))
	promptCount := RegisterPrompts(s)

	logger.Info().
		Int("tools", toolCount).
		Int("prompts", promptCount).
		Str("api_url", opts.APIBaseURL).
		Msg("MCP server initialized")
	return s
}
