package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/common"
)

// Handler is the HTTP handler for the streamable MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler serves s over stateless streamable HTTP at endpointPath.
func NewHandler(s *mcpserver.MCPServer, endpointPath string, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
		mcpserver.WithEndpointPath(endpointPath),
	)
	return &Handler{streamable: streamable, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("mcp request")
	h.streamable.ServeHTTP(w, r)
}
