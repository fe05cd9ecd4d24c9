package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/config"
	"github.com/fullbor/finance-mcp/internal/mcp"
)

// Endpoint paths served in the HTTP transports.
const (
	PathSSE     = "/sse"
	PathMessage = "/message"
	PathMCP     = "/mcp"
	PathHealth  = "/health"
)

// Server manages the HTTP listener for the sse and http transports.
type Server struct {
	mode   string
	router chi.Router
	server *http.Server
	sse    *mcpserver.SSEServer
	logger *common.Logger
}

// New creates an HTTP server exposing mcpSrv in the configured transport mode.
func New(cfg config.ServerConfig, mcpSrv *mcpserver.MCPServer, logger *common.Logger) (*Server, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Server{
		mode:   cfg.Transport,
		logger: logger,
	}
	s.server = &http.Server{
		Addr:        cfg.Address(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	var mount func(chi.Router)
	switch cfg.Transport {
	case config.TransportSSE:
		s.sse = mcpserver.NewSSEServer(mcpSrv,
			mcpserver.WithSSEEndpoint(PathSSE),
			mcpserver.WithMessageEndpoint(PathMessage),
			mcpserver.WithUseFullURLForMessageEndpoint(false),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithHTTPServer(s.server),
		)
		mount = func(r chi.Router) {
			r.Handle(PathSSE, s.sse.SSEHandler())
			r.Handle(PathMessage, s.sse.MessageHandler())
		}
	case config.TransportHTTP:
		h := mcp.NewHandler(mcpSrv, PathMCP, logger)
		mount = func(r chi.Router) {
			r.Handle(PathMCP, h)
		}
	default:
		return nil, fmt.Errorf("transport %q is not served over HTTP", cfg.Transport)
	}

	s.router = s.setupRoutes(mount)
	s.server.Handler = s.router
	return s, nil
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("mode", s.mode).
		Str("url", fmt.Sprintf("http://%s", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, closing open SSE sessions first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	var err error
	if s.sse != nil {
		err = s.sse.Shutdown(ctx)
	} else {
		err = s.server.Shutdown(ctx)
	}
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
