package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fullbor/finance-mcp/internal/common"
)

// setupRoutes configures all HTTP routes. mount adds the transport endpoints.
func (s *Server) setupRoutes(mount func(chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(newCORS().Handler)
	r.Use(securityHeadersMiddleware)

	r.Get(PathHealth, s.handleHealth)
	r.Get("/", s.handleInfo)
	mount(r)

	r.NotFound(s.handleNotFound)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": common.ServiceName,
		"mode":    s.mode,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{"health": PathHealth}
	if s.sse != nil {
		endpoints["sse"] = PathSSE
		endpoints["message"] = PathMessage
	} else {
		endpoints["mcp"] = PathMCP
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "Finance MCP Server",
		"version":   common.GetVersion(),
		"endpoints": endpoints,
	})
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
