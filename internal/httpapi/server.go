// Package httpapi serves the valuation tools over plain HTTP: a JSON manifest and invoke
// endpoint, the streamable MCP transport, and health probes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	internalmcp "github.com/huangsam/repovalue/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Service identity for the health and root endpoints.
const (
	ServiceName        = "valuation-mcp-server"
	DisplayName        = "Valuation Analysis MCP Server"
	manifestSummary    = "Tools for analyzing and valuing GitHub repositories - Now with Unicorn Hunter 🦄 and Package Stats 📦"
	serviceDescription = "MCP Server for analyzing and valuing GitHub repositories - Now with Unicorn Hunter 🦄"
	maxBodyBytes       = 1 << 20
)

// healthFeatures are the headline tools advertised by the health probe.
var healthFeatures = []string{
	internalmcp.AnalyzeRepositoryTool,
	internalmcp.CalculateValuationTool,
	internalmcp.CompareWithMarketTool,
	internalmcp.UnicornHunterTool,
}

// Server represents the valuation HTTP server.
type Server struct {
	addr    string
	origins []string
	logger  *slog.Logger
	mux     *http.ServeMux
	tools   *internalmcp.Toolset
}

// New creates a Server for the toolset. A nil logger means slog.Default.
func New(cfg *contract.Config, tools *internalmcp.Toolset, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:    cfg.Addr,
		origins: cfg.AllowedOrigins,
		logger:  logger,
		mux:     http.NewServeMux(),
		tools:   tools,
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the HTTP route handlers.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /mcp/manifest", s.handleManifest)
	s.mux.HandleFunc("POST /mcp/invoke", s.handleInvoke)

	// Streamable MCP for clients that speak the protocol directly
	s.mux.Handle("/mcp", server.NewStreamableHTTPServer(internalmcp.NewMCPServer(s.tools)))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.corsMiddleware(s.mux))
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
	}()

	s.logger.Info("starting server", "addr", s.addr, "version", internalmcp.Version)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// loggingMiddleware logs every request once it completes.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// corsMiddleware answers preflight requests and tags responses for allowed origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(s.origins, origin)) {
			h := w.Header()
			if allowAll {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id, Mcp-Protocol-Version")
			h.Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ManifestTool is one tool entry of the manifest.
type ManifestTool struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	InputSchema mcp.ToolInputSchema `json:"inputSchema"`
}

// Manifest declares the server and its tools.
type Manifest struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Tools       []ManifestTool `json:"tools"`
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	manifest := Manifest{
		Name:        internalmcp.ServerName,
		Version:     internalmcp.Version,
		Description: manifestSummary,
	}
	for _, tool := range s.tools.Tools() {
		manifest.Tools = append(manifest.Tools, ManifestTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	s.writeJSON(w, http.StatusOK, manifest)
}

// invokeResponse mirrors an MCP tool result with isError always present.
type invokeResponse struct {
	Content []mcp.TextContent `json:"content"`
	IsError bool              `json:"isError"`
}

// errorDetail is the body of every 4xx response.
type errorDetail struct {
	Detail string `json:"detail"`
}

const expectedFormat = "Expected format: {'tool': 'tool_name', 'arguments': {...}}"

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorDetail{Detail: fmt.Sprintf("Invalid JSON body: %v", err)})
		return
	}

	var name string
	if raw, ok := body["tool"]; ok {
		if err := json.Unmarshal(raw, &name); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "'tool' must be a string. " + expectedFormat})
			return
		}
	}
	if strings.TrimSpace(name) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorDetail{Detail: missingToolDetail(body)})
		return
	}

	args := map[string]any{}
	if raw, ok := body["arguments"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &args); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "'arguments' must be an object. " + expectedFormat})
			return
		}
	}

	s.logger.Info("invoking tool", "tool", name)
	res, err := s.tools.Invoke(r.Context(), name, args)
	switch {
	case errors.Is(err, internalmcp.ErrToolNotFound):
		s.writeJSON(w, http.StatusNotFound, errorDetail{Detail: fmt.Sprintf("Tool '%s' not found", name)})
		return
	case err != nil:
		s.writeJSON(w, http.StatusBadRequest, errorDetail{Detail: err.Error()})
		return
	}

	resp := invokeResponse{IsError: res.IsError}
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			resp.Content = append(resp.Content, text)
		}
	}
	if resp.IsError {
		s.logger.Warn("tool reported an error", "tool", name)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// missingToolDetail explains the common ways a body names its tool wrongly.
func missingToolDetail(body map[string]json.RawMessage) string {
	if _, ok := body["tool_name"]; ok {
		return "Invalid request format. Use 'tool' instead of 'tool_name'. " + expectedFormat
	}
	_, toolInput := body["tool_input"]
	_, input := body["input"]
	if toolInput || input {
		return "Invalid request format. Use 'tool' and 'arguments' fields. " + expectedFormat
	}
	return "Missing 'tool' field. " + expectedFormat
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := struct {
		Status   string   `json:"status"`
		Service  string   `json:"service"`
		Version  string   `json:"version"`
		Features []string `json:"features"`
	}{
		Status:   "healthy",
		Service:  ServiceName,
		Version:  internalmcp.Version,
		Features: healthFeatures,
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	info := struct {
		Name        string            `json:"name"`
		Version     string            `json:"version"`
		Description string            `json:"description"`
		Endpoints   map[string]string `json:"endpoints"`
		Features    map[string]string `json:"features"`
	}{
		Name:        DisplayName,
		Version:     internalmcp.Version,
		Description: serviceDescription,
		Endpoints: map[string]string{
			"manifest": "/mcp/manifest",
			"invoke":   "/mcp/invoke",
			"mcp":      "/mcp",
			"health":   "/health",
		},
		Features: map[string]string{
			"unicorn_hunter": "Speculative valuation with $1B maximum cap",
		},
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
