// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server identity reported by the manifest and the MCP handshake.
const (
	ServerName = "valuation-analysis-mcp-server"
	Version    = "1.3.0"
)

// ErrToolNotFound is returned by Invoke for an undeclared tool name.
var ErrToolNotFound = errors.New("tool not found")

// Toolset is the set of valuation tools shared by the MCP server and the JSON invoke endpoint.
type Toolset struct {
	tools []server.ServerTool
}

// NewToolset declares every tool against the service. baseCfg supplies defaults for
// optional arguments; nil means the flag defaults.
func NewToolset(svc *core.Service, baseCfg *contract.Config) *Toolset {
	if baseCfg == nil {
		baseCfg = contract.NewDefaultConfig()
	}
	h := &toolHandler{svc: svc, baseCfg: baseCfg}
	return &Toolset{tools: declareTools(h)}
}

// Tools returns the tool declarations in manifest order.
func (t *Toolset) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(t.tools))
	for _, st := range t.tools {
		out = append(out, st.Tool)
	}
	return out
}

// Invoke runs one tool with JSON arguments. It returns ErrToolNotFound for unknown names
// and the handler's error when the arguments are unusable.
func (t *Toolset) Invoke(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	for _, st := range t.tools {
		if st.Tool.Name != name {
			continue
		}
		if args == nil {
			args = map[string]any{}
		}
		return st.Handler(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		})
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// NewMCPServer initializes and configures the valuation MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(tools *Toolset) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	for _, st := range tools.tools {
		s.AddTool(st.Tool, toolErrors(st.Handler))
	}
	return s
}

// StartMCPServer serves the tools over stdio.
func StartMCPServer(_ context.Context, tools *Toolset) error {
	return server.ServeStdio(NewMCPServer(tools))
}

// toolErrors turns argument errors into tool-error results so that MCP clients never
// see a raw handler error.
func toolErrors(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := h(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return res, nil
	}
}
