// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the site navigation tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/enhance"
	"github.com/starford/raido/internal/sim"
)

// Server wraps the MCP server with navigation tools.
type Server struct {
	mcp *server.MCPServer
	enh *enhance.Enhancer
}

// New creates a new MCP server with all navigation tools registered.
func New(enh *enhance.Enhancer) *Server {
	s := &Server{enh: enh}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the site's HTML pages available for navigation enhancement."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("page_outline",
		mcp.WithDescription("Build the heading outline of a page as a nested HTML list with anchor links."),
		mcp.WithString("page", mcp.Required(), mcp.Description("Relative page path (e.g. topics/go.html)")),
	), s.pageOutline)

	s.mcp.AddTool(mcp.NewTool("graph_layout",
		mcp.WithDescription("Run the link-graph layout to convergence for a page and return the node positions as JSON."),
		mcp.WithString("page", mcp.Required(), mcp.Description("Relative page path whose node is pinned at the canvas center")),
	), s.graphLayout)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.enh.Pages()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no pages found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) pageOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := req.RequireString("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	frag, err := s.enh.Outline(page)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("outline for %s: %v", page, err)), nil
	}
	return mcp.NewToolResultText(string(frag)), nil
}

func (s *Server) graphLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := req.RequireString("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	np := enhance.NotePath(page)
	if !s.enh.Manifest().HasNode(np) {
		return mcp.NewToolResultError(fmt.Sprintf("page not in site graph: %s", page)), nil
	}

	state := s.enh.BuildState(np)
	ticks := sim.Run(state, 2000)

	out, _ := json.MarshalIndent(map[string]any{
		"page":      np,
		"ticks":     ticks,
		"positions": state.Positions(),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
