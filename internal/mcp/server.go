// ABOUTME: MCP server implementation for codepac
// ABOUTME: Provides tools and resources for AI assistants to use the local store
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seanblair/codepac/internal/config"
)

// Server wraps the MCP server with codepac-specific functionality.
type Server struct {
	mcpServer *mcp.Server
	cfg       *config.Config
}

// NewServer creates a new codepac MCP server.
func NewServer(cfg *config.Config) *Server {
	impl := &mcp.Implementation{
		Name:    "codepac",
		Version: "1.0.0",
	}

	server := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		cfg:       cfg,
	}

	// Register components
	server.registerTools()
	server.registerResources()

	return server
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}
