// Package mcpserver exposes library documentation generation as an MCP tool
// served over stdio.
package mcpserver

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/contaixt/laibrary/internal/lang"
)

// ServerName is the MCP server name.
const ServerName = "laibrary"

// Server wraps the MCP server with the analysers it documents libraries with.
type Server struct {
	mcp      *server.MCPServer
	registry *lang.Registry
	logger   *log.Logger
}

// NewServer creates an MCP server with the library_api tool registered.
func NewServer(registry *lang.Registry, version string, logger *log.Logger) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
		registry: registry,
		logger:   logger,
	}
	s.mcp.AddTool(libraryAPITool(registry.Names()), s.handleLibraryAPI)
	return s
}

// Serve speaks MCP over in and out until in is closed or ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving MCP on stdio", "languages", s.registry.Names())
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
