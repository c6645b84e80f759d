// Package mcp exposes the search engine to tool-calling agents over
// the Model Context Protocol on stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/cosmofeed/cosmofeed/internal/searcher"
	"github.com/cosmofeed/cosmofeed/internal/storage"
)

const (
	// ServerName is the MCP server name.
	ServerName = "cosmofeed-mcp"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// StatsProvider reports store contents for the status tool.
type StatsProvider interface {
	Stats(ctx context.Context) (storage.Stats, error)
}

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	searcher *searcher.Searcher
	stats    StatsProvider
}

// NewServer creates an MCP server around an already-constructed
// searcher and store.
func NewServer(srch *searcher.Searcher, stats StatsProvider) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		searcher: srch,
		stats:    stats,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchContentTool(), s.handleSearchContent)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
