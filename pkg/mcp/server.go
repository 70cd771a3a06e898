package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/lampbridge/pkg/lamp"
)

// Lamps is the timer engine surface exposed as tools.
type Lamps interface {
	List(ctx context.Context) ([]lamp.Timer, error)
	Get(ctx context.Context, number int) (lamp.Timer, error)
	StartOrExtend(ctx context.Context, number, addMinutes int) (lamp.Timer, bool, error)
	Stop(ctx context.Context, number int) (lamp.ID, error)
	Reset(ctx context.Context) (int, error)
	Switch(ctx context.Context, number int, on bool) error
}

// Server wraps the MCP server with the lamp timer tools
type Server struct {
	mcpServer *server.MCPServer
	lamps     Lamps
	publisher lamp.Publisher
}

// NewServer creates a new MCP server for lamp control
func NewServer(lamps Lamps, publisher lamp.Publisher) *Server {
	s := &Server{
		lamps:     lamps,
		publisher: publisher,
	}

	s.mcpServer = server.NewMCPServer(
		"lampbridge",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
