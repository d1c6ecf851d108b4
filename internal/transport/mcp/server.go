package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	availsvc "github.com/alanyang/shift-router/internal/service/availability"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// [SRP] HTTP lifecycle only. Tools are registered in tools.go.
type Server struct {
	mcpSrv  *mcpserver.MCPServer
	httpSrv *mcpserver.StreamableHTTPServer
}

// New creates the MCP transport server exposing the run controller to assistants.
func New(controlSvc *controllersvc.Service, availSvc *availsvc.Service) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		"shift-router",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	RegisterTools(mcpSrv, controlSvc, availSvc)

	return &Server{
		mcpSrv:  mcpSrv,
		httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv),
	}
}

// Handler returns an http.Handler that serves the streamable MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}
