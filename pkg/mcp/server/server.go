// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package server provides the weather MCP server served over stdio.
package server

import (
	"context"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/server"

	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/versions"
)

// ServerName is the name advertised during MCP initialization.
const ServerName = "weather"

// Server is the weather MCP server.
type Server struct {
	mcpServer *server.MCPServer
	handler   *Handler
}

// New creates a server exposing the authenticate, get_alerts and
// get_forecast tools.
func New(session Session, weather Forecaster) (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		versions.ServerVersion(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	handler := NewHandler(session, weather)
	serverTools, err := tools(handler)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	mcpServer.AddTools(serverTools...)

	return &Server{
		mcpServer: mcpServer,
		handler:   handler,
	}, nil
}

// Serve speaks MCP over in and out until ctx is cancelled or in is closed.
// Diagnostics go to the logger, never to out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(logger.NewStdLog())

	logger.Infof("Starting weather MCP server %s on stdio", versions.ServerVersion())
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	logger.Info("Weather MCP server stopped")
	return nil
}
