// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/logger"
)

const (
	msgAuthenticated        = "Successfully authenticated as %s. You can now use weather tools."
	msgAuthenticationFailed = "Authentication failed: %s. Please provide a valid GitHub personal access token."
	msgAuthRequired         = "Authentication required. Please use the 'authenticate' tool with your GitHub personal access token first."
)

// Handler implements the weather MCP tools.
type Handler struct {
	session Session
	weather Forecaster
}

// NewHandler creates a handler over the given session and weather client.
func NewHandler(session Session, weather Forecaster) *Handler {
	return &Handler{session: session, weather: weather}
}

// Authenticate verifies a GitHub personal access token and opens the session.
func (h *Handler) Authenticate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token := request.GetString("token", "")

	identity, err := h.session.Authenticate(ctx, token)
	if err != nil {
		logger.Infof("authenticate tool rejected a token: %v", err)
		return mcp.NewToolResultText(fmt.Sprintf(msgAuthenticationFailed, weathererrors.MessageOf(err))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(msgAuthenticated, identity.Login)), nil
}

// GetAlerts returns the active weather alerts for a US state.
func (h *Handler) GetAlerts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.session.EnsureAuthenticated(ctx) {
		return mcp.NewToolResultText(msgAuthRequired), nil
	}
	state := request.GetString("state", "")
	return mcp.NewToolResultText(h.weather.GetAlerts(ctx, state)), nil
}

// GetForecast returns the forecast for a coordinate in the US.
func (h *Handler) GetForecast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.session.EnsureAuthenticated(ctx) {
		return mcp.NewToolResultText(msgAuthRequired), nil
	}
	latitude := request.GetFloat("latitude", 0)
	longitude := request.GetFloat("longitude", 0)
	return mcp.NewToolResultText(h.weather.GetForecast(ctx, latitude, longitude)), nil
}
