// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names
const (
	ToolAuthenticate = "authenticate"
	ToolGetAlerts    = "get_alerts"
	ToolGetForecast  = "get_forecast"
)

func authenticateTool() mcp.Tool {
	return mcp.NewTool(ToolAuthenticate,
		mcp.WithDescription("Authenticate with a GitHub personal access token to unlock the weather tools"),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("GitHub personal access token"),
		),
	)
}

func getAlertsTool() mcp.Tool {
	return mcp.NewTool(ToolGetAlerts,
		mcp.WithDescription("Get weather alerts for a state"),
		mcp.WithString("state",
			mcp.Required(),
			mcp.Description("Two-letter state code (e.g. CA, NY)"),
			mcp.MinLength(2),
			mcp.MaxLength(2),
		),
	)
}

func getForecastTool() mcp.Tool {
	return mcp.NewTool(ToolGetForecast,
		mcp.WithDescription("Get weather forecast for a location"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude of the location"),
			mcp.Min(-90),
			mcp.Max(90),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude of the location"),
			mcp.Min(-180),
			mcp.Max(180),
		),
	)
}

// tools returns every tool with its handler wrapped in argument validation.
func tools(h *Handler) ([]server.ServerTool, error) {
	defs := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{authenticateTool(), h.Authenticate},
		{getAlertsTool(), h.GetAlerts},
		{getForecastTool(), h.GetForecast},
	}

	result := make([]server.ServerTool, 0, len(defs))
	for _, d := range defs {
		validated, err := withArgumentValidation(d.tool, d.handler)
		if err != nil {
			return nil, fmt.Errorf("failed to compile input schema for %s: %w", d.tool.Name, err)
		}
		result = append(result, server.ServerTool{Tool: d.tool, Handler: validated})
	}
	return result, nil
}
