// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the weather MCP server.
package main

import (
	"github.com/stacklok/weather-mcp/cmd/weather-mcp/app"
	"github.com/stacklok/weather-mcp/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		logger.Fatalf("weather-mcp: %v", err)
	}
	logger.Sync()
}
