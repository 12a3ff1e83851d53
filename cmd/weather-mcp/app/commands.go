// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the command-line interface of the weather MCP server.
package app

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// serves MCP on stdin and stdout.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:               "weather-mcp",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Short:             "MCP server providing US weather alerts and forecasts to authenticated GitHub users",
		Long: `weather-mcp is a Model Context Protocol server that speaks JSON-RPC on stdin and stdout.

It exposes get_alerts and get_forecast, backed by the National Weather Service API,
behind a session that must first be authenticated with GitHub. Authenticate with the
authenticate tool and a personal access token, or configure an OAuth App through
GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET to sign in with the browser.

Logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveCmdFunc(cmd, configPath)
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (default $XDG_CONFIG_HOME/weather-mcp/config.yaml)")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
