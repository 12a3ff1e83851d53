// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/weather-mcp/pkg/auth"
	"github.com/stacklok/weather-mcp/pkg/auth/oauth"
	"github.com/stacklok/weather-mcp/pkg/auth/session"
	"github.com/stacklok/weather-mcp/pkg/config"
	"github.com/stacklok/weather-mcp/pkg/logger"
	mcpserver "github.com/stacklok/weather-mcp/pkg/mcp/server"
	"github.com/stacklok/weather-mcp/pkg/networking"
	"github.com/stacklok/weather-mcp/pkg/secrets"
	"github.com/stacklok/weather-mcp/pkg/weather"
)

func serveCmdFunc(cmd *cobra.Command, configPath string) error {
	v := config.NewViper()
	if err := v.BindPFlag("debug", cmd.Flags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	cfg, err := config.LoadWithViper(v, configPath)
	if err != nil {
		return err
	}

	// Re-initialize so the debug setting from the file or env takes effect.
	viper.Set("debug", cfg.Debug)
	logger.Initialize()

	srv, err := buildServer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return srv.Serve(ctx, os.Stdin, os.Stdout)
}

// buildServer wires the credential store, verifier, acquirer and session
// gate into the MCP server.
func buildServer(cfg *config.Config) (*mcpserver.Server, error) {
	strategyType := session.StrategyType(cfg.Auth.Strategy)

	backend := secrets.BackendType(cfg.Store.Backend)
	if strategyType == session.PromptOnlyStrategy {
		// Nothing is restored in prompt-only mode, so nothing is persisted either.
		backend = secrets.MemoryBackend
	}
	store, err := secrets.NewStore(backend, cfg.Store.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}
	logger.Debugf("Using %s credential store", store.Backend())

	githubClient := networking.NewHttpClientBuilder().WithUserAgent(auth.UserAgent).Build()
	verifier := auth.NewGitHubVerifier(cfg.GitHub.APIURL, githubClient)
	acquirer := oauth.NewAcquirer(cfg.OAuth(), githubClient)

	strategy, err := session.NewStrategy(strategyType, verifier, store, acquirer)
	if err != nil {
		return nil, err
	}
	gate := session.NewGate(verifier, store, strategy)

	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.UserAgent, nil)

	return mcpserver.New(gate, weatherClient)
}
