// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/networking"
)

// Flow runs one authorization code exchange. A Flow is single use.
type Flow struct {
	config Config
	client networking.HTTPClient
	state  string

	// openURL is replaced in tests to drive the callback directly
	openURL func(string) error

	handled atomic.Bool
}

// callbackResult carries the outcome of the single callback request.
type callbackResult struct {
	token *oauth2.Token
	err   error
}

// tokenRequest is the JSON body of the code exchange.
type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

// tokenResponse covers both outcomes: GitHub reports exchange errors with
// status 200 and an error field.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// NewFlow creates a new OAuth flow
func NewFlow(config *Config, client networking.HTTPClient) (*Flow, error) {
	if config == nil {
		return nil, errors.New("OAuth config cannot be nil")
	}
	if !config.HasClientCredentials() {
		return nil, weathererrors.NewConfigurationMissingError(
			"GitHub OAuth client ID and client secret must both be configured", nil)
	}
	if client == nil {
		client = networking.NewHttpClientBuilder().Build()
	}

	flow := &Flow{
		config:  config.withDefaults(),
		client:  client,
		openURL: browser.OpenURL,
	}
	if err := flow.generateState(); err != nil {
		return nil, fmt.Errorf("failed to generate state parameter: %w", err)
	}
	return flow, nil
}

// generateState generates a random state parameter
func (f *Flow) generateState() error {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return fmt.Errorf("failed to generate state: %w", err)
	}
	f.state = base64.RawURLEncoding.EncodeToString(stateBytes)
	return nil
}

// Start binds the callback listener, sends the user to GitHub and waits for
// the callback. It returns once a token was exchanged, the callback failed,
// ctx ended, or the configured timeout elapsed. The listener is always
// released before Start returns.
func (f *Flow) Start(ctx context.Context) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.config.CallbackPort))
	if err != nil {
		return nil, weathererrors.NewAcquisitionFailedError(
			fmt.Sprintf("cannot listen for the OAuth callback on port %d", f.config.CallbackPort),
			fmt.Errorf("%w: %w", ErrCallbackPortInUse, err))
	}
	port := listener.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	oauth2Config := &oauth2.Config{
		ClientID:     f.config.ClientID,
		ClientSecret: f.config.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
		Scopes:       f.config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.config.AuthURL,
			TokenURL: f.config.TokenURL,
		},
	}

	resultChan := make(chan callbackResult, 1)
	serveErr := make(chan error, 1)

	router := chi.NewRouter()
	router.Get("/callback", f.handleCallback(ctx, resultChan))
	router.Get("/", f.handleRoot())

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting OAuth callback server on port %d", port)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	defer f.shutdown(server)

	authURL := oauth2Config.AuthCodeURL(f.state)
	if f.config.OpenBrowser {
		logger.Infof("Opening browser to: %s", authURL)
		if err := f.openURL(authURL); err != nil {
			logger.Warnf("Failed to open browser: %v", err)
			logger.Infof("Please manually open this URL in your browser: %s", authURL)
		}
	} else {
		logger.Infof("Please open this URL in your browser: %s", authURL)
	}

	logger.Info("Waiting for OAuth callback...")

	select {
	case result := <-resultChan:
		if result.err != nil {
			return nil, result.err
		}
		logger.Info("OAuth flow completed successfully")
		return result.token, nil
	case err := <-serveErr:
		return nil, weathererrors.NewAcquisitionFailedError("OAuth callback server failed", err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, weathererrors.NewTimeoutError(
				fmt.Sprintf("no OAuth callback received within %s", f.config.Timeout), ctx.Err())
		}
		return nil, weathererrors.NewAcquisitionFailedError("OAuth flow cancelled", ctx.Err())
	}
}

// shutdown closes the callback server, waiting the configured delay first
// when a callback was answered so its page can flush.
func (f *Flow) shutdown(server *http.Server) {
	if f.handled.Load() {
		time.Sleep(f.config.ShutdownDelay)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("Failed to shutdown OAuth callback server: %v", err)
	}
}

// handleCallback handles the OAuth callback
func (f *Flow) handleCallback(ctx context.Context, resultChan chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !f.handled.CompareAndSwap(false, true) {
			writeErrorPage(w, http.StatusConflict, "This sign-in request has already been handled.")
			return
		}

		fail := func(message string, cause error) {
			writeErrorPage(w, http.StatusBadRequest, message)
			resultChan <- callbackResult{err: weathererrors.NewAcquisitionFailedError(message, cause)}
		}

		query := r.URL.Query()

		if errParam := query.Get("error"); errParam != "" {
			fail(fmt.Sprintf("GitHub returned an error: %s", describe(errParam, query.Get("error_description"))), nil)
			return
		}

		if query.Get("state") != f.state {
			fail("invalid state parameter", nil)
			return
		}

		code := query.Get("code")
		if code == "" {
			fail("missing authorization code", nil)
			return
		}

		token, err := f.exchange(ctx, code)
		if err != nil {
			fail("failed to exchange authorization code for a token", err)
			return
		}

		writeSuccessPage(w)
		resultChan <- callbackResult{token: token}
	}
}

// exchange trades the authorization code for an access token
func (f *Flow) exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	result, err := networking.PostJSON[tokenResponse](ctx, f.client, f.config.TokenURL,
		tokenRequest{
			ClientID:     f.config.ClientID,
			ClientSecret: f.config.ClientSecret,
			Code:         code,
		},
		networking.WithErrorHandler(parseTokenError),
	)
	if err != nil {
		return nil, err
	}

	resp := result.Data
	if resp.Error != "" {
		return nil, errors.New(describe(resp.Error, resp.ErrorDescription))
	}
	if resp.AccessToken == "" {
		return nil, errors.New("token endpoint returned no access token")
	}

	tokenType := resp.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	return &oauth2.Token{AccessToken: resp.AccessToken, TokenType: tokenType}, nil
}

func parseTokenError(resp *http.Response, body []byte) error {
	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return nil
	}
	return fmt.Errorf("token endpoint returned status %d: %s",
		resp.StatusCode, describe(payload.Error, payload.ErrorDescription))
}

func describe(code, description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return code
	}
	return fmt.Sprintf("%s - %s", code, description)
}

// handleRoot answers requests to the root path of the callback server
func (*Flow) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writePage(w, http.StatusOK, "Weather MCP Sign-in", "info",
			"The sign-in callback server is running. Please complete the authentication flow in your browser.")
	}
}
