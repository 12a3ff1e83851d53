// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/networking"
)

const (
	// DefaultGitHubAPIURL is the GitHub REST API base URL
	DefaultGitHubAPIURL = "https://api.github.com"

	// UserAgent is sent on every request to the GitHub API
	UserAgent = "weather-mcp/1.0"

	githubMediaType  = "application/vnd.github+json"
	githubAPIVersion = "2022-11-28"

	// 64KB is far more than a /user payload
	maxUserResponseSize = 64 * 1024

	genericVerifyFailure = "unable to verify token with GitHub"
)

// GitHubVerifier confirms a token by looking up the user it belongs to
// through GET /user. It makes a single attempt per call.
type GitHubVerifier struct {
	client  networking.HTTPClient
	baseURL string
}

// NewGitHubVerifier creates a verifier against apiURL. An empty apiURL
// selects api.github.com and a nil client selects a default HTTP client.
func NewGitHubVerifier(apiURL string, client networking.HTTPClient) *GitHubVerifier {
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	if client == nil {
		client = networking.NewHttpClientBuilder().WithUserAgent(UserAgent).Build()
	}
	return &GitHubVerifier{
		client:  client,
		baseURL: strings.TrimSuffix(apiURL, "/"),
	}
}

// githubUser is the subset of the /user response we read.
// Reference: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
type githubUser struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
}

// githubError is the error body GitHub returns for rejected requests.
type githubError struct {
	Message string `json:"message"`
}

// Verify returns the identity owning token. Every failure is an
// invalid_credential error whose message is GitHub's own when it sent one.
func (g *GitHubVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, weathererrors.NewInvalidCredentialError("token is empty", nil)
	}

	logger.Debugf("Verifying GitHub token %s against %s", logger.Redact(token), g.baseURL)

	result, err := networking.FetchJSON[githubUser](ctx, g.client, g.baseURL+"/user",
		networking.WithHeader("Authorization", "Bearer "+token),
		networking.WithHeader("Accept", githubMediaType),
		networking.WithHeader("User-Agent", UserAgent),
		networking.WithHeader("X-GitHub-Api-Version", githubAPIVersion),
		networking.WithMaxResponseSize(maxUserResponseSize),
		networking.WithErrorHandler(parseGitHubError),
	)
	if err != nil {
		var typed *weathererrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		var httpErr *networking.HTTPError
		if errors.As(err, &httpErr) {
			return nil, weathererrors.NewInvalidCredentialError(
				fmt.Sprintf("GitHub API returned status %d", httpErr.StatusCode), err)
		}
		return nil, weathererrors.NewInvalidCredentialError(genericVerifyFailure, err)
	}

	if result.Data.Login == "" {
		return nil, weathererrors.NewInvalidCredentialError(
			"GitHub returned a user without a login", nil)
	}

	logger.Debugf("GitHub token belongs to %s", result.Data.Login)
	return &Identity{
		Login: result.Data.Login,
		ID:    result.Data.ID,
		Name:  result.Data.Name,
	}, nil
}

// parseGitHubError turns a {"message": "..."} body into an invalid_credential
// error. Bodies without a message fall back to the default HTTPError.
func parseGitHubError(resp *http.Response, body []byte) error {
	var payload githubError
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return nil
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		logger.Warnf("GitHub refused the verification request (status %d, remaining %s)",
			resp.StatusCode, resp.Header.Get("X-RateLimit-Remaining"))
	}
	return weathererrors.NewInvalidCredentialError(payload.Message,
		fmt.Errorf("GitHub API returned status %d", resp.StatusCode))
}
