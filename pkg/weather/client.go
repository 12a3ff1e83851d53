// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package weather fetches alerts and forecasts from the National Weather
// Service API and renders them as text. Failures are rendered too: callers
// always get a message, never an error.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	weathererrors "github.com/stacklok/weather-mcp/pkg/errors"
	"github.com/stacklok/weather-mcp/pkg/logger"
	"github.com/stacklok/weather-mcp/pkg/networking"
)

const (
	// DefaultBaseURL is the NWS API root
	DefaultBaseURL = "https://api.weather.gov"

	// DefaultUserAgent identifies the client to the NWS API, which requires one
	DefaultUserAgent = "weather-app/1.0"

	// Messages returned in place of data.
	msgAlertsFailed      = "Failed to retrieve alerts data"
	msgNoAlerts          = "No active alerts for %s"
	msgPointsFailed      = "Failed to retrieve grid point data for coordinates: %s, %s. This location may not be supported by the NWS API (only US locations are supported)."
	msgNoForecastURL     = "Failed to get forecast URL from grid point data"
	msgForecastFailed    = "Failed to retrieve forecast data"
	msgNoForecastPeriods = "No forecast periods available"
)

// Client talks to the NWS API. Requests are unauthenticated.
type Client struct {
	client    networking.HTTPClient
	baseURL   string
	userAgent string
}

// NewClient returns a client for baseURL. Empty values select the defaults
// and a nil client selects a default HTTP client.
func NewClient(baseURL, userAgent string, client networking.HTTPClient) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if client == nil {
		client = networking.NewHttpClientBuilder().WithUserAgent(userAgent).Build()
	}
	return &Client{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
	}
}

// fetch returns invalid_argument when the NWS has nothing at requestURL and
// upstream_unavailable for every other failure.
func fetch[T any](ctx context.Context, c *Client, requestURL string) (*T, error) {
	result, err := networking.FetchJSON[T](ctx, c.client, requestURL,
		networking.WithHeader("User-Agent", c.userAgent),
		networking.WithHeader("Accept", networking.ContentTypeGeoJSON),
	)
	if err == nil {
		return &result.Data, nil
	}

	typed := classifyFetchError(requestURL, err)
	switch {
	case weathererrors.IsInvalidArgument(typed):
		logger.Infof("NWS has no data at %s", requestURL)
	case networking.IsTemporaryHTTPError(typed):
		logger.Warnf("NWS is temporarily unavailable: %v", typed)
	default:
		logger.Warnf("Error making NWS request: %v", typed)
	}
	return nil, typed
}

func classifyFetchError(requestURL string, err error) error {
	if networking.IsHTTPError(err, http.StatusNotFound) {
		return weathererrors.NewInvalidArgumentError("NWS has no data for "+requestURL, err)
	}
	return weathererrors.NewUpstreamUnavailableError("NWS request to "+requestURL+" failed", err)
}

// GetAlerts returns the active alerts for a two-letter state code.
func (c *Client) GetAlerts(ctx context.Context, state string) string {
	stateCode := strings.ToUpper(state)
	alertsURL := fmt.Sprintf("%s/alerts?area=%s", c.baseURL, url.QueryEscape(stateCode))

	data, err := fetch[alertsResponse](ctx, c, alertsURL)
	if err != nil {
		return msgAlertsFailed
	}
	if len(data.Features) == 0 {
		return fmt.Sprintf(msgNoAlerts, stateCode)
	}

	alerts := make([]Alert, 0, len(data.Features))
	for _, f := range data.Features {
		alerts = append(alerts, f.Properties)
	}
	return formatAlerts(stateCode, alerts)
}

// GetForecast resolves the grid point for a coordinate and returns its
// forecast periods.
func (c *Client) GetForecast(ctx context.Context, latitude, longitude float64) string {
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, latitude, longitude)

	points, err := fetch[pointsResponse](ctx, c, pointsURL)
	if err != nil {
		return fmt.Sprintf(msgPointsFailed, formatNumber(latitude), formatNumber(longitude))
	}

	forecastURL := points.Properties.Forecast
	if forecastURL == "" {
		return msgNoForecastURL
	}

	forecast, err := fetch[forecastResponse](ctx, c, forecastURL)
	if err != nil {
		return msgForecastFailed
	}

	periods := forecast.Properties.Periods
	if len(periods) == 0 {
		return msgNoForecastPeriods
	}
	return formatForecast(latitude, longitude, periods)
}
