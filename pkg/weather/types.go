// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package weather

// Alert is the subset of an NWS alert feature's properties that is shown.
type Alert struct {
	Event    string `json:"event"`
	AreaDesc string `json:"areaDesc"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Headline string `json:"headline"`
}

// ForecastPeriod is one entry of an NWS forecast.
type ForecastPeriod struct {
	Name            string   `json:"name"`
	Temperature     *float64 `json:"temperature"`
	TemperatureUnit string   `json:"temperatureUnit"`
	WindSpeed       string   `json:"windSpeed"`
	WindDirection   string   `json:"windDirection"`
	ShortForecast   string   `json:"shortForecast"`
}

type alertsResponse struct {
	Features []struct {
		Properties Alert `json:"properties"`
	} `json:"features"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []ForecastPeriod `json:"periods"`
	} `json:"properties"`
}
