// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package weather

import (
	"fmt"
	"strconv"
	"strings"
)

const separator = "---"

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// formatNumber renders v in its shortest exact decimal form: 40, 39.7456.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAlert renders one alert as a block of labelled lines.
func FormatAlert(a Alert) string {
	return strings.Join([]string{
		"Event: " + orDefault(a.Event, "Unknown"),
		"Area: " + orDefault(a.AreaDesc, "Unknown"),
		"Severity: " + orDefault(a.Severity, "Unknown"),
		"Status: " + orDefault(a.Status, "Unknown"),
		"Headline: " + orDefault(a.Headline, "No headline"),
		separator,
	}, "\n")
}

// FormatPeriod renders one forecast period. A missing temperature shows as
// Unknown; zero degrees is a real reading and is printed.
func FormatPeriod(p ForecastPeriod) string {
	temperature := "Unknown"
	if p.Temperature != nil {
		temperature = formatNumber(*p.Temperature)
	}
	return strings.Join([]string{
		orDefault(p.Name, "Unknown") + ":",
		fmt.Sprintf("Temperature: %s°%s", temperature, orDefault(p.TemperatureUnit, "F")),
		fmt.Sprintf("Wind: %s %s", orDefault(p.WindSpeed, "Unknown"), p.WindDirection),
		orDefault(p.ShortForecast, "No forecast available"),
		separator,
	}, "\n")
}

func formatAlerts(state string, alerts []Alert) string {
	blocks := make([]string, 0, len(alerts))
	for _, a := range alerts {
		blocks = append(blocks, FormatAlert(a))
	}
	return fmt.Sprintf("Active alerts for %s:\n\n%s", state, strings.Join(blocks, "\n"))
}

func formatForecast(lat, lon float64, periods []ForecastPeriod) string {
	blocks := make([]string, 0, len(periods))
	for _, p := range periods {
		blocks = append(blocks, FormatPeriod(p))
	}
	return fmt.Sprintf("Forecast for %s, %s:\n\n%s",
		formatNumber(lat), formatNumber(lon), strings.Join(blocks, "\n"))
}
