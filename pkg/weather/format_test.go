// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestFormatPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		period ForecastPeriod
		want   string
	}{
		{
			name: "complete",
			period: ForecastPeriod{
				Name: "This Afternoon", Temperature: ptr(72.5), TemperatureUnit: "F",
				WindSpeed: "10 to 15 mph", WindDirection: "NW", ShortForecast: "Sunny",
			},
			want: "This Afternoon:\nTemperature: 72.5°F\nWind: 10 to 15 mph NW\nSunny\n---",
		},
		{
			name:   "below zero",
			period: ForecastPeriod{Name: "Tonight", Temperature: ptr(-12), TemperatureUnit: "C"},
			want:   "Tonight:\nTemperature: -12°C\nWind: Unknown \nNo forecast available\n---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatPeriod(tt.period))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "40", formatNumber(40))
	assert.Equal(t, "-97.0892", formatNumber(-97.0892))
	assert.Equal(t, "0.5", formatNumber(0.5))
}
