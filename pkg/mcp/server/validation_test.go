// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithArgumentValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tool      mcp.Tool
		args      map[string]any
		wantValid bool
	}{
		{"forecast in range", getForecastTool(), map[string]any{"latitude": 39.7456, "longitude": -97.0892}, true},
		{"forecast at bounds", getForecastTool(), map[string]any{"latitude": -90.0, "longitude": 180.0}, true},
		{"latitude too large", getForecastTool(), map[string]any{"latitude": 91.0, "longitude": 0.0}, false},
		{"longitude too small", getForecastTool(), map[string]any{"latitude": 0.0, "longitude": -180.5}, false},
		{"latitude not a number", getForecastTool(), map[string]any{"latitude": "40", "longitude": 0.0}, false},
		{"longitude missing", getForecastTool(), map[string]any{"latitude": 40.0}, false},
		{"state ok", getAlertsTool(), map[string]any{"state": "ca"}, true},
		{"state too long", getAlertsTool(), map[string]any{"state": "CAL"}, false},
		{"state too short", getAlertsTool(), map[string]any{"state": "C"}, false},
		{"state missing", getAlertsTool(), nil, false},
		{"token ok", authenticateTool(), map[string]any{"token": "ghp_x"}, true},
		{"token wrong type", authenticateTool(), map[string]any{"token": 12}, false},
		{"token missing", authenticateTool(), map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			next := func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				called = true
				return mcp.NewToolResultText("ok"), nil
			}

			handler, err := withArgumentValidation(tt.tool, next)
			require.NoError(t, err)

			result, err := handler(context.Background(), callRequest(tt.args))
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, called)
			assert.Equal(t, !tt.wantValid, result.IsError)
			if !tt.wantValid {
				assert.Contains(t, resultText(t, result), "Invalid arguments for "+tt.tool.Name)
			}
		})
	}
}
