// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/stacklok/weather-mcp/pkg/logger"
)

// withArgumentValidation checks call arguments against the tool's input
// schema. Calls that fail validation get an error result and never reach next.
func withArgumentValidation(tool mcp.Tool, next server.ToolHandlerFunc) (server.ToolHandlerFunc, error) {
	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return nil, err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := schema.Validate(gojsonschema.NewGoLoader(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments for %s: %v", tool.Name, err)), nil
		}
		if !result.Valid() {
			violations := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				violations = append(violations, e.String())
			}
			logger.Debugf("rejected %s call: %s", tool.Name, strings.Join(violations, "; "))
			return mcp.NewToolResultError(
				fmt.Sprintf("Invalid arguments for %s: %s", tool.Name, strings.Join(violations, "; ")),
			), nil
		}
		return next(ctx, request)
	}, nil
}
