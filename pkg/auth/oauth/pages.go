// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oauth

import (
	"fmt"
	"html"
	"net/http"

	"github.com/stacklok/weather-mcp/pkg/logger"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; text-align: center; }
        .container { max-width: 600px; margin: 0 auto; }
        .message { padding: 20px; border-radius: 5px; margin: 20px 0; }
        .info { background-color: #e7f3ff; border: 1px solid #b3d9ff; color: #0066cc; }
        .success { background-color: #e7f6e7; border: 1px solid #b3e6b3; color: #006600; }
        .error { background-color: #ffe7e7; border: 1px solid #ffb3b3; color: #cc0000; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <div class="message %[2]s">
            <p>%[3]s</p>
        </div>
    </div>
</body>
</html>`

// setSecurityHeaders sets common security headers for all responses
func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline';")
}

func writePage(w http.ResponseWriter, status int, title, class, message string) {
	setSecurityHeaders(w)
	w.WriteHeader(status)
	body := fmt.Sprintf(pageTemplate, html.EscapeString(title), class, html.EscapeString(message))
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Warnf("Failed to write HTML content: %v", err)
	}
}

func writeSuccessPage(w http.ResponseWriter) {
	writePage(w, http.StatusOK, "Authentication Successful", "success",
		"You have signed in with GitHub. You can close this window and return to your MCP client.")
}

func writeErrorPage(w http.ResponseWriter, status int, message string) {
	writePage(w, status, "Authentication Failed", "error",
		message+" Please try again.")
}
