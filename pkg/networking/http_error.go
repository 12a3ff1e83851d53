// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package networking

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// HTTPError is a non-200 response. Body holds at most DefaultErrorPreviewSize
// bytes and never appears in Error().
type HTTPError struct {
	StatusCode int
	Body       string
	URL        string
}

// newHTTPError builds an HTTPError from a response body, cutting the preview
// on a rune boundary.
func newHTTPError(statusCode int, requestURL string, body []byte) *HTTPError {
	preview := body
	if len(preview) > DefaultErrorPreviewSize {
		preview = preview[:DefaultErrorPreviewSize]
		for len(preview) > 0 && !utf8.Valid(preview) {
			preview = preview[:len(preview)-1]
		}
	}
	return &HTTPError{
		StatusCode: statusCode,
		Body:       string(preview),
		URL:        requestURL,
	}
}

func (e *HTTPError) Error() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("request to %s returned %d %s", e.URL, e.StatusCode, text)
	}
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}

// Temporary reports whether the server signalled a transient condition
// (rate limiting or a 5xx) that a later request may not hit.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsHTTPError checks if an error is an HTTPError with the specified status code.
// If statusCode is 0, it matches any HTTPError.
func IsHTTPError(err error, statusCode int) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return statusCode == 0 || httpErr.StatusCode == statusCode
}

// IsTemporaryHTTPError reports whether err carries an HTTPError whose status
// is worth retrying later.
func IsTemporaryHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Temporary()
}
