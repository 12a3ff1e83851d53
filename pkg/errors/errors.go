// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors defines the typed errors shared by the weather MCP server.
package errors

import (
	"errors"
	"fmt"
)

// Error types
const (
	// ErrInvalidArgument is returned when the weather provider has no data for the requested input
	ErrInvalidArgument = "invalid_argument"

	// ErrInvalidCredential is returned when the identity provider rejects a token
	ErrInvalidCredential = "invalid_credential"

	// ErrConfigurationMissing is returned when the OAuth application credentials are not configured
	ErrConfigurationMissing = "configuration_missing"

	// ErrAcquisitionFailed is returned when the interactive credential flow is aborted
	ErrAcquisitionFailed = "acquisition_failed"

	// ErrTimeout is returned when the interactive credential flow exceeds its deadline
	ErrTimeout = "timeout"

	// ErrUpstreamUnavailable is returned when the weather provider cannot be reached or parsed
	ErrUpstreamUnavailable = "upstream_unavailable"
)

// Error represents an error in the application
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string, cause error) *Error {
	return newError(ErrInvalidArgument, message, cause)
}

// NewInvalidCredentialError creates a new invalid credential error
func NewInvalidCredentialError(message string, cause error) *Error {
	return newError(ErrInvalidCredential, message, cause)
}

// NewConfigurationMissingError creates a new configuration missing error
func NewConfigurationMissingError(message string, cause error) *Error {
	return newError(ErrConfigurationMissing, message, cause)
}

// NewAcquisitionFailedError creates a new acquisition failed error
func NewAcquisitionFailedError(message string, cause error) *Error {
	return newError(ErrAcquisitionFailed, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *Error {
	return newError(ErrTimeout, message, cause)
}

// NewUpstreamUnavailableError creates a new upstream unavailable error
func NewUpstreamUnavailableError(message string, cause error) *Error {
	return newError(ErrUpstreamUnavailable, message, cause)
}

// TypeOf returns the type of the first *Error in err's chain, or "" if there is none.
func TypeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// MessageOf returns the message of the first *Error in err's chain.
// Errors of any other kind are returned verbatim.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return TypeOf(err) == ErrInvalidArgument
}

// IsInvalidCredential checks if the error is an invalid credential error
func IsInvalidCredential(err error) bool {
	return TypeOf(err) == ErrInvalidCredential
}

// IsConfigurationMissing checks if the error is a configuration missing error
func IsConfigurationMissing(err error) bool {
	return TypeOf(err) == ErrConfigurationMissing
}

// IsAcquisitionFailed checks if the error is an acquisition failed error
func IsAcquisitionFailed(err error) bool {
	return TypeOf(err) == ErrAcquisitionFailed
}

// IsTimeout checks if the error is a timeout error
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrTimeout
}

// IsUpstreamUnavailable checks if the error is an upstream unavailable error
func IsUpstreamUnavailable(err error) bool {
	return TypeOf(err) == ErrUpstreamUnavailable
}
