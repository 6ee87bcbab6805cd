// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by Relic's services and handlers.

Services return an [*AppError]; [respond.Error] turns it into the JSON error
envelope. The status mapping used across the API:

	400 VALIDATION_ERROR     bad harvest or query input
	403 FORBIDDEN            ad hoc SQL disabled
	404 NOT_FOUND            unknown batch, artifact, query or archive key
	422 UNPROCESSABLE        statement rejected by the store, corrupt archive
	429 RATE_LIMITED         per-client bucket exhausted
	502 BAD_GATEWAY          collection provider failed before any record arrived
	503 SERVICE_UNAVAILABLE  artifact store or staging unreachable

Cause is logged server-side only and never serialized.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status, a machine-readable code and a client-safe message.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Cause: cause}
}

// # Client Errors (4xx)

// NotFound reports a missing resource: apperr.NotFound("Batch") -> "Batch not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, "FORBIDDEN", msg, nil)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appErr := newError(http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
	appErr.Details = details
	return appErr
}

// Unprocessable is a 422 for input that parsed but could not be applied.
func Unprocessable(msg string) *AppError {
	return newError(http.StatusUnprocessableEntity, "UNPROCESSABLE", msg, nil)
}

// RateLimited is a 429; the caller also sets the Retry-After header.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, "RATE_LIMITED",
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds), nil)
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", cause)
}

func ServiceUnavailable(msg string, cause error) *AppError {
	return newError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", msg, cause)
}

// BadGateway reports a collection provider failure. msg may carry the provider
// status; request URLs never reach it because the fetcher redacts the API key.
func BadGateway(msg string, cause error) *AppError {
	return newError(http.StatusBadGateway, "BAD_GATEWAY", msg, cause)
}

// # Helpers

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
