// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/platform/apperr"
)

/*
TestAppError_StatusMapping checks the HTTP status carried by every constructor.
*/
func TestAppError_StatusMapping(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Artifact"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", apperr.Forbidden("disabled"), http.StatusForbidden, "FORBIDDEN"},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unprocessable", apperr.Unprocessable("bad sql"), http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"internal", apperr.Internal(cause), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unavailable", apperr.ServiceUnavailable("store down", cause), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"bad_gateway", apperr.BadGateway("provider down", cause), http.StatusBadGateway, "BAD_GATEWAY"},
		{"rate_limited", apperr.RateLimited(3), http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAppError_Unwrap verifies the cause chain survives wrapping.
*/
func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("persist: %w", apperr.ServiceUnavailable("Store unavailable", cause))

	assert.True(t, errors.Is(wrapped, cause))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Store unavailable", ae.Error())

	assert.Nil(t, apperr.As(cause))
}

func TestRateLimited_MentionsDelay(t *testing.T) {
	assert.Equal(t, "Too many requests. Try again in 3s.", apperr.RateLimited(3).Error())
}
