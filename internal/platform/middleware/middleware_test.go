// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/ctxutil"
	"github.com/taibuivan/relic/internal/platform/middleware"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequestID_GeneratesAndPropagates verifies a missing ID is generated and exposed.
*/
func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRequestID_KeepsClientValue verifies a caller-supplied ID is reused.
*/
func TestRequestID_KeepsClientValue(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "abc-123")

	recorder := httptest.NewRecorder()
	middleware.RequestID()(okHandler).ServeHTTP(recorder, request)

	assert.Equal(t, "abc-123", recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestFeatureGate covers both gate positions.
*/
func TestFeatureGate(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		status  int
	}{
		{"disabled", false, http.StatusForbidden},
		{"enabled", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			middleware.FeatureGate("ad hoc SQL", tt.enabled)(okHandler).
				ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sql", nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRateLimit_RejectsBurstOverflow verifies the per-IP bucket.
*/
func TestRateLimit_RejectsBurstOverflow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(okHandler)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(last, request)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.NotEmpty(t, last.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, last.Body.String(), `"code":"RATE_LIMITED"`)

	// another client keeps its own bucket
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:5000"
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

type corsConfig struct {
	development bool
	origins     []string
}

func (c corsConfig) IsDevelopment() bool      { return c.development }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corsConfig
		origin  string
		allowed bool
	}{
		{"development allows any", corsConfig{development: true}, "http://elsewhere.test", true},
		{"listed origin", corsConfig{origins: []string{"https://dash.test"}}, "https://DASH.test", true},
		{"unlisted origin", corsConfig{origins: []string{"https://dash.test"}}, "https://evil.test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/v1/artifacts", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)

			recorder := httptest.NewRecorder()
			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRealIP checks header precedence.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
