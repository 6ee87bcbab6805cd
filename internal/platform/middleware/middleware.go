// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP chain wrapped around every Relic route.

Order, outermost first (see api.NewServer):

  - RequestID, StructuredLogger: correlation and one access log line per request.
  - RateLimit: per-client token bucket; harvests hit the provider quota.
  - PanicRecovery, CORS.
  - FeatureGate: per-route switch for operator-only surfaces such as ad hoc SQL.

Rejections are written with [respond.Error] so they share the API error envelope.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/ctxutil"
	"github.com/taibuivan/relic/internal/platform/respond"
	"github.com/taibuivan/relic/pkg/uuid"
)

// # Request Tracing

// RequestID reuses the caller's X-Request-ID or issues a new one.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// # Access Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

/*
StructuredLogger stores a request-scoped logger in the context and writes one
"http_request_finished" entry per request.

Level follows the status: 5xx error, 4xx warn, everything else info.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= 500:
				level = slog.LevelError
			case recorder.status >= 400:
				level = slog.LevelWarn
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
			)
		})
	}
}

// # Rate Limiting

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

/*
RateLimit applies a token bucket per client IP.

Rejected requests get 429 with a Retry-After header derived from the bucket's
next free token. Idle clients are swept until ctx is cancelled.
*/
func RateLimit(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, entry := range clients {
					if time.Since(entry.lastSeen) > constants.RateLimitClientTTL {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := RealIP(request)
			now := time.Now()

			mu.Lock()
			entry, found := clients[ip]
			if !found {
				entry = &client{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
				clients[ip] = entry
			}
			entry.lastSeen = now

			reservation := entry.limiter.ReserveN(now, 1)
			delay := reservation.DelayFrom(now)
			if delay > 0 {
				reservation.CancelAt(now)
			}
			mu.Unlock()

			if delay > 0 {
				retryAfter := int(math.Ceil(delay.Seconds()))
				writer.Header().Set(constants.HeaderRetryAfter, fmt.Sprint(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Feature Gates

// FeatureGate answers 403 for every request while enabled is false.
func FeatureGate(feature string, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if enabled {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "feature_gate_rejected",
				slog.String("feature", feature),
			)
			respond.Error(writer, request, apperr.Forbidden("The "+feature+" endpoint is disabled"))
		})
	}
}

// # Recovery

// PanicRecovery turns a handler panic into a 500 and logs the stack.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stack)),
				)
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the slice of configuration CORS needs.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// CORS allows configured origins, or any origin in development.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, Retry-After")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", constants.HeaderOrigin)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	for _, allowed := range cfg.AllowedOrigins() {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// # Helpers

// RealIP prefers X-Real-IP, then the first X-Forwarded-For hop, then RemoteAddr.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
