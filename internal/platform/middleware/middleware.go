// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured activity logging (slog).
  - Guard: Per-IP rate limiting, per-user vote throttling and CORS.
  - Safe: Panic recovery to prevent server crashes.
*/
package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/internal/platform/constants"
	"github.com/taibuivan/movies/internal/platform/ctxutil"
	"github.com/taibuivan/movies/internal/platform/respond"
	"github.com/taibuivan/movies/pkg/uuid"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
//
// A client-supplied X-Request-ID is reused, otherwise a time-sortable v7 UUID
// is generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New()
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request with its status and latency.
// It also injects a request-scoped logger into the context.
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
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			// Authentication runs further down the chain and attaches claims to
			// its own derived request, so the user is read back through a holder.
			holder := &userHolder{}
			next.ServeHTTP(wrappedWriter, request.WithContext(withUserHolder(ctx, holder)))

			logLevel := slog.LevelInfo
			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			attributes := []any{
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if holder.userID != "" {
				attributes = append(attributes, slog.String("user_id", holder.userID))
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished", attributes...)
		})
	}
}

type userHolderKey struct{}

// userHolder carries the authenticated user ID back up to [StructuredLogger].
type userHolder struct {
	userID string
}

func withUserHolder(ctx context.Context, holder *userHolder) context.Context {
	return context.WithValue(ctx, userHolderKey{}, holder)
}

func recordUser(ctx context.Context, userID string) {
	if holder, ok := ctx.Value(userHolderKey{}).(*userHolder); ok {
		holder.userID = userID
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter applies a token bucket per client IP.
type IPLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   rate.Limit
	burst   int
}

// NewIPLimiter creates a limiter and starts its cleanup loop, which stops when
// ctx is cancelled.
func NewIPLimiter(ctx context.Context, requestsPerSecond float64, burst int) *IPLimiter {
	limiter := &IPLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}

	go limiter.cleanup(ctx)

	return limiter
}

// Allow reports whether a request from ip fits in its bucket.
func (limiter *IPLimiter) Allow(ip string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, found := limiter.clients[ip]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// Handler rejects requests over the per-IP budget with 429.
func (limiter *IPLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.Allow(RealIP(request)) {
			respond.Error(writer, request, apperr.RateLimited(1))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (limiter *IPLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.mu.Lock()
			for ip, client := range limiter.clients {
				if time.Since(client.lastSeen) > constants.RateLimitClientTTL {
					delete(limiter.clients, ip)
				}
			}
			limiter.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// # Vote Throttling

// WindowCounter counts hits for a key inside a fixed time window.
type WindowCounter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// ThrottleUser caps how many requests an authenticated user may make per
// window. Anonymous requests pass through untouched.
//
// A counter failure is logged and the request is allowed: the throttle is a
// guard rail and must not take rating offline when the cache is down.
func ThrottleUser(counter WindowCounter, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			userID := ctxutil.ViewerID(request.Context())
			if userID == "" {
				next.ServeHTTP(writer, request)
				return
			}

			count, remaining, err := counter.Increment(request.Context(), userID, window)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "vote_throttle_unavailable",
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			if count > limit {
				respond.Error(writer, request, apperr.RateLimited(int(math.Ceil(remaining.Seconds()))))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs the stack trace, and returns 500.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					if recovered == http.ErrAbortHandler {
						panic(recovered)
					}

					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", recovered),
						slog.String("stack", string(stackTrace[:length])),
					)

					respond.Error(writer, request, apperr.Internal(nil))
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
}

// CORS handles Cross-Origin Resource Sharing.
//
// Development allows every origin. Otherwise only origins ending in
// allowedSuffix receive CORS headers.
func CORS(cfg AppConfig, allowedSuffix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if cfg.IsDevelopment() || (allowedSuffix != "" && strings.HasSuffix(origin, allowedSuffix)) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, X-Request-ID, X-Api-Key")
				header.Set("Access-Control-Expose-Headers", "Location, Retry-After, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", "Origin")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts client IP, respecting common proxy headers.
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
