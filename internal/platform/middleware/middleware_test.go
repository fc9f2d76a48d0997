// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/movies/internal/platform/ctxutil"
	"github.com/taibuivan/movies/internal/platform/middleware"
	"github.com/taibuivan/movies/internal/platform/sec"
)

// # Fakes

type fakeVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (f fakeVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return f.claims, f.err
}

type fakeCounter struct {
	hits map[string]int64
	err  error
}

func (f *fakeCounter) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.hits[key]++
	return f.hits[key], window / 2, nil
}

type devConfig bool

func (d devConfig) IsDevelopment() bool { return bool(d) }

// captureViewer records the viewer the downstream handler sees.
func captureViewer(viewer *string) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*viewer = ctxutil.ViewerID(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// # Authentication

func TestAuthenticate(t *testing.T) {
	apiKeyHash, err := sec.HashAPIKey("s3cret")
	require.NoError(t, err)

	member := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleMember)}

	tests := []struct {
		name       string
		verifier   fakeVerifier
		headers    map[string]string
		wantStatus int
		wantViewer string
	}{
		{"anonymous", fakeVerifier{}, nil, http.StatusOK, ""},
		{"bearer", fakeVerifier{claims: member}, map[string]string{"Authorization": "Bearer abc"}, http.StatusOK, "user-1"},
		{"bearer_lowercase", fakeVerifier{claims: member}, map[string]string{"Authorization": "bearer abc"}, http.StatusOK, "user-1"},
		{"bad_scheme", fakeVerifier{claims: member}, map[string]string{"Authorization": "Basic abc"}, http.StatusUnauthorized, ""},
		{"bad_token", fakeVerifier{err: errors.New("expired")}, map[string]string{"Authorization": "Bearer abc"}, http.StatusUnauthorized, ""},
		{"api_key", fakeVerifier{}, map[string]string{"x-api-key": "s3cret"}, http.StatusOK, "b8671179-6a29-41b2-8fff-cf21e818c876"},
		{"bad_api_key", fakeVerifier{}, map[string]string{"x-api-key": "nope"}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var viewer string
			handler := middleware.Authenticate(tt.verifier, apiKeyHash)(captureViewer(&viewer))

			request := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := serve(handler, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantViewer, viewer)
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })
	handler := middleware.RequireRole(sec.RoleTrustedMember)(ok)

	tests := []struct {
		name       string
		claims     *sec.AuthClaims
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &sec.AuthClaims{UserID: "u", Role: string(sec.RoleMember)}, http.StatusForbidden},
		{"trusted_member", &sec.AuthClaims{UserID: "u", Role: string(sec.RoleTrustedMember)}, http.StatusOK},
		{"admin", &sec.AuthClaims{UserID: "u", Role: string(sec.RoleAdmin)}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/movies", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}

			assert.Equal(t, tt.wantStatus, serve(handler, request).Code)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })
	request := httptest.NewRequest(http.MethodGet, "/api/ratings/me", nil)

	assert.Equal(t, http.StatusUnauthorized, serve(middleware.RequireAuth(ok), request).Code)

	authed := request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u"}))
	assert.Equal(t, http.StatusOK, serve(middleware.RequireAuth(ok), authed).Code)
}

// # Guards

func TestThrottleUser(t *testing.T) {
	counter := &fakeCounter{hits: map[string]int64{}}
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })
	handler := middleware.ThrottleUser(counter, 2, time.Minute)(ok)

	request := httptest.NewRequest(http.MethodPut, "/api/movies/1/ratings", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "voter"}))

	assert.Equal(t, http.StatusOK, serve(handler, request).Code)
	assert.Equal(t, http.StatusOK, serve(handler, request).Code)

	limited := serve(handler, request)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "30", limited.Header().Get("Retry-After"))

	anonymous := httptest.NewRequest(http.MethodPut, "/api/movies/1/ratings", nil)
	assert.Equal(t, http.StatusOK, serve(handler, anonymous).Code)
}

func TestThrottleUser_CounterDownFailsOpen(t *testing.T) {
	counter := &fakeCounter{err: errors.New("connection refused")}
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })
	handler := middleware.ThrottleUser(counter, 1, time.Minute)(ok)

	request := httptest.NewRequest(http.MethodPut, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "voter"}))

	assert.Equal(t, http.StatusOK, serve(handler, request).Code)
}

func TestIPLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewIPLimiter(ctx, 1, 2)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "given")
	serve(handler, request)
	assert.Equal(t, "given", seen)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) })

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://www.movies.app")
	recorder := serve(middleware.CORS(devConfig(false), "movies.app")(ok), request)
	assert.Equal(t, "https://www.movies.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://evil.example")
	recorder = serve(middleware.CORS(devConfig(false), "movies.app")(ok), request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	recorder = serve(middleware.CORS(devConfig(true), "movies.app")(ok), preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}
