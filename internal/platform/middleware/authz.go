// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/internal/platform/constants"
	"github.com/taibuivan/movies/internal/platform/ctxutil"
	"github.com/taibuivan/movies/internal/platform/respond"
	"github.com/taibuivan/movies/internal/platform/sec"
)

// TokenVerifier verifies bearer tokens. [*sec.TokenService] satisfies it.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate resolves the caller's identity.
//
// # Flow
//  1. An 'x-api-key' header matching apiKeyHash authenticates as admin.
//  2. Otherwise an 'Authorization: Bearer <token>' header is verified.
//  3. With neither header the request proceeds as anonymous.
//
// A credential that is present but invalid is rejected with 401 rather than
// downgraded to anonymous. An empty apiKeyHash disables API key access.
func Authenticate(verifier TokenVerifier, apiKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if apiKey := request.Header.Get(constants.HeaderAPIKey); apiKey != "" {
				if apiKeyHash == "" || !sec.CheckAPIKey(apiKey, apiKeyHash) {
					respond.Error(writer, request, apperr.Unauthorized("Invalid API key"))
					return
				}
				serveAs(next, writer, request, &sec.AuthClaims{UserID: constants.APIKeyUserID, Role: string(sec.RoleAdmin)})
				return
			}

			authHeader := request.Header.Get(constants.HeaderAuthorization)
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			serveAs(next, writer, request, claims)
		})
	}
}

func serveAs(next http.Handler, writer http.ResponseWriter, request *http.Request, claims *sec.AuthClaims) {
	recordUser(request.Context(), claims.UserID)
	ctx := ctxutil.WithAuthUser(request.Context(), claims)
	next.ServeHTTP(writer, request.WithContext(ctx))
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// It implies [RequireAuth], so mounting both is unnecessary.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
