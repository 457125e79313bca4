// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pulsefit/pulsefit/internal/logging"
)

// identityKey is the context key for the authenticated user email.
type identityKey struct{}

// devIdentity is the identity injected when auth is disabled, unless the
// request names one with the X-User-Email header.
const devIdentity = "dev@pulsefit.local"

// Middleware resolves bearer tokens into a user identity on the context.
type Middleware struct {
	manager *JWTManager
	enabled bool
}

// NewMiddleware builds the auth middleware. manager may be nil when enabled
// is false.
func NewMiddleware(manager *JWTManager, enabled bool) *Middleware {
	return &Middleware{manager: manager, enabled: enabled}
}

// Authenticate validates the Authorization bearer token and stores the user
// email in the request context. With auth disabled it injects a development
// identity instead so profile endpoints stay usable locally.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			email := r.Header.Get("X-User-Email")
			if email == "" {
				email = devIdentity
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), email)))
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.manager.ValidateToken(token)
		if err != nil {
			logging.Debug().Err(err).Msg("token validation failed")
			unauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Email)))
	})
}

// WithIdentity returns a context carrying the authenticated user email.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey{}, email)
}

// IdentityFromContext returns the authenticated user email, or "" when the
// request did not pass through Authenticate.
func IdentityFromContext(ctx context.Context) string {
	email, _ := ctx.Value(identityKey{}).(string)
	return email
}

// unauthorized writes a 401 with the plan-style error body.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return
	}
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("failed to write unauthorized response")
	}
}
