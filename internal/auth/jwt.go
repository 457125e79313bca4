// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package auth provides the bearer-token identity boundary for the API.
//
// Token issuance (registration, login, password reset) happens in a separate
// system; this package only validates HS256 tokens and resolves the user
// email identity carried in their claims into the request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pulsefit/pulsefit/internal/config"
)

// ErrInvalidToken is returned when a token fails signature, expiry, or
// structural validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims Pulsefit tokens carry. Email is the user
// identity key used by the profile and meal-log stores.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager validates (and, for tests and tooling, issues) HS256 tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a JWTManager from the auth configuration.
// The secret must be non-empty; config validation enforces the minimum length.
func NewJWTManager(cfg *config.AuthConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required when auth is enabled")
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}, nil
}

// GenerateToken issues a signed token for the given user email.
// Production token issuance lives in the account service; this is used by
// tests and the local development CLI.
func (m *JWTManager) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the token signature, algorithm, and time claims,
// returning the embedded claims. All failures collapse to ErrInvalidToken so
// callers cannot leak validation detail to clients.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		// Fall back to the registered subject for tokens minted by the
		// account service before the email claim existed.
		if claims.Subject == "" {
			return nil, ErrInvalidToken
		}
		claims.Email = claims.Subject
	}
	return claims, nil
}
