// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT verification, API key
// hashing) from the domain logic. Middleware depends on it through the
// [middleware.TokenVerifier] interface.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/movies/pkg/uuid"
)

// ErrSigningDisabled is returned by [TokenService.GenerateAccessToken] when no private key was loaded.
var ErrSigningDisabled = errors.New("auth: token signing is disabled (no private key)")

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// The viewer identity and role travel in the token, so scoping a user's own
// rating never needs a user lookup.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userid"`
	Role   string `json:"role"`
}

// TokenService verifies (and, when a private key is configured, issues) RS256 tokens.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService reads RSA keys from the filesystem.
//
// The public key is mandatory. privateKeyPath may be empty, in which case the
// service only verifies tokens issued elsewhere.
func NewTokenService(publicKeyPath, privateKeyPath, issuer string) (*TokenService, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to parse public key: %w", err)
	}

	var privateKey *rsa.PrivateKey
	if privateKeyPath != "" {
		privateKeyData, err := os.ReadFile(privateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("auth: failed to read private key from %s: %w", privateKeyPath, err)
		}

		privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
		if err != nil {
			return nil, fmt.Errorf("auth: failed to parse private key: %w", err)
		}
	}

	return NewTokenServiceFromKeys(publicKey, privateKey, issuer), nil
}

// NewTokenServiceFromKeys builds a [TokenService] from already-parsed keys.
func NewTokenServiceFromKeys(publicKey *rsa.PublicKey, privateKey *rsa.PrivateKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}
}

// GenerateAccessToken creates a new JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID string, role UserRole, timeToLive time.Duration) (string, error) {
	if service.privateKey == nil {
		return "", ErrSigningDisabled
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Role:   string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer and validity of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	// The user ID is bound to uuid columns, so anything else is an invalid token.
	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || !uuid.IsValid(claims.UserID) {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	return claims, nil
}
