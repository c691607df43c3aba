// Package jwt signs and verifies compact HS256 JSON Web Tokens.
//
// A Service is bound to one HMAC-SHA256 key of at least 32 bytes. Tokens
// use the standard three-segment compact form with unpadded base64url
// encoding. Only HS256 is supported; tokens declaring any other algorithm
// are rejected before signature verification.
//
// # Basic Usage
//
//	import (
//		"time"
//
//		"github.com/dmitrymomot/anvil/pkg/jwt"
//	)
//
//	svc, err := jwt.NewFromString("your-32+-byte-secret-key-here!!!")
//	if err != nil {
//		// handle error
//	}
//
//	token, err := svc.Generate(jwt.StandardClaims{
//		Subject:   userID,
//		ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
//		IssuedAt:  time.Now().Unix(),
//	})
//
//	var claims jwt.StandardClaims
//	if err := svc.Parse(token, &claims); err != nil {
//		// token invalid, expired, or tampered with
//	}
//
// # Custom Claims
//
// Embed StandardClaims to carry application data alongside the registered
// claims. Types implementing [Claims] are validated after the signature
// check:
//
//	type apiClaims struct {
//		jwt.StandardClaims
//		TeamID string `json:"team_id"`
//		Role   string `json:"role"`
//	}
//
// # Errors
//
// Parse reports failures through sentinel errors:
//   - [ErrInvalidToken]: not a well-formed three-segment token
//   - [ErrInvalidSignature]: signature mismatch (wrong key or tampering)
//   - [ErrUnsupportedAlgorithm]: header declares an algorithm other than HS256
//   - [ErrExpiredToken]: exp claim is in the past
//   - [ErrTokenNotYetValid]: nbf claim is in the future
package jwt
