package jwt

import "time"

// Claims is implemented by claim types that validate themselves.
// Parse calls Valid after the signature has been verified and the
// payload unmarshaled; a non-nil result fails the parse.
type Claims interface {
	Valid() error
}

// StandardClaims holds the registered claim names from RFC 7519.
// Embed it in a custom struct to combine standard and application claims:
//
//	type apiClaims struct {
//		jwt.StandardClaims
//		TeamID string `json:"team_id"`
//	}
type StandardClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ID        string `json:"jti,omitempty"`
}

// Valid checks the exp and nbf claims against the current time.
// Zero-valued claims are skipped.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt > 0 && now >= c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore > 0 && now < c.NotBefore {
		return ErrTokenNotYetValid
	}
	return nil
}
