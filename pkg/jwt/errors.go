package jwt

import "errors"

var (
	// ErrInvalidSigningKey is returned by New when the signing key is
	// shorter than 32 bytes.
	ErrInvalidSigningKey = errors.New("jwt: signing key must be at least 32 bytes")

	// ErrInvalidToken indicates the token is not a well-formed compact JWT.
	ErrInvalidToken = errors.New("jwt: invalid token")

	// ErrInvalidSignature indicates the signature does not match the payload.
	ErrInvalidSignature = errors.New("jwt: invalid signature")

	// ErrUnsupportedAlgorithm indicates the token header declares an
	// algorithm other than HS256.
	ErrUnsupportedAlgorithm = errors.New("jwt: unsupported signing algorithm")

	// ErrExpiredToken indicates the exp claim is in the past.
	ErrExpiredToken = errors.New("jwt: token expired")

	// ErrTokenNotYetValid indicates the nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("jwt: token not yet valid")
)
