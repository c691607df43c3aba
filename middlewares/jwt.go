package middlewares

import (
	"errors"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/jwt"
)

// jwtClaimsKey is the context key for parsed JWT claims.
type jwtClaimsKey struct{}

// JWTConfig configures the JWT middleware.
type JWTConfig struct {
	Extractor    internal.Extractor
	extractorSet bool
}

// JWTOption configures JWTConfig.
type JWTOption func(*JWTConfig)

// WithJWTExtractor sets a custom token extractor chain.
func WithJWTExtractor(ext internal.Extractor) JWTOption {
	return func(cfg *JWTConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// JWT returns middleware that extracts a token from the request, verifies
// it, and stores the parsed claims on the context. Requests without a valid
// token are answered with 401; API clients get a JSON body naming the
// reason. T is the claims type to parse into, e.g. jwt.StandardClaims or a
// struct embedding it.
func JWT[T any](svc *jwt.Service, opts ...JWTOption) internal.Middleware {
	cfg := &JWTConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default extractor: Bearer token from Authorization header
	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromBearerToken(),
		)
	}

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		token, ok := cfg.Extractor.Extract(c)
		if !ok || token == "" {
			return unauthorized(c, "missing authentication token", "")
		}

		var claims T
		if err := svc.Parse(token, &claims); err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "token expired"
			}
			return unauthorized(c, msg, "")
		}

		c.Set(jwtClaimsKey{}, &claims)

		return nil
	})
}

// GetJWTClaims extracts parsed JWT claims from the context.
// Returns nil if the JWT middleware is not applied or the type doesn't match.
func GetJWTClaims[T any](c *internal.Context) *T {
	v, ok := c.Get(jwtClaimsKey{}).(*T)
	if !ok {
		return nil
	}
	return v
}
