package redis

import "errors"

// Sentinel errors returned by Open and Healthcheck. Underlying causes are
// attached with errors.Join, so errors.Is works against these while the
// driver error stays visible in logs.
var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrFailedToParseURL   = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
