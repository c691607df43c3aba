package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// settings collects pool tuning and the startup retry policy. Pool values
// overwrite whatever the connection URL resolved to.
type settings struct {
	pool         int
	minIdle      int
	idleTime     time.Duration
	lifeTime     time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	dialTimeout  time.Duration
	attempts     int
	backoff      time.Duration
}

// Option tunes the connection created by Open.
type Option func(*settings)

// WithPoolSize caps the connection pool. Default 10.
func WithPoolSize(n int) Option {
	return func(s *settings) { s.pool = n }
}

// WithMinIdleConns keeps at least n connections warm. Default 5.
func WithMinIdleConns(n int) Option {
	return func(s *settings) { s.minIdle = n }
}

// WithMaxIdleTime closes connections idle longer than d. Default 10m.
func WithMaxIdleTime(d time.Duration) Option {
	return func(s *settings) { s.idleTime = d }
}

// WithMaxActiveTime caps a connection's total lifetime. Default 30m.
func WithMaxActiveTime(d time.Duration) Option {
	return func(s *settings) { s.lifeTime = d }
}

// WithRetry sets how many pings Open attempts before giving up and the
// base interval between them, which grows linearly per attempt.
// Default 3 attempts, 5s apart.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(s *settings) {
		s.attempts = attempts
		s.backoff = interval
	}
}

// WithReadTimeout bounds read operations. Default 3s.
func WithReadTimeout(d time.Duration) Option {
	return func(s *settings) { s.readTimeout = d }
}

// WithWriteTimeout bounds write operations. Default 3s.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *settings) { s.writeTimeout = d }
}

// WithDialTimeout bounds new connection setup. Default 5s.
func WithDialTimeout(d time.Duration) Option {
	return func(s *settings) { s.dialTimeout = d }
}

// Open connects to the Redis server at url (redis:// or rediss:// for TLS)
// and verifies the connection with a ping before returning. Transient
// startup failures are retried per WithRetry, so a Redis container that is
// still booting does not kill the app.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}

	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	s := settings{
		pool:         10,
		minIdle:      5,
		idleTime:     10 * time.Minute,
		lifeTime:     30 * time.Minute,
		readTimeout:  3 * time.Second,
		writeTimeout: 3 * time.Second,
		dialTimeout:  5 * time.Second,
		attempts:     3,
		backoff:      5 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}

	parsed.PoolSize = s.pool
	parsed.MinIdleConns = s.minIdle
	parsed.ConnMaxIdleTime = s.idleTime
	parsed.ConnMaxLifetime = s.lifeTime
	parsed.ReadTimeout = s.readTimeout
	parsed.WriteTimeout = s.writeTimeout
	parsed.DialTimeout = s.dialTimeout

	return dial(ctx, parsed, s.attempts, s.backoff)
}

// MustOpen is Open for programs where Redis is not optional: it logs the
// error and exits the process instead of returning it.
func MustOpen(ctx context.Context, url string, opts ...Option) redis.UniversalClient {
	client, err := Open(ctx, url, opts...)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	return client
}

// dial pings until the server answers or attempts run out. The client is a
// connection pool, so a failed ping does not poison it and one client
// serves every attempt.
func dial(ctx context.Context, opts *redis.Options, attempts int, backoff time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)
	client := redis.NewClient(opts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}

	_ = client.Close()
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}
