package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisSessionPrefix = "session:"
	redisTokenPrefix   = "session_token:"
)

// RedisStore persists sessions in Redis. Each session is stored as JSON
// under its ID with a token index key pointing at it; both keys carry the
// session's TTL so Redis expires them natively.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a session store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// redisSession is the wire form of a session record.
type redisSession struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserID       *string        `json:"user_id,omitempty"`
	Values       map[string]any `json:"values"`
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	IP           string         `json:"ip"`
	UserAgent    string         `json:"user_agent"`
}

func toRecord(s *Session) *redisSession {
	return &redisSession{
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
		UserID:       s.UserID,
		Values:       s.Values,
		ID:           s.ID,
		Token:        s.Token,
		IP:           s.IP,
		UserAgent:    s.UserAgent,
	}
}

func fromRecord(r *redisSession) *Session {
	s := &Session{
		CreatedAt:    r.CreatedAt,
		LastActiveAt: r.LastActiveAt,
		ExpiresAt:    r.ExpiresAt,
		UserID:       r.UserID,
		Values:       r.Values,
		ID:           r.ID,
		Token:        r.Token,
		IP:           r.IP,
		UserAgent:    r.UserAgent,
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	return s
}

func (r *RedisStore) write(ctx context.Context, rec *redisSession) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisSessionPrefix+rec.ID, payload, ttl)
	pipe.Set(ctx, redisTokenPrefix+rec.Token, rec.ID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

func (r *RedisStore) load(ctx context.Context, id string) (*redisSession, error) {
	payload, err := r.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: load: %w", err)
	}
	var rec redisSession
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &rec, nil
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.write(ctx, toRecord(s))
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	id, err := r.client.Get(ctx, redisTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: get token: %w", err)
	}
	rec, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if time.Now().After(rec.ExpiresAt) {
		return nil, ErrExpired
	}
	return fromRecord(rec), nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	old, err := r.load(ctx, s.ID)
	if err != nil {
		return err
	}
	if old.Token != s.Token {
		if err := r.client.Del(ctx, redisTokenPrefix+old.Token).Err(); err != nil {
			return fmt.Errorf("session: drop old token: %w", err)
		}
	}
	return r.write(ctx, toRecord(s))
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	rec, err := r.load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, redisSessionPrefix+id, redisTokenPrefix+rec.Token).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// DeleteByUserID scans the session keyspace, so it is O(sessions). Fine for
// an occasional "log out everywhere"; do not call it per request.
func (r *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	iter := r.client.Scan(ctx, 0, redisSessionPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var rec redisSession
		if err := json.Unmarshal(payload, &rec); err != nil {
			continue
		}
		if rec.UserID != nil && *rec.UserID == userID {
			_ = r.client.Del(ctx, redisSessionPrefix+rec.ID, redisTokenPrefix+rec.Token).Err()
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("session: delete by user: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op; key TTLs make Redis expire sessions natively.
func (r *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	rec, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	rec.LastActiveAt = lastActiveAt
	return r.write(ctx, rec)
}
