package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
// Implementations handle storage-specific operations like
// database queries or cache lookups.
//
// Stores key sessions by ID and index them by token, so rotating a token
// re-points the index without losing the record.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session, including token changes.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all sessions for a user.
	// Useful for "logout from all devices" functionality.
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes sessions past their expiry. Intended for a
	// scheduled cleanup job.
	DeleteExpired(ctx context.Context) error

	// Touch updates the LastActiveAt timestamp without loading the full session.
	// Used for activity tracking without full session updates.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error
}
