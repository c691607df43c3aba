package session

import "errors"

var (
	// ErrNotConfigured signals that a session operation ran on an app
	// built without WithSession.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound signals that no session exists for the given token.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired signals that the session's lifetime has passed.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken signals a malformed or unparseable session token.
	ErrInvalidToken = errors.New("session: invalid token")
)
