package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Suitable for development
// and tests; state is lost on restart and not shared between instances.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	byToken map[string]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Session),
		byToken: make(map[string]string),
	}
}

// clone copies a session record so callers and the store never share
// mutable state. Lifecycle flags start fresh on the copy.
func clone(s *Session) *Session {
	c := &Session{
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
		ID:           s.ID,
		Token:        s.Token,
		IP:           s.IP,
		UserAgent:    s.UserAgent,
		Values:       maps.Clone(s.Values),
	}
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	if s.UserID != nil {
		uid := *s.UserID
		c.UserID = &uid
	}
	return c
}

func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := clone(s)
	m.byID[rec.ID] = rec
	m.byToken[rec.Token] = rec.ID
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	rec, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(rec.ExpiresAt) {
		return nil, ErrExpired
	}
	return clone(rec), nil
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[s.ID]
	if !ok {
		return ErrNotFound
	}
	if rec.Token != s.Token {
		delete(m.byToken, rec.Token)
		m.byToken[s.Token] = s.ID
	}
	m.byID[s.ID] = clone(s)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.byID[id]; ok {
		delete(m.byToken, rec.Token)
		delete(m.byID, id)
	}
	return nil
}

func (m *MemoryStore) DeleteByUserID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.byID {
		if rec.UserID != nil && *rec.UserID == userID {
			delete(m.byToken, rec.Token)
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for id, rec := range m.byID {
		if now.After(rec.ExpiresAt) {
			delete(m.byToken, rec.Token)
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *MemoryStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.LastActiveAt = lastActiveAt
	return nil
}
