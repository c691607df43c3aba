package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryConfig struct {
	defaultTTL time.Duration
	sweepEvery time.Duration
	maxEntries int
}

// MemoryOption tunes the in-memory cache.
type MemoryOption func(*memoryConfig)

// WithDefaultTTL sets the expiry applied when Set receives a zero TTL.
// Default 1h.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(cfg *memoryConfig) { cfg.defaultTTL = d }
}

// WithCleanupInterval sets how often the background sweeper drops expired
// entries. Zero disables the sweeper; expired entries then linger until
// read. Default 1m.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(cfg *memoryConfig) { cfg.sweepEvery = d }
}

// WithMaxEntries caps the cache size; the least recently used entry makes
// room for new ones. Zero means unbounded, which is the default.
func WithMaxEntries(n int) MemoryOption {
	return func(cfg *memoryConfig) { cfg.maxEntries = n }
}

// item is the LRU list payload. A zero deadline marks a pinned entry.
type item[V any] struct {
	deadline time.Time
	value    V
	key      string
}

// Memory is a process-local Cache: a map for lookups over an LRU list for
// eviction order, guarded by one mutex. Safe for concurrent use.
type Memory[V any] struct {
	mu      sync.Mutex
	elems   map[string]*list.Element
	lru     *list.List
	onEvict func(key string, value V)
	stop    chan struct{}
	closed  bool

	defaultTTL time.Duration
	maxEntries int
}

// NewMemory builds an in-memory cache and starts its expiry sweeper unless
// WithCleanupInterval(0) disables it. Call Close to stop the sweeper.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{
		defaultTTL: time.Hour,
		sweepEvery: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		elems:      make(map[string]*list.Element),
		lru:        list.New(),
		stop:       make(chan struct{}),
		defaultTTL: cfg.defaultTTL,
		maxEntries: cfg.maxEntries,
	}
	if cfg.sweepEvery > 0 {
		go m.sweep(cfg.sweepEvery)
	}
	return m
}

// SetEvictCallback registers fn to run whenever an entry leaves the cache,
// whether by LRU pressure, expiry, Delete, or Clear. Useful when cached
// values hold resources that need explicit release.
func (m *Memory[V]) SetEvictCallback(fn func(key string, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.lookup(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	m.lru.MoveToFront(elem)
	return elem.Value.(*item[V]).value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.defaultTTL
	}
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	if elem, ok := m.elems[key]; ok {
		it := elem.Value.(*item[V])
		it.value = value
		it.deadline = deadline
		m.lru.MoveToFront(elem)
		return nil
	}

	if m.maxEntries > 0 && len(m.elems) >= m.maxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.remove(oldest)
		}
	}
	m.elems[key] = m.lru.PushFront(&item[V]{key: key, value: value, deadline: deadline})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.elems[key]; ok {
		m.remove(elem)
	}
	return nil
}

func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.onEvict != nil {
		for elem := m.lru.Front(); elem != nil; elem = elem.Next() {
			it := elem.Value.(*item[V])
			m.onEvict(it.key, it.value)
		}
	}
	m.elems = make(map[string]*list.Element)
	m.lru.Init()
	return nil
}

// Close stops the sweeper and rejects further writes. Idempotent; reads
// keep working so teardown order does not matter.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

// lookup returns the element under key, pruning it first when expired.
// Caller holds mu.
func (m *Memory[V]) lookup(key string) (*list.Element, bool) {
	elem, ok := m.elems[key]
	if !ok {
		return nil, false
	}
	if it := elem.Value.(*item[V]); !it.deadline.IsZero() && time.Now().After(it.deadline) {
		m.remove(elem)
		return nil, false
	}
	return elem, true
}

// remove unlinks elem and fires the eviction callback. Caller holds mu.
func (m *Memory[V]) remove(elem *list.Element) {
	m.lru.Remove(elem)
	it := elem.Value.(*item[V])
	delete(m.elems, it.key)
	if m.onEvict != nil {
		m.onEvict(it.key, it.value)
	}
}

func (m *Memory[V]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for elem := m.lru.Back(); elem != nil; {
				prev := elem.Prev()
				if it := elem.Value.(*item[V]); !it.deadline.IsZero() && now.After(it.deadline) {
					m.remove(elem)
				}
				elem = prev
			}
			m.mu.Unlock()
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
