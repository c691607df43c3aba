// Package cache offers one generic [Cache] interface with two backends: a
// process-local LRU ([NewMemory]) and Redis ([NewRedis]). Code takes the
// interface and stays oblivious to which one is wired, so development and
// tests run on memory while production points at Redis.
//
// Set interprets its TTL argument the same way on both backends: positive
// expires after that duration, zero applies the backend's default (1h
// unless configured), negative pins the entry.
//
//	c := cache.NewMemory[string](
//	    cache.WithDefaultTTL(5*time.Minute),
//	    cache.WithMaxEntries(10_000),
//	)
//	defer c.Close()
//
//	c.Set(ctx, "greeting", "hello", 0) // default TTL
//	v, err := c.Get(ctx, "greeting")
//
// The memory backend evicts least recently used entries once MaxEntries is
// hit and sweeps expired ones in the background. SetEvictCallback observes
// every removal, which covers cleanup for values owning resources.
//
// The Redis backend serializes values as JSON unless a custom [Marshaler]
// is given, and namespaces keys with [WithPrefix]:
//
//	c := cache.NewRedis[User](client, nil, cache.WithPrefix("users"))
//
// [GetOrSet] guards expensive loaders against stampedes: concurrent misses
// of one key collapse into a single loader call via singleflight.
//
//	user, err := cache.GetOrSet(ctx, c, id, func(ctx context.Context) (User, time.Duration, error) {
//	    u, err := repo.Find(ctx, id)
//	    return u, 5 * time.Minute, err
//	})
//
// Misses surface as [ErrNotFound]; writes to a closed memory cache as
// [ErrClosed]; codec failures as [ErrMarshal] and [ErrUnmarshal].
package cache
