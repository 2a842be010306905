package lazydi

import (
	"github.com/junioryono/lazydi/internal/memo"
)

// KeyFunc derives a resolution cache key from a resolver call.
type KeyFunc func(src *Node, key string) string

// ResolutionKey keys the cache by the key argument alone, discarding the
// container. Different containers passing the same key share an entry.
func ResolutionKey(_ *Node, key string) string {
	return key
}

// ContainerKey keys the cache by the scope of the level the resolver was
// reached through and the key, so each assembled container gets its own entry.
func ContainerKey(src *Node, key string) string {
	return src.Scope() + "\x00" + key
}

// CacheStatistics tracks resolution cache performance metrics.
type CacheStatistics = memo.Statistics

// Memoizer wraps a resolver so that it computes once per cache key.
// Errors are not cached; the next call with the same key retries.
type Memoizer struct {
	fn    Resolver
	keyFn KeyFunc
	cache *memo.Cache
}

// NewMemoizer creates a Memoizer for fn. A nil keyFn means ResolutionKey.
func NewMemoizer(fn Resolver, keyFn KeyFunc) *Memoizer {
	if keyFn == nil {
		keyFn = ResolutionKey
	}
	return &Memoizer{
		fn:    fn,
		keyFn: keyFn,
		cache: memo.New(),
	}
}

// Resolve returns the cached value for the call's key, computing it on a miss.
// When concurrent misses race, the first stored value is returned to all of them.
func (m *Memoizer) Resolve(src *Node, key string) (any, error) {
	cacheKey := m.keyFn(src, key)

	if v, ok := m.cache.Get(cacheKey); ok {
		return v, nil
	}

	v, err := m.fn(src, key)
	if err != nil {
		return nil, err
	}

	return m.cache.Store(cacheKey, v), nil
}

// Statistics returns the memoizer's cache statistics.
func (m *Memoizer) Statistics() CacheStatistics {
	return m.cache.Statistics()
}

// Memoize wraps fn so that the cache is indexed purely by keyFn(src, key).
func Memoize(fn Resolver, keyFn KeyFunc) Resolver {
	return NewMemoizer(fn, keyFn).Resolve
}
