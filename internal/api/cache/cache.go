package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

// NoExpiration marks an entry that lives until the store is cleared.
const NoExpiration = gocache.NoExpiration

// Store is the per-provider cache in front of every adapter. Lookups past an
// entry's TTL behave exactly like a cold miss; expired entries are evicted
// lazily on the next Get. Implementations must tolerate concurrent Get/Set.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Clear()
}

// Key builds the provider- and identity-scoped cache key. Normalization is
// key-only: the display form of the identity keeps its casing.
func Key(provider string, id types.CityIdentity) string {
	return fmt.Sprintf("%s:%s:%s", provider, id.NormalizedCity(), id.NormalizedCountry())
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the in-process Store, one instance per engine. Tests build
// their own instance instead of sharing process-global state.
type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Get(key string) (any, bool) {
	return s.c.Get(key)
}

func (s *MemoryStore) Set(key string, value any, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

func (s *MemoryStore) Clear() {
	s.c.Flush()
}
