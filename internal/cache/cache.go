// Package cache provides the process-wide TTL cache used by read-heavy
// endpoints. Invalidation is prefix-sweep only: writers clear every key under
// a prefix, which can over-invalidate but never under-invalidates.
// #IMPLEMENTATION_DECISION: Injected interface so tests can swap in Noop
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default TTL and janitor interval for the in-memory cache
const (
	DefaultTTL             = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// Key prefixes shared between readers and invalidating writers
// #INTEGRATION_POINT: Services build keys as prefix + id
const (
	PrefixStudentTasks       = "student:tasks:"
	PrefixFacultyAssignments = "faculty:assignments:"
)

// Service is the cache interface injected into services
type Service interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	InvalidatePrefix(prefix string)
	Flush()
}

// memoryCache implements Service on top of patrickmn/go-cache
type memoryCache struct {
	store *gocache.Cache
}

// New creates an in-memory cache service with the given default TTL.
// A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryCache{
		store: gocache.New(ttl, defaultCleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}) {
	c.store.SetDefault(key, value)
}

func (c *memoryCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// InvalidatePrefix deletes every live entry whose key starts with prefix
func (c *memoryCache) InvalidatePrefix(prefix string) {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}

// Noop is a cache that stores nothing; used in tests and CLIs
type Noop struct{}

func (Noop) Get(string) (interface{}, bool)                 { return nil, false }
func (Noop) Set(string, interface{})                        {}
func (Noop) SetWithTTL(string, interface{}, time.Duration)  {}
func (Noop) InvalidatePrefix(string)                        {}
func (Noop) Flush()                                         {}

// Ensure both implementations satisfy Service
var (
	_ Service = (*memoryCache)(nil)
	_ Service = Noop{}
)
