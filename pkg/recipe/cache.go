package recipe

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/storage"
)

// Cache memoizes srcinfo text keyed by the content hash of the recipe
// that produced it.  Dumping srcinfo means running an external
// command, so identical recipe content should only ever pay that cost
// once, across runs.  The cache is the only mutable state shared
// between loader workers; one mutex covers all access.  The lock is
// deliberately held across the fill call too: misses are rare after
// warmup and duplicate external invocations are pure waste.
type Cache struct {
	mu    sync.Mutex
	store storage.Storage

	hits, misses int
}

// NewCache returns a cache backed by the given store.
func NewCache(s storage.Storage) *Cache {
	return &Cache{store: s}
}

// GetOrFill returns the cached text for key, calling fill and storing
// its result on a miss.  A fill error is returned as-is and nothing
// is cached.
func (c *Cache) GetOrFill(key string, fill func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.store.Get([]byte(key))
	if err != nil {
		return "", err
	}
	if v != nil {
		c.hits++
		return string(v), nil
	}

	text, err := fill()
	if err != nil {
		return "", err
	}
	c.misses++
	if err := c.store.Put([]byte(key), []byte(text)); err != nil {
		return "", err
	}
	return text, nil
}

// LogStats writes hit counters for one run.
func (c *Cache) LogStats(l hclog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l.Debug("srcinfo cache", "hits", c.hits, "misses", c.misses)
}
