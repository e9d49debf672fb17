package substrate

import (
	"sync"
	"time"

	"github.com/teranos/plaszyme/errors"
)

// ErrNoCatalog is returned by a Cache without a catalog path.
var ErrNoCatalog = errors.New("no substrate catalog configured")

// Cache loads the catalog file on first use and keeps it until invalidated.
// The zero value is not usable; create one with NewCache.
type Cache struct {
	path string

	mu       sync.RWMutex
	catalog  *Catalog
	loadedAt time.Time
}

// NewCache creates a cache for the catalog at path. An empty path yields a
// cache whose Get always returns ErrNoCatalog.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the catalog file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached catalog, loading it if needed. Load errors are not
// cached; the next Get retries.
func (c *Cache) Get() (*Catalog, error) {
	if c.path == "" {
		return nil, ErrNoCatalog
	}

	c.mu.RLock()
	cat := c.catalog
	c.mu.RUnlock()
	if cat != nil {
		return cat, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog != nil {
		return c.catalog, nil
	}

	cat, err := Load(c.path)
	if err != nil {
		return nil, err
	}
	c.catalog = cat
	c.loadedAt = time.Now()
	return cat, nil
}

// Invalidate drops the cached catalog so the next Get reloads the file.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = nil
}

// LoadedAt returns when the current catalog was loaded, zero if none is cached.
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.catalog == nil {
		return time.Time{}
	}
	return c.loadedAt
}
