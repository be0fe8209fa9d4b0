package harness

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// Cache remembers passing test results on disk so unchanged tests can be
// skipped on the next run. Keys cover the test file content, the compiler
// argv and the revision, so any change invalidates the entry.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Key      string
	Passed   bool
	CachedAt time.Time
}

// OpenCache initializes a cache at the standard XDG location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheAt(filepath.Join(base, app))
}

// OpenCacheAt initializes a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Key derives the cache key for one test run.
func Key(content []byte, argv []string, revision string) string {
	h := sha256.New()
	h.Write(content)
	for _, a := range argv {
		h.Write([]byte{0})
		h.Write([]byte(a))
	}
	h.Write([]byte{0})
	h.Write([]byte(revision))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup reports whether a passing result is cached under key.
func (c *Cache) Lookup(key string) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}

	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return false
	}
	if payload.Schema != cacheSchemaVersion || payload.Key != key {
		return false
	}
	return payload.Passed
}

// Store records a passing result. Failures are never cached: they must be
// re-run so their reports stay visible.
func (c *Cache) Store(key string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := msgpack.Marshal(cachePayload{
		Schema:   cacheSchemaVersion,
		Key:      key,
		Passed:   true,
		CachedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path(key))
}

// Invalidate removes a cached entry if present.
func (c *Cache) Invalidate(key string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".msgpack")
}
