package base

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/termfx/jsxlint/syntax"
)

// ASTCache is a lock-free cache for lowered files (shared across all providers)
type ASTCache struct {
	cache       sync.Map // Lock-free concurrent map
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	maxAge      time.Duration
	cleanupOnce sync.Once // Ensures only one cleanup goroutine runs
}

// CachedAST holds a lowered file with metadata
type CachedAST struct {
	file      *syntax.File
	timestamp time.Time
	hitCount  atomic.Int32
}

// GlobalCache is the singleton cache instance shared across all providers
var GlobalCache = NewASTCache(5 * time.Minute)

// NewASTCache creates a cache whose entries expire after maxAge.
func NewASTCache(maxAge time.Duration) *ASTCache {
	return &ASTCache{maxAge: maxAge}
}

// Get returns the cached file for source under language, if fresh.
func (c *ASTCache) Get(language string, source []byte) (*syntax.File, bool) {
	key := c.hash(language, source)

	if cached, ok := c.cache.Load(key); ok {
		ast := cached.(*CachedAST)
		if time.Since(ast.timestamp) <= c.maxAge {
			c.hits.Add(1)
			ast.hitCount.Add(1)
			return ast.file, true
		}
		c.cache.Delete(key)
		c.evictions.Add(1)
	}

	c.misses.Add(1)
	return nil, false
}

// Put stores a lowered file. Files are never mutated after lowering, so the
// same value may be shared between callers.
func (c *ASTCache) Put(language string, source []byte, f *syntax.File) {
	c.cache.Store(c.hash(language, source), &CachedAST{file: f, timestamp: time.Now()})

	// Start single cleanup goroutine on first store
	c.cleanupOnce.Do(func() {
		go c.cleanupOldEntries()
	})
}

// hash generates SHA256 for language and source
func (c *ASTCache) hash(language string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// cleanupOldEntries removes expired entries
func (c *ASTCache) cleanupOldEntries() {
	interval := c.maxAge
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		<-ticker.C
		c.pruneExpired()
	}
}

func (c *ASTCache) pruneExpired() {
	now := time.Now()
	c.cache.Range(func(key, value any) bool {
		ast := value.(*CachedAST)
		if now.Sub(ast.timestamp) > c.maxAge {
			c.cache.Delete(key)
			c.evictions.Add(1)
		}
		return true
	})
}

// Stats returns cache statistics
func (c *ASTCache) Stats() map[string]int64 {
	return map[string]int64{
		"hits":      c.hits.Load(),
		"misses":    c.misses.Load(),
		"evictions": c.evictions.Load(),
		"hit_rate":  c.hits.Load() * 100 / (c.hits.Load() + c.misses.Load() + 1),
	}
}
