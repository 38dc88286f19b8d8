package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"legalrag/internal/domain"
)

// AnswerCache remembers completed answers so that repeated questions skip
// retrieval and the model call entirely. Entries expire by TTL, are evicted
// LRU at capacity, and are invalidated wholesale when the corpus generation
// advances after a re-ingest.
type AnswerCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	gen     uint64
}

type cacheEntry struct {
	answer    string
	timestamp time.Time
	gen       uint64
}

func NewAnswerCache(maxSize int, ttl time.Duration) *AnswerCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(question string) string {
	hash := sha256.Sum256([]byte(question))
	return hex.EncodeToString(hash[:16])
}

func (c *AnswerCache) Get(question string) (string, bool) {
	c.mu.RLock()
	key := cacheKey(question)
	entry, exists := c.entries[key]
	currentGen := c.gen
	c.mu.RUnlock()

	if !exists {
		return "", false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.gen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return "", false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return entry.answer, true
}

func (c *AnswerCache) Put(question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(question)

	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{answer: answer, timestamp: time.Now(), gen: c.gen}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{answer: answer, timestamp: time.Now(), gen: c.gen}
	c.order = append(c.order, key)
}

// Invalidate drops all entries and bumps the generation so in-flight reads
// of old entries also miss.
func (c *AnswerCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.gen++
}

func (c *AnswerCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *AnswerCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *AnswerCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *AnswerCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Pipeline is the answering surface the cache decorates.
type Pipeline interface {
	Answer(ctx context.Context, question string) (string, error)
	Stats(ctx context.Context) (domain.CollectionStats, error)
}

// CachedPipeline serves repeated questions from the cache and delegates
// everything else. Stats are never cached.
type CachedPipeline struct {
	inner Pipeline
	cache *AnswerCache
}

func NewCachedPipeline(inner Pipeline, cache *AnswerCache) *CachedPipeline {
	return &CachedPipeline{inner: inner, cache: cache}
}

func (p *CachedPipeline) Answer(ctx context.Context, question string) (string, error) {
	if answer, hit := p.cache.Get(question); hit {
		return answer, nil
	}

	answer, err := p.inner.Answer(ctx, question)
	if err != nil {
		return "", err
	}

	p.cache.Put(question, answer)
	return answer, nil
}

func (p *CachedPipeline) Stats(ctx context.Context) (domain.CollectionStats, error) {
	return p.inner.Stats(ctx)
}

// Invalidate clears cached answers, typically after a re-ingest.
func (p *CachedPipeline) Invalidate() {
	p.cache.Invalidate()
}
