package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

// Hash returns a deterministic digest of the fields a summary is derived
// from. Identical inputs always yield identical output across restarts, so
// staleness is detectable by recomputing and comparing.
func Hash(ev event.PublicEvent) string {
	payload := strings.Join([]string{
		ev.Title,
		ev.Location,
		ev.StartAt.UTC().Format(time.RFC3339Nano),
		ev.EndAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	digest := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(digest[:])
}

type cacheEntry struct {
	hash string
	text string
}

// Cache is a content-addressed summary cache keyed by event id. It has no
// expiry, no size bound, and no persistence; entries live until invalidated
// or overwritten.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached text only when an entry exists for the id and its
// stored hash equals currentHash. Stale text is never returned.
func (c *Cache) Get(eventID, currentHash string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[eventID]
	if !ok || entry.hash != currentHash {
		return "", false
	}
	return entry.text, true
}

// Set unconditionally overwrites any prior entry for the id.
func (c *Cache) Set(eventID, hash, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[eventID] = cacheEntry{hash: hash, text: text}
}

// Invalidate removes any entry for the id. Idempotent on absence.
func (c *Cache) Invalidate(eventID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, eventID)
}
