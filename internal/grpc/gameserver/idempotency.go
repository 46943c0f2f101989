package gameserver

import (
	"sync"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

const (
	idempotencyTTL        = 24 * time.Hour
	idempotencyMaxEntries = 1000
)

// idempotencyKey represents a composite key for idempotent requests.
// Each game owns its own manager, so the game is implied.
type idempotencyKey struct {
	Player         core.Color
	Method         string
	IdempotencyKey string
}

// idempotencyEntry stores a cached response with timestamp
type idempotencyEntry struct {
	response  *structpb.Struct
	createdAt time.Time
}

// IdempotencyManager handles idempotent request caching
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	mu    sync.RWMutex
	now   func() time.Time
}

// NewIdempotencyManager creates a new idempotency manager
func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		now:   time.Now,
	}
}

// Check returns a cached response if the idempotency key was already used by
// this player for this method
func (im *IdempotencyManager) Check(player core.Color, method, key string) *structpb.Struct {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{Player: player, Method: method, IdempotencyKey: key}]
	if !exists {
		return nil
	}
	if im.now().Sub(entry.createdAt) > idempotencyTTL {
		return nil
	}
	// Callers may mutate what they get back
	return proto.Clone(entry.response).(*structpb.Struct)
}

// Store caches a response for the given player, method and idempotency key
func (im *IdempotencyManager) Store(player core.Color, method, key string, resp *structpb.Struct) {
	if key == "" || resp == nil {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{Player: player, Method: method, IdempotencyKey: key}] = &idempotencyEntry{
		response:  proto.Clone(resp).(*structpb.Struct),
		createdAt: im.now(),
	}

	if len(im.cache) > idempotencyMaxEntries {
		im.cleanupOldEntriesLocked()
	}
}

// Len returns the number of cached responses
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked removes expired entries from the cache.
// Must be called with mu held.
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.now().Add(-idempotencyTTL)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
