package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProcessGuard serializes facet processing per product and suppresses rapid
// re-triggers. The in-memory implementation is process-local; a multi-instance
// deployment would swap in a shared store behind the same interface.
type ProcessGuard interface {
	// TryAcquire marks the key in-flight and records the trigger time.
	// Returns false if the key is already in-flight.
	TryAcquire(key uuid.UUID) bool
	Release(key uuid.UUID)
	// RecentlySeen reports whether the key was processed within the cooldown.
	RecentlySeen(key uuid.UUID) bool
}

type memoryGuard struct {
	mutex    sync.Mutex
	inFlight map[uuid.UUID]struct{}
	lastSeen map[uuid.UUID]time.Time
	cooldown time.Duration
}

func NewMemoryGuard(cooldown time.Duration) ProcessGuard {
	return &memoryGuard{
		inFlight: make(map[uuid.UUID]struct{}),
		lastSeen: make(map[uuid.UUID]time.Time),
		cooldown: cooldown,
	}
}

func (g *memoryGuard) TryAcquire(key uuid.UUID) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return false
	}
	g.inFlight[key] = struct{}{}
	g.lastSeen[key] = time.Now()
	return true
}

func (g *memoryGuard) Release(key uuid.UUID) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	delete(g.inFlight, key)
}

func (g *memoryGuard) RecentlySeen(key uuid.UUID) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	last, ok := g.lastSeen[key]
	return ok && time.Since(last) < g.cooldown
}
