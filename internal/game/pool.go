package game

import (
	"sync"
	"time"

	"pairing-service/internal/models"
)

// WaitingPool is the registry of participants awaiting a match. An
// in-memory implementation backs a single instance; the interface keeps
// matchmaking logic free of the storage choice.
type WaitingPool interface {
	Add(entry models.WaitingEntry)
	Remove(connectionID string) (models.WaitingEntry, bool)
	Get(connectionID string) (models.WaitingEntry, bool)
	List() []models.WaitingEntry
	Waiting() []models.WaitingEntry
	MarkPaired(connectionIDs ...string)
	Sweep(maxAge time.Duration) int
	Len() int
}

// MemoryPool is a mutex-guarded in-memory WaitingPool.
type MemoryPool struct {
	mu      sync.RWMutex
	entries map[string]models.WaitingEntry
}

// NewMemoryPool creates an empty pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{entries: make(map[string]models.WaitingEntry)}
}

// Add inserts or replaces the entry for its connection.
func (p *MemoryPool) Add(entry models.WaitingEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[entry.ConnectionID] = entry
}

// Remove deletes the entry if present and returns it.
func (p *MemoryPool) Remove(connectionID string) (models.WaitingEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[connectionID]
	if ok {
		delete(p.entries, connectionID)
	}
	return entry, ok
}

// Get returns the entry for a connection.
func (p *MemoryPool) Get(connectionID string) (models.WaitingEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[connectionID]
	return entry, ok
}

// List returns every entry, waiting or paired.
func (p *MemoryPool) List() []models.WaitingEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.WaitingEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		out = append(out, entry)
	}
	return out
}

// Waiting returns only the entries still awaiting a match.
func (p *MemoryPool) Waiting() []models.WaitingEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.WaitingEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		if entry.Status == models.WaitingStatusWaiting {
			out = append(out, entry)
		}
	}
	return out
}

// MarkPaired flips the given connections to paired status.
func (p *MemoryPool) MarkPaired(connectionIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range connectionIDs {
		if entry, ok := p.entries[id]; ok {
			entry.Status = models.WaitingStatusPaired
			p.entries[id] = entry
		}
	}
}

// Sweep removes every entry older than maxAge, paired or not, and
// returns how many were dropped. Coarse liveness only.
func (p *MemoryPool) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for id, entry := range p.entries {
		if entry.JoinedAt.Before(cutoff) {
			delete(p.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries.
func (p *MemoryPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
