package game

import (
	"sync"
	"time"

	"pairing-service/internal/models"
)

// SessionRegistry stores live sessions. Sessions expire via Sweep so
// the registry cannot grow without bound.
type SessionRegistry interface {
	Put(session *models.Session)
	Get(id string) (*models.Session, bool)
	Delete(id string)
	SessionsFor(connectionID string) []*models.Session
	Sweep(ttl time.Duration) int
	Len() int
}

// MemoryRegistry is a mutex-guarded in-memory SessionRegistry.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]*models.Session)}
}

func (r *MemoryRegistry) Put(session *models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

func (r *MemoryRegistry) Get(id string) (*models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *MemoryRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// SessionsFor returns every session the connection belongs to.
func (r *MemoryRegistry) SessionsFor(connectionID string) []*models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Session
	for _, session := range r.sessions {
		if session.HasMember(connectionID) {
			out = append(out, session)
		}
	}
	return out
}

// Sweep evicts sessions older than ttl and returns the eviction count.
func (r *MemoryRegistry) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, session := range r.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
