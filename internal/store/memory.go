// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Sessions are volatile, process-lifetime state: losing them on restart is
// acceptable, completed game records are persisted separately.
//
// Characteristics:
//   - Stores *game.Session objects keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - ErrNotFound is returned for unknown session IDs on Get().
//   - Sweep() evicts sessions idle past a TTL; StartSweeper runs it on a
//     ticker in the background.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phrasehunt/go-server/internal/game"
)

// ErrNotFound is returned when a session ID is unknown to the store.
var ErrNotFound = errors.New("session not found")

// Store defines the session persistence interface.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete removes a session if present.
	Delete(ctx context.Context, id string)
}

// Memory is an in-memory map-based Store implementation. It also exposes
// Sweep/StartSweeper, which are not part of the Store interface.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

// NewMemoryStore constructs a new in-memory store.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]*game.Session)}
}

// Save adds or updates the session in the map.
func (m *Memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *Memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete removes a session if present.
func (m *Memory) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep evicts sessions whose last access is older than ttl and returns the
// number removed.
func (m *Memory) Sweep(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastAccess.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper evicts idle sessions every interval until the process exits.
func (m *Memory) StartSweeper(interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if n := m.Sweep(ttl); n > 0 {
				log.Info().Int("removed", n).Msg("swept idle sessions")
			}
		}
	}()
}
