// internal/store/memory.go
//
// In-memory implementation of the Games interface.
// Game sessions are short-lived and only need to survive for the length of
// a play-through, so they stay in process memory.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions older than the configured TTL are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/thywordle/internal/game"
)

// Games defines the persistence interface for game sessions.
type Games interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	// Returns ErrNotFound if the game is unknown.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update runs fn on the stored game while holding it exclusively.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error
}

// MemoryGames is an in-memory map-based Games implementation.
type MemoryGames struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryGames constructs a new in-memory game store.
func NewMemoryGames() *MemoryGames {
	return &MemoryGames{games: make(map[string]*game.Game)}
}

// Save adds or updates the game in the map.
func (m *MemoryGames) Save(_ context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// Get looks up a game by ID.
func (m *MemoryGames) Get(_ context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

// Update applies fn under the write lock so concurrent guesses on one game serialize.
func (m *MemoryGames) Update(_ context.Context, id string, fn func(g *game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

// Sweep removes games started before now-ttl and returns how many were dropped.
func (m *MemoryGames) Sweep(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.Started.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}
