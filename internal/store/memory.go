// internal/store/memory.go
//
// In-memory session store for live herding games.
// Game state is never written to disk; a restart drops every session.
//
// Characteristics:
//   - Stores *Session values keyed by game ID in a map.
//   - The map is guarded by an RWMutex; each Session carries its own mutex so
//     commands against one game are serialised without blocking others.
//   - Get returns ErrNotFound for unknown IDs.
//   - Sweep drops sessions nobody has touched since a cutoff, so abandoned
//     games do not pile up for the life of the process.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/herding/internal/game"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("not found")

// Session wraps a live game with ownership metadata.
type Session struct {
	mu sync.Mutex

	Game      *game.Game
	OwnerID   string // anonymous cookie id of the creator
	UserID    string // account id of the creator, empty for guests
	DailyDate string // "YYYY-MM-DD" for daily herds, empty otherwise
	StartedAt time.Time
	Recorded  bool // finished result already persisted

	lastActive time.Time // guarded by mu
}

// Do runs fn while holding the session lock and marks the session active.
func (s *Session) Do(fn func(g *game.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return fn(s.Game)
}

// idleSince reports whether the session was last used before cutoff.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive.Before(cutoff)
}

// Store defines the session lookup used by the HTTP layer.
type Store interface {
	// Save adds or replaces a session, keyed by its game ID.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep deletes every session idle since before cutoff and returns
	// how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.Game == nil {
		return errors.New("store: session without game")
	}
	s.mu.Lock()
	if s.lastActive.IsZero() {
		s.lastActive = time.Now()
	}
	s.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Game.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if err := m.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
