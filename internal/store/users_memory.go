// internal/store/users_memory.go
//
// In-memory Users implementation.
// Responsibilities:
//   - Thread-safe user records keyed by uid, with case-insensitive email lookup.
//   - Monotonic stats saves and the ranked leaderboard.
//   - Password reset token storage.
//
// Notes:
//   - Used by tests and for local play; nothing survives a restart.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/thywordle/internal/stats"
)

// MemoryUsers keeps user records in process memory. Records are kept in
// insertion order so leaderboard ties resolve by arrival.
type MemoryUsers struct {
	mu     sync.RWMutex
	order  []string // uids in arrival order
	users  map[string]*User
	resets map[string]PasswordReset
	now    func() time.Time
}

// NewMemoryUsers returns an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		users:  make(map[string]*User),
		resets: make(map[string]PasswordReset),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryUsers) CreateUser(_ context.Context, u *User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.UID]; ok {
		return false, nil
	}
	if u.Email != "" && m.emailInUse(u.Email, "") {
		return false, ErrEmailTaken
	}
	cp := *u
	seedStats(&cp)
	cp.Stats = cp.Stats.Clone()
	now := m.now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	if cp.LastUpdated.IsZero() {
		cp.LastUpdated = now
	}
	m.users[cp.UID] = &cp
	m.order = append(m.order, cp.UID)
	return true, nil
}

func (m *MemoryUsers) GetUser(_ context.Context, uid string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryUsers) FindUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := lo.Find(lo.Values(m.users), func(u *User) bool {
		return u.Email != "" && strings.EqualFold(u.Email, email)
	})
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryUsers) UpdateProfile(_ context.Context, uid string, p ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return ErrNotFound
	}
	if p.Email != nil && *p.Email != "" && m.emailInUse(*p.Email, uid) {
		return ErrEmailTaken
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	u.LastUpdated = m.now()
	return nil
}

func (m *MemoryUsers) SetPasswordHash(_ context.Context, uid, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *MemoryUsers) SavePasswordReset(_ context.Context, r PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[r.UID]; !ok {
		return ErrNotFound
	}
	m.resets[r.TokenHash] = r
	return nil
}

func (m *MemoryUsers) ConsumePasswordReset(_ context.Context, tokenHash string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[tokenHash]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.resets, tokenHash)
	if now.After(r.ExpiresAt) {
		return "", ErrResetExpired
	}
	return r.UID, nil
}

func (m *MemoryUsers) LoadStats(_ context.Context, uid string) (*stats.GameStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, nil
	}
	s := u.Stats.Clone()
	return &s, nil
}

func (m *MemoryUsers) SaveStats(_ context.Context, uid string, s stats.GameStats, solution string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok || u.Stats.TotalGames >= s.TotalGames {
		return nil
	}
	u.Stats = s.Clone()
	u.LastSolution = solution
	u.LastUpdated = m.now()
	return nil
}

func (m *MemoryUsers) Leaderboard(_ context.Context, viewerID string) ([]LeaderboardEntry, error) {
	m.mu.RLock()
	users := lo.Map(m.order, func(uid string, _ int) User { return *m.users[uid] })
	m.mu.RUnlock()

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Stats.Score > users[j].Stats.Score
	})
	return rank(users, viewerID), nil
}

// emailInUse must be called with mu held.
func (m *MemoryUsers) emailInUse(email, exceptUID string) bool {
	for uid, u := range m.users {
		if uid != exceptUID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func copyUser(u *User) *User {
	cp := *u
	cp.Stats = u.Stats.Clone()
	return &cp
}
