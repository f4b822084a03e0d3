// internal/store/users.go
//
// User records, stats persistence and the leaderboard.
//
// The Users interface is the boundary the rest of the server talks to; it has
// an in-memory implementation (tests, local play) and a SQL one (SQLite or
// PostgreSQL). Both enforce the same rules:
//   - CreateUser never overwrites an existing record.
//   - SaveStats only advances: it is a no-op unless the incoming totalGames is
//     greater than the stored one.
//   - Leaderboard orders by score descending; ties keep arrival order.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/thywordle/internal/stats"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrResetExpired = errors.New("password reset expired")
)

// Auth providers recorded on user records.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User mirrors one document of the users collection.
type User struct {
	UID          string          `json:"uid"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AuthProvider string          `json:"authProvider"`
	PhotoURL     string          `json:"photoURL"`
	PasswordHash string          `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastUpdated  time.Time       `json:"lastUpdated"`
	LastSolution string          `json:"lastSolution"`
	Stats        stats.GameStats `json:"stats"`
}

// EntryStats is the streak summary shown next to a leaderboard entry.
type EntryStats struct {
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
	SuccessRate   int `json:"successRate"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	UID         string     `json:"uid"`
	Rank        int        `json:"rank"`
	Name        string     `json:"name"`
	AvgGuesses  float64    `json:"avgGuesses"`
	Points      int        `json:"points"`
	Stats       EntryStats `json:"stats"`
	Highlighted bool       `json:"highlightedUser"`
}

// ProfileUpdate carries the profile fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	PhotoURL *string
}

// PasswordReset is a pending reset; only the token hash is stored.
type PasswordReset struct {
	TokenHash string
	UID       string
	ExpiresAt time.Time
}

// Users is the user record store.
type Users interface {
	// CreateUser inserts u unless a record with u.UID exists; reports whether it inserted.
	// A nil win distribution is stored as an empty one.
	CreateUser(ctx context.Context, u *User) (bool, error)
	GetUser(ctx context.Context, uid string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, uid string, p ProfileUpdate) error
	SetPasswordHash(ctx context.Context, uid, hash string) error

	SavePasswordReset(ctx context.Context, r PasswordReset) error
	// ConsumePasswordReset deletes the reset and returns its uid.
	// ErrNotFound for unknown tokens, ErrResetExpired once past ExpiresAt.
	ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (string, error)

	// LoadStats returns nil, nil when the user has no record.
	LoadStats(ctx context.Context, uid string) (*stats.GameStats, error)
	// SaveStats overwrites stats and lastSolution when s.TotalGames is greater
	// than the stored value; otherwise, or without a record, it does nothing.
	SaveStats(ctx context.Context, uid string, s stats.GameStats, solution string) error
	// Leaderboard ranks every user by score; viewerID may be empty.
	Leaderboard(ctx context.Context, viewerID string) ([]LeaderboardEntry, error)
}

// rank assigns 1-based ranks to users already in leaderboard order.
func rank(users []User, viewerID string) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{
			UID:        u.UID,
			Rank:       i + 1,
			Name:       u.Name,
			AvgGuesses: u.Stats.AvgNumGuesses,
			Points:     u.Stats.Score,
			Stats: EntryStats{
				CurrentStreak: u.Stats.CurrentStreak,
				BestStreak:    u.Stats.BestStreak,
				SuccessRate:   u.Stats.SuccessRate,
			},
			Highlighted: viewerID != "" && u.UID == viewerID,
		})
	}
	return out
}

func seedStats(u *User) {
	if u.Stats.WinDistribution == nil {
		u.Stats.WinDistribution = map[int]int{}
	}
}
