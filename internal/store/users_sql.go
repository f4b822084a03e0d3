// internal/store/users_sql.go
//
// SQL Users implementation for SQLite and PostgreSQL.
// Responsibilities:
//   - User CRUD with unique uid/email enforced by the schema.
//   - Stats saved with a single conditional UPDATE so stale writes are no-ops.
//   - Leaderboard ordered by score, ties by sign-up order.
//   - Password reset tokens consumed in a transaction.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/robalobadob/thywordle/internal/database"
	"github.com/robalobadob/thywordle/internal/stats"
)

// SQLUsers stores users in the users table of a migrated database.
type SQLUsers struct {
	db  *database.DB
	now func() time.Time
}

func NewSQLUsers(db *database.DB) *SQLUsers {
	return &SQLUsers{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const userColumns = `uid, name, email, auth_provider, photo_url, password_hash,
	created_at, last_updated, last_solution,
	avg_num_guesses, best_streak, current_streak, games_failed, score, success_rate, total_games, win_distribution`

func (s *SQLUsers) CreateUser(ctx context.Context, u *User) (bool, error) {
	cp := *u
	seedStats(&cp)
	now := s.now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	if cp.LastUpdated.IsZero() {
		cp.LastUpdated = now
	}
	dist, err := json.Marshal(cp.Stats.WinDistribution)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, s.db.Rebind(`SELECT 1 FROM users WHERE uid=?`), cp.UID).Scan(&one)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("lookup user: %w", err)
	}
	if cp.Email != "" {
		err = tx.QueryRowContext(ctx, s.db.Rebind(`SELECT 1 FROM users WHERE lower(email)=lower(?)`), cp.Email).Scan(&one)
		if err == nil {
			return false, ErrEmailTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("lookup email: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, s.db.Rebind(`INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		cp.UID, cp.Name, nullString(cp.Email), cp.AuthProvider, cp.PhotoURL, cp.PasswordHash,
		formatTime(cp.CreatedAt), formatTime(cp.LastUpdated), cp.LastSolution,
		cp.Stats.AvgNumGuesses, cp.Stats.BestStreak, cp.Stats.CurrentStreak, cp.Stats.GamesFailed,
		cp.Stats.Score, cp.Stats.SuccessRate, cp.Stats.TotalGames, string(dist))
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrEmailTaken
		}
		return false, fmt.Errorf("insert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLUsers) GetUser(ctx context.Context, uid string) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE uid=?`), uid)
	return scanUser(row)
}

func (s *SQLUsers) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE lower(email)=lower(?)`), email)
	return scanUser(row)
}

func (s *SQLUsers) UpdateProfile(ctx context.Context, uid string, p ProfileUpdate) error {
	u, err := s.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	if p.Email != nil && *p.Email != "" {
		var other string
		err := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT uid FROM users WHERE lower(email)=lower(?)`), *p.Email).Scan(&other)
		if err == nil && other != uid {
			return ErrEmailTaken
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lookup email: %w", err)
		}
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
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`UPDATE users SET name=?, email=?, photo_url=?, last_updated=? WHERE uid=?`),
		u.Name, nullString(u.Email), u.PhotoURL, formatTime(s.now()), uid)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *SQLUsers) SetPasswordHash(ctx context.Context, uid, hash string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE users SET password_hash=? WHERE uid=?`), hash, uid)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLUsers) SavePasswordReset(ctx context.Context, r PasswordReset) error {
	if _, err := s.GetUser(ctx, r.UID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO password_resets (token_hash, uid, expires_at) VALUES (?, ?, ?)`),
		r.TokenHash, r.UID, formatTime(r.ExpiresAt))
	return err
}

func (s *SQLUsers) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var uid, expires string
	err = tx.QueryRowContext(ctx, s.db.Rebind(`SELECT uid, expires_at FROM password_resets WHERE token_hash=?`), tokenHash).
		Scan(&uid, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM password_resets WHERE token_hash=?`), tokenHash); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	exp, err := parseTime(expires)
	if err != nil {
		return "", err
	}
	if now.After(exp) {
		return "", ErrResetExpired
	}
	return uid, nil
}

func (s *SQLUsers) LoadStats(ctx context.Context, uid string) (*stats.GameStats, error) {
	u, err := s.GetUser(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u.Stats, nil
}

/**
 * SaveStats stores st for uid only if it is newer than what is stored.
 *
 * - The guard (total_games < incoming) is part of the UPDATE itself.
 * - last_updated and last_solution change only when the row is written.
 */
func (s *SQLUsers) SaveStats(ctx context.Context, uid string, st stats.GameStats, solution string) error {
	dist, err := json.Marshal(st.Clone().WinDistribution)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`UPDATE users SET
		avg_num_guesses=?, best_streak=?, current_streak=?, games_failed=?, score=?, success_rate=?,
		total_games=?, win_distribution=?, last_solution=?, last_updated=?
		WHERE uid=? AND total_games < ?`),
		st.AvgNumGuesses, st.BestStreak, st.CurrentStreak, st.GamesFailed, st.Score, st.SuccessRate,
		st.TotalGames, string(dist), solution, formatTime(s.now()),
		uid, st.TotalGames)
	return err
}

/**
 * Leaderboard returns every player ranked by score.
 *
 * - Ties keep sign-up order (seq).
 * - The viewer's row, if present, is highlighted.
 */
func (s *SQLUsers) Leaderboard(ctx context.Context, viewerID string) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY score DESC, seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rank(users, viewerID), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var (
		u                User
		email            sql.NullString
		created, updated string
		dist             string
	)
	err := row.Scan(&u.UID, &u.Name, &email, &u.AuthProvider, &u.PhotoURL, &u.PasswordHash,
		&created, &updated, &u.LastSolution,
		&u.Stats.AvgNumGuesses, &u.Stats.BestStreak, &u.Stats.CurrentStreak, &u.Stats.GamesFailed,
		&u.Stats.Score, &u.Stats.SuccessRate, &u.Stats.TotalGames, &dist)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Email = email.String
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if u.LastUpdated, err = parseTime(updated); err != nil {
		return nil, err
	}
	u.Stats.WinDistribution = map[int]int{}
	if err := json.Unmarshal([]byte(dist), &u.Stats.WinDistribution); err != nil {
		return nil, fmt.Errorf("decode win distribution: %w", err)
	}
	return &u, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
