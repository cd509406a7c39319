// Package storage keeps the client's local SQLite file: the last good
// leaderboard and a few preferences.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vovakirdan/netpong/internal/leaderboard"
)

// Preference keys.
const (
	PrefPlayerName = "player_name"
	PrefSound      = "sound"
)

const metaFetchedAt = "leaderboard_fetched_at"

// ErrClosed is returned by every operation on a closed Store.
var ErrClosed = errors.New("storage: closed")

// Store is the local cache database.
type Store struct {
	db *sql.DB
}

var _ leaderboard.Cache = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard_cache (
	rank           INTEGER PRIMARY KEY,
	player_name    TEXT    NOT NULL,
	total_wins     INTEGER NOT NULL DEFAULT 0,
	total_matches  INTEGER NOT NULL DEFAULT 0,
	win_rate       REAL    NOT NULL DEFAULT 0,
	total_score    INTEGER NOT NULL DEFAULT 0,
	avg_latency_ms REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Open opens the cache database at path, creating it and its directory on
// first use. A leading ~ is the user's home directory.
func Open(path string) (*Store, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// One writer; the TUI and the SSH sessions share this handle.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: init %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

func resolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("storage: create %s: %w", dir, err)
		}
	}
	return path, nil
}

// Close releases the database. It is safe on a nil or closed store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveLeaderboard replaces the cached leaderboard with entries.
func (s *Store) SaveLeaderboard(entries []leaderboard.Entry, fetchedAt time.Time) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM leaderboard_cache"); err != nil {
		return fmt.Errorf("storage: cannot clear leaderboard: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO leaderboard_cache
			(rank, player_name, total_wins, total_matches, win_rate, total_score, avg_latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(i+1, e.PlayerName, e.TotalWins, e.TotalMatches, e.WinRate, e.TotalScore, e.AvgLatencyMs); err != nil {
			return fmt.Errorf("storage: cannot save leaderboard row: %w", err)
		}
	}

	if err := setKV(tx, metaFetchedAt, fmt.Sprint(fetchedAt.UnixMilli())); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit leaderboard: %w", err)
	}
	return nil
}

// Leaderboard returns up to limit cached entries in rank order and the time
// they were fetched. A zero time means nothing was ever cached.
func (s *Store) Leaderboard(limit int) ([]leaderboard.Entry, time.Time, error) {
	if s.db == nil {
		return nil, time.Time{}, ErrClosed
	}
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}

	var at time.Time
	raw, err := s.get(metaFetchedAt)
	if err != nil {
		return nil, at, err
	}
	if raw != "" {
		var ms int64
		if _, err := fmt.Sscan(raw, &ms); err == nil {
			at = time.UnixMilli(ms)
		}
	}

	rows, err := s.db.Query(`
		SELECT player_name, total_wins, total_matches, win_rate, total_score, avg_latency_ms
		FROM leaderboard_cache
		ORDER BY rank
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, at, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.PlayerName, &e.TotalWins, &e.TotalMatches, &e.WinRate, &e.TotalScore, &e.AvgLatencyMs); err != nil {
			return nil, at, fmt.Errorf("storage: cannot scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, at, fmt.Errorf("storage: error iterating leaderboard: %w", err)
	}

	return entries, at, nil
}

// SetPref stores a preference value.
func (s *Store) SetPref(key, value string) error {
	if s.db == nil {
		return ErrClosed
	}
	return setKV(s.db, key, value)
}

// Pref returns a preference value, or def when unset.
func (s *Store) Pref(key, def string) (string, error) {
	v, err := s.get(key)
	if err != nil {
		return def, err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setKV(db execer, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot store %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	if s.db == nil {
		return "", ErrClosed
	}
	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return v, nil
}
