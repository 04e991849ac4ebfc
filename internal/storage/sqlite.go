// Package storage provides SQLite-based persistence for finished duels.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchResult is the recorded outcome of one finished duel.
type MatchResult struct {
	ID           int64     `json:"id"`
	MatchID      string    `json:"match_id"`
	SessionID    string    `json:"session_id"`
	Player1ID    string    `json:"player1_id"`
	Player1Name  string    `json:"player1_name"`
	Player1Score int       `json:"player1_score"`
	Player2ID    string    `json:"player2_id"`
	Player2Name  string    `json:"player2_name"`
	Player2Score int       `json:"player2_score"`
	WinnerID     string    `json:"winner_id,omitempty"` // Empty if nobody survived
	EndReason    string    `json:"end_reason"`
	Duration     int       `json:"duration_secs"` // Duration in seconds
	CreatedAt    time.Time `json:"created_at"`
}

// WinnerName returns the display name of the winner, or "" for no winner.
func (m MatchResult) WinnerName() string {
	switch m.WinnerID {
	case "":
		return ""
	case m.Player1ID:
		return m.Player1Name
	case m.Player2ID:
		return m.Player2Name
	}
	return ""
}

// ScoreEntry is one player's score in one match.
type ScoreEntry struct {
	MatchID    string    `json:"match_id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Won        bool      `json:"won"`
	CreatedAt  time.Time `json:"created_at"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			player1_id TEXT NOT NULL,
			player1_name TEXT NOT NULL,
			player1_score INTEGER NOT NULL DEFAULT 0,
			player2_id TEXT NOT NULL,
			player2_name TEXT NOT NULL,
			player2_score INTEGER NOT NULL DEFAULT 0,
			winner_id TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_session ON match_results(session_id);
		CREATE INDEX IF NOT EXISTS idx_match_results_player1 ON match_results(player1_name);
		CREATE INDEX IF NOT EXISTS idx_match_results_player2 ON match_results(player2_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished duel.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(m MatchResult) (int64, error) {
	var winner any
	if m.WinnerID != "" {
		winner = m.WinnerID
	}

	res, err := s.db.Exec(
		`INSERT INTO match_results
		 (match_id, session_id, player1_id, player1_name, player1_score,
		  player2_id, player2_name, player2_score, winner_id, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID,
		m.SessionID,
		m.Player1ID,
		m.Player1Name,
		m.Player1Score,
		m.Player2ID,
		m.Player2Name,
		m.Player2Score,
		winner,
		m.EndReason,
		m.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveMatch(MatchResult{
		MatchID:      data.MatchID,
		SessionID:    data.SessionID,
		Player1ID:    data.Player1ID,
		Player1Name:  data.Player1Name,
		Player1Score: data.Player1Score,
		Player2ID:    data.Player2ID,
		Player2Name:  data.Player2Name,
		Player2Score: data.Player2Score,
		WinnerID:     data.WinnerID,
		EndReason:    data.EndReason,
		Duration:     data.DurationSecs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

const matchColumns = `id, match_id, session_id, player1_id, player1_name, player1_score,
	player2_id, player2_name, player2_score, winner_id, end_reason, duration_secs, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchResult, error) {
	var m MatchResult
	var winner sql.NullString
	var createdAt any

	err := row.Scan(
		&m.ID,
		&m.MatchID,
		&m.SessionID,
		&m.Player1ID,
		&m.Player1Name,
		&m.Player1Score,
		&m.Player2ID,
		&m.Player2Name,
		&m.Player2Score,
		&winner,
		&m.EndReason,
		&m.Duration,
		&createdAt,
	)
	if err != nil {
		return MatchResult{}, err
	}

	if winner.Valid {
		m.WinnerID = winner.String
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// queryMatches runs a match_results query and scans every row.
func (s *Store) queryMatches(query string, args ...any) ([]MatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// MatchByID retrieves a match by its match ID.
// Returns nil without error when no such match exists.
func (s *Store) MatchByID(matchID string) (*MatchResult, error) {
	m, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM match_results WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+`
		 FROM match_results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerMatches retrieves the matches a player took part in, newest first.
// Players are identified by display name since ids are per connection.
func (s *Store) PlayerMatches(name string, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+`
		 FROM match_results
		 WHERE player1_name = ? OR player2_name = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		name, name, limit,
	)
}

// TopScores retrieves the best individual scores across all matches.
// Results are ordered by score descending.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT match_id, name, score, won, created_at FROM (
			SELECT id, match_id, player1_name AS name, player1_score AS score,
			       COALESCE(winner_id = player1_id, 0) AS won, created_at
			FROM match_results
			UNION ALL
			SELECT id, match_id, player2_name, player2_score,
			       COALESCE(winner_id = player2_id, 0), created_at
			FROM match_results
		 )
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.MatchID, &e.PlayerName, &e.Score, &e.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// PlayerStats contains aggregated results for one player name.
type PlayerStats struct {
	Name      string `json:"name"`
	Matches   int    `json:"matches"`
	Wins      int    `json:"wins"`
	HighScore int    `json:"high_score"`
}

// StatsForPlayer aggregates every match a player took part in.
func (s *Store) StatsForPlayer(name string) (*PlayerStats, error) {
	stats := &PlayerStats{Name: name}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE
		            WHEN player1_name = ? AND winner_id = player1_id THEN 1
		            WHEN player2_name = ? AND winner_id = player2_id THEN 1
		            ELSE 0 END), 0),
		        MAX(COALESCE(MAX(CASE WHEN player1_name = ? THEN player1_score END), 0),
		            COALESCE(MAX(CASE WHEN player2_name = ? THEN player2_score END), 0))
		 FROM match_results
		 WHERE player1_name = ? OR player2_name = ?`,
		name, name, name, name, name, name,
	).Scan(&stats.Matches, &stats.Wins, &stats.HighScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}

	return stats, nil
}
