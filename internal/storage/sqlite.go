// Package storage provides SQLite-based persistence for play results and
// saved games. Uses the pure-Go modernc.org/sqlite driver to avoid CGO.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-slide/internal/sim"
)

// LocalPlayer names results and saves made from the local terminal.
const LocalPlayer = "local"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Result is one finished game.
type Result struct {
	ID        int64     `json:"id"`
	LevelID   string    `json:"level_id"`
	Player    string    `json:"player"`
	Won       bool      `json:"won"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
}

// LevelStats aggregates the results of one level.
type LevelStats struct {
	LevelID    string
	Plays      int
	Wins       int
	BestTurns  int // 0 when the level was never won
	LastPlayed time.Time
}

// SavedGame is an in-progress game stored as its action log.
type SavedGame struct {
	LevelID   string
	Player    string
	Actions   []sim.Action
	UpdatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT 'local',
			won INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_level ON results(level_id);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(level_id, won, turns);

		CREATE TABLE IF NOT EXISTS saves (
			level_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT 'local',
			actions TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (level_id, player)
		);
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

// SaveResult records a finished game and returns its ID.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.Player == "" {
		r.Player = LocalPlayer
	}
	res, err := s.db.Exec(
		"INSERT INTO results (level_id, player, won, turns) VALUES (?, ?, ?, ?)",
		r.LevelID, r.Player, r.Won, r.Turns,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// BestResults returns the winning results for a level, fewest turns first.
func (s *Store) BestResults(levelID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, player, won, turns, created_at
		 FROM results
		 WHERE level_id = ? AND won = 1
		 ORDER BY turns ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r         Result
			createdAt any
		)
		if err := rows.Scan(&r.ID, &r.LevelID, &r.Player, &r.Won, &r.Turns, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// LevelStats retrieves aggregated statistics for a level.
// A level without results yields zero stats, not an error.
func (s *Store) LevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var (
		best       sql.NullInt64
		lastPlayed any
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0),
		        MIN(CASE WHEN won = 1 THEN turns END), MAX(created_at)
		 FROM results WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Plays, &stats.Wins, &best, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	if best.Valid {
		stats.BestTurns = int(best.Int64)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllLevelStats retrieves statistics for every level that has been played.
func (s *Store) AllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), COALESCE(SUM(won), 0),
		        MIN(CASE WHEN won = 1 THEN turns END), MAX(created_at)
		 FROM results
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*LevelStats)
	for rows.Next() {
		var (
			st         LevelStats
			best       sql.NullInt64
			lastPlayed any
		)
		if err := rows.Scan(&st.LevelID, &st.Plays, &st.Wins, &best, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		if best.Valid {
			st.BestTurns = int(best.Int64)
		}
		st.LastPlayed = parseTime(lastPlayed)
		out[st.LevelID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearResults deletes all results for the given level.
func (s *Store) ClearResults(levelID string) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE level_id = ?", levelID); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// SaveGame stores the action log of an unfinished game, replacing any
// earlier save of the same player on the same level.
func (s *Store) SaveGame(g SavedGame) error {
	if g.Player == "" {
		g.Player = LocalPlayer
	}
	actions := g.Actions
	if actions == nil {
		actions = []sim.Action{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("storage: cannot encode actions: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saves (level_id, player, actions, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (level_id, player)
		 DO UPDATE SET actions = excluded.actions, updated_at = CURRENT_TIMESTAMP`,
		g.LevelID, g.Player, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// LoadGame returns the saved game for a level and player.
// Returns nil without error if nothing is saved.
func (s *Store) LoadGame(levelID, player string) (*SavedGame, error) {
	if player == "" {
		player = LocalPlayer
	}

	var (
		g         = SavedGame{LevelID: levelID, Player: player}
		data      string
		updatedAt any
	)
	err := s.db.QueryRow(
		"SELECT actions, updated_at FROM saves WHERE level_id = ? AND player = ?",
		levelID, player,
	).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saved game: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &g.Actions); err != nil {
		return nil, fmt.Errorf("storage: cannot decode saved game %s: %w", levelID, err)
	}
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}

// DeleteGame removes a saved game. Deleting a missing save is not an error.
func (s *Store) DeleteGame(levelID, player string) error {
	if player == "" {
		player = LocalPlayer
	}
	if _, err := s.db.Exec("DELETE FROM saves WHERE level_id = ? AND player = ?", levelID, player); err != nil {
		return fmt.Errorf("storage: cannot delete saved game: %w", err)
	}
	return nil
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

// Restore replays the saved actions on a fresh board of spec.
func (g *SavedGame) Restore(spec sim.LevelSpec, opts ...sim.Option) (*sim.Board, error) {
	b, err := sim.Replay(spec, g.Actions, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: restore %s: %w", g.LevelID, err)
	}
	return b, nil
}
