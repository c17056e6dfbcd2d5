// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/blip/internal/campaign"
	"github.com/verte-zerg/blip/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and campaign data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			level INTEGER NOT NULL,
			score INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			false_taps INTEGER NOT NULL,
			total_targets INTEGER NOT NULL,
			trials INTEGER NOT NULL,
			rt_sum_ms INTEGER NOT NULL,
			rt_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_quarters (
			session_id INTEGER NOT NULL,
			quarter INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			false_taps INTEGER NOT NULL,
			targets INTEGER NOT NULL,
			rt_sum_ms INTEGER NOT NULL,
			rt_count INTEGER NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (session_id, quarter)
		);`,
		`CREATE TABLE IF NOT EXISTS campaign (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			level INTEGER NOT NULL,
			highest_level INTEGER NOT NULL,
			lives INTEGER NOT NULL,
			streak INTEGER NOT NULL,
			games_played INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS campaign_unlocks (
			id TEXT PRIMARY KEY,
			unlocked_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_kind ON sessions(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its quarter breakdown.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, quarters []model.QuarterRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, kind, mode, difficulty, level, score, hits, misses, false_taps, total_targets, trials, rt_sum_ms, rt_count, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Kind,
		rec.ModeID,
		rec.Difficulty,
		rec.Level,
		rec.Score,
		rec.Hits,
		rec.Misses,
		rec.FalseTaps,
		rec.TotalTargets,
		rec.Trials,
		rec.RTSumMs,
		rec.RTCount,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(quarters) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO session_quarters (session_id, quarter, hits, misses, false_taps, targets, rt_sum_ms, rt_count, score)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, q := range quarters {
			if _, err = stmt.ExecContext(ctx, id, q.Quarter, q.Hits, q.Misses, q.FalseTaps, q.Targets, q.RTSumMs, q.RTCount, q.Score); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest
// first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, cfg.Kind)
	}
	if cfg.ModeID != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.ModeID)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, kind, mode, difficulty, level, score, hits, misses, false_taps, total_targets, trials, rt_sum_ms, rt_count, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Kind, &agg.ModeID, &agg.Difficulty, &agg.Level, &agg.Score, &agg.Hits, &agg.Misses, &agg.FalseTaps, &agg.TotalTargets, &agg.Trials, &agg.RTSumMs, &agg.RTCount, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListQuarters returns the quarter breakdowns for the given sessions,
// keyed by session id and ordered by quarter.
func (s *Store) ListQuarters(ctx context.Context, sessionIDs []int64) (map[int64][]model.QuarterRecord, error) {
	if len(sessionIDs) == 0 {
		return map[int64][]model.QuarterRecord{}, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT session_id, quarter, hits, misses, false_taps, targets, rt_sum_ms, rt_count, score
		FROM session_quarters
		WHERE session_id IN (%s)
		ORDER BY session_id, quarter`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64][]model.QuarterRecord{}
	for rows.Next() {
		var sessionID int64
		var q model.QuarterRecord
		if err := rows.Scan(&sessionID, &q.Quarter, &q.Hits, &q.Misses, &q.FalseTaps, &q.Targets, &q.RTSumMs, &q.RTCount, &q.Score); err != nil {
			return nil, err
		}
		result[sessionID] = append(result[sessionID], q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadCampaign returns the persisted campaign state, or a fresh one when
// none has been saved yet.
func (s *Store) LoadCampaign(ctx context.Context) (campaign.State, error) {
	state := campaign.NewState()
	row := s.db.QueryRowContext(ctx,
		`SELECT level, highest_level, lives, streak, games_played FROM campaign WHERE id = 1`)
	err := row.Scan(&state.Level, &state.HighestLevel, &state.Lives, &state.Streak, &state.GamesPlayed)
	if err != nil && err != sql.ErrNoRows {
		return campaign.NewState(), err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM campaign_unlocks`)
	if err != nil {
		return campaign.NewState(), err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return campaign.NewState(), err
		}
		state.Unlocks[id] = true
	}
	if err := rows.Err(); err != nil {
		return campaign.NewState(), err
	}
	return state, nil
}

// SaveCampaign upserts the campaign row and adds any new unlocks. Unlock
// rows are never deleted.
func (s *Store) SaveCampaign(ctx context.Context, state campaign.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	now := time.Now().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO campaign (id, level, highest_level, lives, streak, games_played, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			level = excluded.level,
			highest_level = excluded.highest_level,
			lives = excluded.lives,
			streak = excluded.streak,
			games_played = excluded.games_played,
			updated_at = excluded.updated_at`,
		state.Level, state.HighestLevel, state.Lives, state.Streak, state.GamesPlayed, now)
	if err != nil {
		return err
	}
	for _, id := range state.UnlockedIDs() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO campaign_unlocks (id, unlocked_at) VALUES (?, ?)
			 ON CONFLICT(id) DO NOTHING`, id, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
