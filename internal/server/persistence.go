package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"endofline-server/internal/game"
)

// MatchArchive is a write-behind record of finished matches. Live session
// state never touches the database; handlers only read process memory.
type MatchArchive struct {
	pool *pgxpool.Pool
}

// MatchRecord summarizes one finished session.
type MatchRecord struct {
	SessionID   string
	CreatedAt   time.Time
	EndedAt     time.Time
	PeakPlayers int
	Territories []game.Territory
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS match_archive (
	session_id   TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	ended_at     TIMESTAMPTZ NOT NULL,
	peak_players INT NOT NULL,
	territories  JSONB NOT NULL
)`

// NewMatchArchive connects to the database and ensures the schema exists.
func NewMatchArchive(ctx context.Context, databaseURL string) (*MatchArchive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if _, err := pool.Exec(ctx, archiveSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure archive schema: %w", err)
	}

	return &MatchArchive{pool: pool}, nil
}

// RecordMatch inserts one finished match.
func (a *MatchArchive) RecordMatch(ctx context.Context, record MatchRecord) error {
	territories, err := json.Marshal(record.Territories)
	if err != nil {
		return fmt.Errorf("failed to serialize territories: %w", err)
	}

	_, err = a.pool.Exec(ctx, `
		INSERT INTO match_archive (session_id, created_at, ended_at, peak_players, territories)
		VALUES ($1, $2, $3, $4, $5)`,
		record.SessionID,
		record.CreatedAt,
		record.EndedAt,
		record.PeakPlayers,
		territories,
	)
	if err != nil {
		return fmt.Errorf("failed to archive match %s: %w", record.SessionID, err)
	}
	return nil
}

// LoadMatches returns the most recent archived matches, newest first.
func (a *MatchArchive) LoadMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT session_id, created_at, ended_at, peak_players, territories
		FROM match_archive
		ORDER BY ended_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var record MatchRecord
		var territories []byte
		if err := rows.Scan(&record.SessionID, &record.CreatedAt, &record.EndedAt,
			&record.PeakPlayers, &territories); err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}
		if err := json.Unmarshal(territories, &record.Territories); err != nil {
			return nil, fmt.Errorf("failed to decode territories for %s: %w", record.SessionID, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CleanupOldMatches deletes matches that ended before the retention
// window and reports how many were removed.
func (a *MatchArchive) CleanupOldMatches(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := a.pool.Exec(ctx, `
		DELETE FROM match_archive WHERE ended_at < $1`,
		time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up archive: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the connection pool.
func (a *MatchArchive) Close() {
	a.pool.Close()
}
