package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists progression records in the player_skill_progress table.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a PgStore on an existing pool.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

// Connect opens a pgx pool, pings it and returns a PgStore.
func Connect(ctx context.Context, dsn string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PgStore{db: pool}, nil
}

// Close closes the underlying pool.
func (s *PgStore) Close() {
	s.db.Close()
}

// LoadProgress loads the raw progression record for a player.
func (s *PgStore) LoadProgress(ctx context.Context, playerID string) ([]byte, bool, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT progress FROM player_skill_progress WHERE player_id = $1`,
		playerID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying skill progress for player %q: %w", playerID, err)
	}
	return raw, true, nil
}

// SaveProgress upserts the raw progression record for a player.
func (s *PgStore) SaveProgress(ctx context.Context, playerID string, raw []byte) error {
	query := `
		INSERT INTO player_skill_progress (player_id, progress, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (player_id)
		DO UPDATE SET progress = $2, updated_at = now()
	`

	if _, err := s.db.Exec(ctx, query, playerID, raw); err != nil {
		return fmt.Errorf("upserting skill progress for player %q: %w", playerID, err)
	}

	return nil
}
