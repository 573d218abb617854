// Package db is the persistence boundary of the skill progression core.
// The progression record is stored as one JSON document per player inside the
// externally owned player store; Store abstracts that store so tests run
// against memory and production against PostgreSQL.
package db

import "context"

// Store reads and writes raw progression records keyed by player id.
type Store interface {
	// LoadProgress returns the raw record bytes for a player.
	// found is false when no record exists yet.
	LoadProgress(ctx context.Context, playerID string) (raw []byte, found bool, err error)

	// SaveProgress writes the raw record bytes for a player.
	SaveProgress(ctx context.Context, playerID string, raw []byte) error
}
