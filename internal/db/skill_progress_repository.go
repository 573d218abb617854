package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/payday/internal/model"
)

// ValidationError marks a save attempt with an out-of-invariant record.
// A correctly constructed in-memory record can never trigger it, so it fails
// loudly: persisting an invalid record would corrupt player data irrecoverably.
type ValidationError struct {
	PlayerID string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid skill progress for player %q: %v", e.PlayerID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SkillProgressRepository loads and saves progression records.
//
// Persisted bytes are untrusted: they may come from an older schema or a
// partial prior write. Load therefore repairs defensively and heals the store
// by writing the repaired record back; Save validates strictly and writes
// nothing on rejection.
type SkillProgressRepository struct {
	store Store
	now   func() time.Time
}

// NewSkillProgressRepository creates a repository over a Store.
func NewSkillProgressRepository(store Store) *SkillProgressRepository {
	return &SkillProgressRepository{store: store, now: time.Now}
}

// NewSkillProgressRepositoryWithClock creates a repository with an injected
// clock for ledger pruning.
func NewSkillProgressRepositoryWithClock(store Store, now func() time.Time) *SkillProgressRepository {
	return &SkillProgressRepository{store: store, now: now}
}

// Load returns the player's progression record.
//
// A missing record is synthesized with defaults and written back, so every
// subsequent load sees a well-formed record. An existing record goes through
// the repair pass; if anything was repaired the healed record is written back
// immediately, otherwise the load is read-only.
func (r *SkillProgressRepository) Load(ctx context.Context, playerID string) (*model.SkillProgress, error) {
	raw, found, err := r.store.LoadProgress(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading skill progress for player %q: %w", playerID, err)
	}

	if !found {
		p := model.NewSkillProgress()
		if err := r.write(ctx, playerID, p); err != nil {
			return nil, fmt.Errorf("initializing skill progress for player %q: %w", playerID, err)
		}
		return p, nil
	}

	p, repaired := model.DecodeSkillProgress(raw, r.now())
	if repaired {
		slog.Warn("repaired corrupted skill progress", "playerID", playerID)
		if err := r.write(ctx, playerID, p); err != nil {
			return nil, fmt.Errorf("writing back repaired skill progress for player %q: %w", playerID, err)
		}
	}

	return p, nil
}

// Save validates the record and persists it. On validation failure nothing is
// written and a *ValidationError is returned.
func (r *SkillProgressRepository) Save(ctx context.Context, playerID string, p *model.SkillProgress) error {
	if err := p.Validate(); err != nil {
		slog.Error("rejected skill progress save", "playerID", playerID, "error", err)
		return &ValidationError{PlayerID: playerID, Err: err}
	}

	if err := r.write(ctx, playerID, p); err != nil {
		return fmt.Errorf("saving skill progress for player %q: %w", playerID, err)
	}

	return nil
}

func (r *SkillProgressRepository) write(ctx context.Context, playerID string, p *model.SkillProgress) error {
	raw, err := p.Encode()
	if err != nil {
		return err
	}
	return r.store.SaveProgress(ctx, playerID, raw)
}
