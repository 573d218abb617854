package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/udisondev/payday/internal/data"
)

// StarEvent is one entry in the star earning ledger.
type StarEvent struct {
	Timestamp string `json:"timestamp"` // ISO-8601
	Source    string `json:"source"`
	Amount    int    `json:"amount"`
}

// SkillProgress is a player's skill and star progression record.
//
// Invariants (hold after every successful operation):
//   - StarBalance >= 0, TotalStarsSpent >= 0
//   - every Skills key exists in the catalog, levels within [1,10]
//   - StarHistory holds at most 10 entries, none older than 30 days
//
// Persisted as one JSON object inside the externally owned player document.
// This file is the only (de)serialization boundary for the record.
type SkillProgress struct {
	StarBalance         int            `json:"star_balance"`
	Skills              map[string]int `json:"skills"`
	TotalStarsSpent     int            `json:"total_stars_spent"`
	LastMonthlyAwardDay int            `json:"last_monthly_award_day"`
	LastResetDay        int            `json:"last_reset_day"`
	MilestonesClaimed   []string       `json:"milestones_claimed"`
	StarHistory         []StarEvent    `json:"star_history"`
}

// defaultLastResetDay lets a fresh player reset immediately: day 0 minus the
// full cooldown.
const defaultLastResetDay = -data.ResetCooldownDays

// NewSkillProgress returns the default record for a new player:
// every catalog skill at level 1, zero stars, empty history.
func NewSkillProgress() *SkillProgress {
	return &SkillProgress{
		Skills:            data.DefaultSkillLevels(),
		LastResetDay:      defaultLastResetDay,
		MilestonesClaimed: []string{},
		StarHistory:       []StarEvent{},
	}
}

// Encode serializes the record for persistence.
func (p *SkillProgress) Encode() ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding skill progress: %w", err)
	}
	return raw, nil
}

// Validate checks the record invariants before a save.
// A record produced by this package can never fail validation; a failure
// indicates a caller bug.
func (p *SkillProgress) Validate() error {
	if p.StarBalance < 0 {
		return fmt.Errorf("negative star balance: %d", p.StarBalance)
	}
	if p.TotalStarsSpent < 0 {
		return fmt.Errorf("negative total stars spent: %d", p.TotalStarsSpent)
	}
	for skillID, level := range p.Skills {
		if data.GetSkillNode(skillID) == nil {
			return fmt.Errorf("unknown skill id %q", skillID)
		}
		if !data.ValidSkillLevel(level) {
			return fmt.Errorf("skill %q level %d out of range [%d,%d]",
				skillID, level, data.MinSkillLevel, data.MaxSkillLevel)
		}
	}
	return nil
}

// HasMilestone reports whether a milestone key has already been claimed.
func (p *SkillProgress) HasMilestone(key string) bool {
	for _, claimed := range p.MilestonesClaimed {
		if claimed == key {
			return true
		}
	}
	return false
}

// ClaimMilestone records a milestone key. The claimed set is append-only.
func (p *SkillProgress) ClaimMilestone(key string) {
	p.MilestonesClaimed = append(p.MilestonesClaimed, key)
}

// AddStarEvent appends a ledger entry and re-applies the history bounds.
func (p *SkillProgress) AddStarEvent(source string, amount int, now time.Time) {
	p.StarHistory = append(p.StarHistory, StarEvent{
		Timestamp: now.Format(time.RFC3339),
		Source:    source,
		Amount:    amount,
	})
	p.PruneStarHistory(now)
}

// PruneStarHistory drops entries older than 30 days or with unparseable
// timestamps, then truncates to the 10 most recent entries.
// Returns true if anything was removed.
func (p *SkillProgress) PruneStarHistory(now time.Time) bool {
	changed := false
	kept := p.StarHistory[:0]
	for _, ev := range p.StarHistory {
		ts, err := parseEventTime(ev.Timestamp)
		if err != nil || now.Sub(ts) >= data.StarHistoryMaxAgeDays*24*time.Hour {
			changed = true
			continue
		}
		kept = append(kept, ev)
	}
	if len(kept) > data.StarHistoryLimit {
		kept = kept[len(kept)-data.StarHistoryLimit:]
		changed = true
	}
	p.StarHistory = kept
	return changed
}

// RecentStarEvents returns up to limit ledger entries, most recent first.
func (p *SkillProgress) RecentStarEvents(limit int) []StarEvent {
	n := len(p.StarHistory)
	if limit > n {
		limit = n
	}
	out := make([]StarEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, p.StarHistory[i])
	}
	return out
}

// parseEventTime accepts RFC3339 timestamps and the zone-less variant written
// by the pre-migration schema.
func parseEventTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
