package model

import (
	"encoding/json"
	"time"

	"github.com/udisondev/payday/internal/data"
)

// rawSkillProgress defers field decoding so a single corrupt field cannot
// poison the whole record.
type rawSkillProgress struct {
	StarBalance         json.RawMessage `json:"star_balance"`
	Skills              json.RawMessage `json:"skills"`
	TotalStarsSpent     json.RawMessage `json:"total_stars_spent"`
	LastMonthlyAwardDay json.RawMessage `json:"last_monthly_award_day"`
	LastResetDay        json.RawMessage `json:"last_reset_day"`
	MilestonesClaimed   json.RawMessage `json:"milestones_claimed"`
	StarHistory         json.RawMessage `json:"star_history"`
}

// DecodeSkillProgress parses untrusted persisted bytes into a well-formed
// record, repairing any corruption:
//
//   - unparseable document or fields -> defaults
//   - out-of-range levels clamped into [1,10]
//   - unknown skill ids dropped, missing catalog skills inserted at level 1
//   - negative balance / total spent floored to 0
//   - malformed milestone / history lists coerced to empty
//   - history entries pruned (>30 days, bad timestamps) and capped at 10
//
// The second return value reports whether any repair was applied, so the
// caller can write the healed record back. The returned record always
// satisfies Validate.
func DecodeSkillProgress(raw []byte, now time.Time) (*SkillProgress, bool) {
	var fields rawSkillProgress
	if err := json.Unmarshal(raw, &fields); err != nil {
		return NewSkillProgress(), true
	}

	p := &SkillProgress{}
	repaired := false

	p.StarBalance = decodeNonNegativeInt(fields.StarBalance, 0, &repaired)
	p.TotalStarsSpent = decodeNonNegativeInt(fields.TotalStarsSpent, 0, &repaired)
	p.LastMonthlyAwardDay = decodeInt(fields.LastMonthlyAwardDay, 0, &repaired)
	p.LastResetDay = decodeInt(fields.LastResetDay, defaultLastResetDay, &repaired)
	p.Skills = decodeSkills(fields.Skills, &repaired)
	p.MilestonesClaimed = decodeMilestones(fields.MilestonesClaimed, &repaired)
	p.StarHistory = decodeHistory(fields.StarHistory, &repaired)

	if p.PruneStarHistory(now) {
		repaired = true
	}

	return p, repaired
}

func decodeInt(raw json.RawMessage, def int, repaired *bool) int {
	if raw == nil {
		*repaired = true
		return def
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		*repaired = true
		return def
	}
	return v
}

func decodeNonNegativeInt(raw json.RawMessage, def int, repaired *bool) int {
	v := decodeInt(raw, def, repaired)
	if v < 0 {
		*repaired = true
		return 0
	}
	return v
}

func decodeSkills(raw json.RawMessage, repaired *bool) map[string]int {
	levels := map[string]json.RawMessage{}
	if raw == nil {
		*repaired = true
	} else if err := json.Unmarshal(raw, &levels); err != nil {
		*repaired = true
		levels = map[string]json.RawMessage{}
	}

	skills := make(map[string]int, len(levels))
	for skillID, rawLevel := range levels {
		if data.GetSkillNode(skillID) == nil {
			// Foreign id, likely from an older catalog.
			*repaired = true
			continue
		}
		var level int
		if err := json.Unmarshal(rawLevel, &level); err != nil {
			*repaired = true
			level = data.MinSkillLevel
		}
		if level < data.MinSkillLevel {
			*repaired = true
			level = data.MinSkillLevel
		} else if level > data.MaxSkillLevel {
			*repaired = true
			level = data.MaxSkillLevel
		}
		skills[skillID] = level
	}

	// Insert skills missing from the record at level 1.
	for _, skillID := range data.SkillIDs() {
		if _, ok := skills[skillID]; !ok {
			*repaired = true
			skills[skillID] = data.MinSkillLevel
		}
	}

	return skills
}

func decodeMilestones(raw json.RawMessage, repaired *bool) []string {
	if raw == nil {
		*repaired = true
		return []string{}
	}
	var claimed []string
	if err := json.Unmarshal(raw, &claimed); err != nil {
		*repaired = true
		return []string{}
	}
	if claimed == nil {
		claimed = []string{}
	}
	return claimed
}

func decodeHistory(raw json.RawMessage, repaired *bool) []StarEvent {
	if raw == nil {
		*repaired = true
		return []StarEvent{}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		*repaired = true
		return []StarEvent{}
	}

	history := make([]StarEvent, 0, len(entries))
	for _, rawEntry := range entries {
		var ev StarEvent
		if err := json.Unmarshal(rawEntry, &ev); err != nil {
			*repaired = true
			continue
		}
		history = append(history, ev)
	}
	return history
}
