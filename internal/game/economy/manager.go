// Package economy is the sole source of star income. Every award path is
// keyed for at-most-once semantics and recorded in the bounded earning ledger.
package economy

import (
	"fmt"
	"time"

	"github.com/udisondev/payday/internal/data"
	"github.com/udisondev/payday/internal/model"
)

// Ledger source labels. Player-facing, passed through to the front end.
const (
	SourceMonthlySalary = "Ежемесячная зарплата"
	SourceResetRefund   = "Возврат за сброс навыков"
	SourceMillionEarned = "Миллион заработан"
	SourceSurvival      = "100 дней выживания"
)

// Manager mutates star income on a player's in-memory record.
// Routine repeatable actions (work ticks, side jobs, mini-games) deliberately
// have no award path here: only significant, non-repeatable milestones mint
// stars, to bound inflation.
type Manager struct {
	now func() time.Time
}

// NewManager creates an economy Manager using the wall clock for ledger
// timestamps. Award and cooldown timing stays on the integer game day.
func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// NewManagerWithClock creates an economy Manager with an injected clock.
func NewManagerWithClock(now func() time.Time) *Manager {
	return &Manager{now: now}
}

// AwardMonthly awards the monthly salary if at least 30 game days have passed
// since the last award. The award day is set to currentDay (not advanced by
// the interval), so a late call pays exactly one salary no matter how many
// windows elapsed. Returns the stars awarded (0 or 3).
func (m *Manager) AwardMonthly(p *model.SkillProgress, currentDay int) int {
	if currentDay-p.LastMonthlyAwardDay < data.MonthlyAwardIntervalDays {
		return 0
	}
	p.StarBalance += data.MonthlyStars
	p.LastMonthlyAwardDay = currentDay
	p.AddStarEvent(SourceMonthlySalary, data.MonthlyStars, m.now())
	return data.MonthlyStars
}

// AwardWealthTier awards stars for reaching a wealth tier, once per distinct
// tier ever reached. Re-entering a tier after regression awards nothing.
func (m *Manager) AwardWealthTier(p *model.SkillProgress, tier string) int {
	key := "wealth_tier_" + tier
	if p.HasMilestone(key) {
		return 0
	}
	p.StarBalance += data.WealthTierStars
	p.ClaimMilestone(key)
	p.AddStarEvent(fmt.Sprintf("Уровень достатка: %s", tier), data.WealthTierStars, m.now())
	return data.WealthTierStars
}

// AwardAchievement awards stars for completing a major achievement, once per
// achievement id.
func (m *Manager) AwardAchievement(p *model.SkillProgress, achievementID string) int {
	key := "achievement_" + achievementID
	if p.HasMilestone(key) {
		return 0
	}
	p.StarBalance += data.AchievementStars
	p.ClaimMilestone(key)
	p.AddStarEvent(fmt.Sprintf("Достижение: %s", achievementID), data.AchievementStars, m.now())
	return data.AchievementStars
}

// CheckMilestones evaluates both one-time cumulative milestones independently
// and awards each at most once. A single call may award 0, 5, 10 or 15 stars
// when both thresholds are already exceeded.
func (m *Manager) CheckMilestones(p *model.SkillProgress, cumulativeEarnings int64, daysSurvived int) int {
	awarded := 0

	if cumulativeEarnings >= data.MillionEarnedThreshold && !p.HasMilestone(data.MilestoneKeyMillionEarned) {
		p.StarBalance += data.MillionEarnedStars
		p.ClaimMilestone(data.MilestoneKeyMillionEarned)
		p.AddStarEvent(SourceMillionEarned, data.MillionEarnedStars, m.now())
		awarded += data.MillionEarnedStars
	}

	if daysSurvived >= data.SurvivalDaysThreshold && !p.HasMilestone(data.MilestoneKeySurvival) {
		p.StarBalance += data.SurvivalStars
		p.ClaimMilestone(data.MilestoneKeySurvival)
		p.AddStarEvent(SourceSurvival, data.SurvivalStars, m.now())
		awarded += data.SurvivalStars
	}

	return awarded
}

// AwardCustom awards stars from a caller-supplied source outside the standard
// categories. Non-positive amounts award nothing. The caller owns any
// idempotency requirement for custom sources.
func (m *Manager) AwardCustom(p *model.SkillProgress, source string, amount int) int {
	if amount <= 0 {
		return 0
	}
	p.StarBalance += amount
	p.AddStarEvent(source, amount, m.now())
	return amount
}

// Track records a star earning event in the ledger without changing the
// balance. Used for entries whose balance change is applied elsewhere, such
// as the reset refund.
func (m *Manager) Track(p *model.SkillProgress, source string, amount int) {
	p.AddStarEvent(source, amount, m.now())
}
