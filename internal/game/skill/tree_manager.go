package skill

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/udisondev/payday/internal/data"
	"github.com/udisondev/payday/internal/db"
	"github.com/udisondev/payday/internal/game/economy"
	"github.com/udisondev/payday/internal/model"
)

// ResetReason classifies why a skill reset was rejected.
type ResetReason int

const (
	ResetCooldownActive ResetReason = iota + 1
	ResetNothingToRefund
)

// ResetError is a typed, expected reset precondition failure.
type ResetError struct {
	Reason        ResetReason
	DaysRemaining int // set for ResetCooldownActive
}

func (e *ResetError) Error() string {
	switch e.Reason {
	case ResetCooldownActive:
		return fmt.Sprintf("skill reset available in %d days", e.DaysRemaining)
	case ResetNothingToRefund:
		return "no stars spent, nothing to reset"
	default:
		return "skill reset rejected"
	}
}

// MonthlyResult reports a payroll processing attempt.
type MonthlyResult struct {
	Awarded      bool
	StarsAwarded int
	NewBalance   int
	NextAwardDay int
	Message      string
}

// UpgradeResult reports a successful skill upgrade.
type UpgradeResult struct {
	SkillID    string
	NewLevel   int
	StarsSpent int
	NewBalance int
	Message    string
}

// ResetResult reports a successful skill reset.
type ResetResult struct {
	StarsRefunded int
	NewBalance    int
	NextResetDay  int
	Message       string
}

// AwardResult reports stars granted by an award operation.
type AwardResult struct {
	StarsAwarded int
	NewBalance   int
	Message      string
}

// NodeStatus is the display state of a catalog node, computed fresh on every
// projection and never stored.
type NodeStatus string

const (
	StatusCompleted    NodeStatus = "completed"    // at max level
	StatusLocked       NodeStatus = "locked"       // a prerequisite is unmet
	StatusUpgradable   NodeStatus = "upgradable"   // next cost is affordable
	StatusUnaffordable NodeStatus = "unaffordable" // unlocked but too expensive
)

// NodeView is the projection of a single catalog node for a player.
type NodeView struct {
	SkillID       string
	Name          string
	Emoji         string
	Branch        data.Branch
	Description   string
	CurrentLevel  int
	MaxLevel      int
	BaseCost      int
	NextCost      int
	Prerequisites []data.Prerequisite
	Status        NodeStatus
	Effects       EffectInfo
}

// TreeView is the full skill tree projection.
type TreeView struct {
	StarBalance     int
	TotalStarsSpent int
	Nodes           map[string]*NodeView
	Branches        map[data.Branch]*data.BranchInfo
	CanReset        bool
	DaysUntilReset  int
	StarHistory     []model.StarEvent // most recent first
}

// TreeManager is the only entry point callers use. It composes the
// repository, the skill manager and the economy manager into per-player
// load-mutate-save transactions.
//
// Operations for the same player are serialized with a per-player lock so
// their load-mutate-save cycles never interleave; different players share no
// mutable state and run in parallel.
type TreeManager struct {
	repo    *db.SkillProgressRepository
	economy *economy.Manager
	skills  *Manager

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTreeManager creates a TreeManager.
func NewTreeManager(repo *db.SkillProgressRepository, eco *economy.Manager) *TreeManager {
	return &TreeManager{
		repo:    repo,
		economy: eco,
		skills:  NewManager(),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (t *TreeManager) lockPlayer(playerID string) func() {
	t.mu.Lock()
	lock, ok := t.locks[playerID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[playerID] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ProcessMonthlyStars awards the monthly salary if 30 game days have passed.
// Saves only when stars were awarded.
func (t *TreeManager) ProcessMonthlyStars(ctx context.Context, playerID string, currentDay int) (*MonthlyResult, error) {
	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	awarded := t.economy.AwardMonthly(p, currentDay)
	if awarded == 0 {
		daysLeft := data.MonthlyAwardIntervalDays - (currentDay - p.LastMonthlyAwardDay)
		return &MonthlyResult{
			NewBalance:   p.StarBalance,
			NextAwardDay: p.LastMonthlyAwardDay + data.MonthlyAwardIntervalDays,
			Message:      fmt.Sprintf("Следующая награда через %d дней", daysLeft),
		}, nil
	}

	if err := t.repo.Save(ctx, playerID, p); err != nil {
		return nil, err
	}

	return &MonthlyResult{
		Awarded:      true,
		StarsAwarded: awarded,
		NewBalance:   p.StarBalance,
		NextAwardDay: p.LastMonthlyAwardDay + data.MonthlyAwardIntervalDays,
		Message:      fmt.Sprintf("⭐ Получено %d звезд за месяц работы!", awarded),
	}, nil
}

// UpgradeSkill raises one skill by one level. On any precondition failure the
// typed *UpgradeError is returned and nothing is saved.
func (t *TreeManager) UpgradeSkill(ctx context.Context, playerID, skillID string) (*UpgradeResult, error) {
	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	outcome, uerr := t.skills.ApplyUpgrade(p, skillID)
	if uerr != nil {
		return nil, uerr
	}

	if err := t.repo.Save(ctx, playerID, p); err != nil {
		return nil, err
	}

	node := data.GetSkillNode(skillID)
	return &UpgradeResult{
		SkillID:    skillID,
		NewLevel:   outcome.NewLevel,
		StarsSpent: outcome.StarsSpent,
		NewBalance: outcome.NewBalance,
		Message:    fmt.Sprintf("✨ %s улучшен до уровня %d!", node.Name, outcome.NewLevel),
	}, nil
}

// ResetSkills sets every skill back to level 1 and refunds 80% of the stars
// spent. Rejected with a typed *ResetError while the 7-day cooldown is active
// or when no stars have been spent.
func (t *TreeManager) ResetSkills(ctx context.Context, playerID string, currentDay int) (*ResetResult, error) {
	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	daysSinceReset := currentDay - p.LastResetDay
	if daysSinceReset < data.ResetCooldownDays {
		return nil, &ResetError{
			Reason:        ResetCooldownActive,
			DaysRemaining: data.ResetCooldownDays - daysSinceReset,
		}
	}

	if p.TotalStarsSpent == 0 {
		return nil, &ResetError{Reason: ResetNothingToRefund}
	}

	refund := int(math.Floor(float64(p.TotalStarsSpent) * data.ResetRefundRate))

	for skillID := range p.Skills {
		p.Skills[skillID] = data.MinSkillLevel
	}
	p.StarBalance += refund
	p.TotalStarsSpent = 0
	p.LastResetDay = currentDay
	t.economy.Track(p, economy.SourceResetRefund, refund)

	if err := t.repo.Save(ctx, playerID, p); err != nil {
		return nil, err
	}

	return &ResetResult{
		StarsRefunded: refund,
		NewBalance:    p.StarBalance,
		NextResetDay:  currentDay + data.ResetCooldownDays,
		Message:       fmt.Sprintf("🔄 Навыки сброшены! Возвращено %d звезд (80%%)", refund),
	}, nil
}

// GetSkillTree returns the full projection of the player's skill tree.
// Pure read: nothing is saved (first-load default synthesis inside Load
// aside).
func (t *TreeManager) GetSkillTree(ctx context.Context, playerID string, currentDay int) (*TreeView, error) {
	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*NodeView, len(data.SkillIDs()))
	for _, skillID := range data.SkillIDs() {
		node := data.GetSkillNode(skillID)
		level := p.Skills[skillID]

		nodes[skillID] = &NodeView{
			SkillID:       skillID,
			Name:          node.Name,
			Emoji:         node.Emoji,
			Branch:        node.Branch,
			Description:   node.Description,
			CurrentLevel:  level,
			MaxLevel:      node.MaxLevel,
			BaseCost:      node.BaseCost,
			NextCost:      node.Cost(level),
			Prerequisites: node.Prerequisites,
			Status:        t.nodeStatus(p, node, level),
			Effects:       t.skills.Effects(p, skillID),
		}
	}

	canReset := true
	daysUntilReset := 0
	if daysSinceReset := currentDay - p.LastResetDay; daysSinceReset < data.ResetCooldownDays {
		canReset = false
		daysUntilReset = data.ResetCooldownDays - daysSinceReset
	}

	return &TreeView{
		StarBalance:     p.StarBalance,
		TotalStarsSpent: p.TotalStarsSpent,
		Nodes:           nodes,
		Branches:        data.Branches(),
		CanReset:        canReset,
		DaysUntilReset:  daysUntilReset,
		StarHistory:     p.RecentStarEvents(data.StarHistoryLimit),
	}, nil
}

// nodeStatus computes the display status with fixed precedence:
// completed, then locked, then upgradable, then unaffordable.
func (t *TreeManager) nodeStatus(p *model.SkillProgress, node *data.SkillNode, level int) NodeStatus {
	switch {
	case level >= node.MaxLevel:
		return StatusCompleted
	case !t.skills.PrerequisitesMet(p, node.ID):
		return StatusLocked
	case node.Cost(level) <= p.StarBalance:
		return StatusUpgradable
	default:
		return StatusUnaffordable
	}
}

// AwardStars grants stars from a caller-supplied source (special events).
// Rejects non-positive amounts without touching the record.
func (t *TreeManager) AwardStars(ctx context.Context, playerID string, amount int, source string) (*AwardResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("award amount must be positive, got %d", amount)
	}

	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	awarded := t.economy.AwardCustom(p, source, amount)

	if err := t.repo.Save(ctx, playerID, p); err != nil {
		return nil, err
	}

	return &AwardResult{
		StarsAwarded: awarded,
		NewBalance:   p.StarBalance,
		Message:      fmt.Sprintf("⭐ Получено %d звезд: %s", awarded, source),
	}, nil
}

// AwardWealthTier grants the wealth tier milestone, at most once per tier.
// Saves only when stars were awarded.
func (t *TreeManager) AwardWealthTier(ctx context.Context, playerID, tier string) (*AwardResult, error) {
	return t.awardOnce(ctx, playerID, func(p *model.SkillProgress) int {
		return t.economy.AwardWealthTier(p, tier)
	})
}

// AwardAchievement grants the achievement milestone, at most once per id.
// Saves only when stars were awarded.
func (t *TreeManager) AwardAchievement(ctx context.Context, playerID, achievementID string) (*AwardResult, error) {
	return t.awardOnce(ctx, playerID, func(p *model.SkillProgress) int {
		return t.economy.AwardAchievement(p, achievementID)
	})
}

// CheckMilestones evaluates both one-time cumulative milestones and awards
// whichever thresholds are exceeded and unclaimed. Saves only on an award.
func (t *TreeManager) CheckMilestones(ctx context.Context, playerID string, cumulativeEarnings int64, daysSurvived int) (*AwardResult, error) {
	return t.awardOnce(ctx, playerID, func(p *model.SkillProgress) int {
		return t.economy.CheckMilestones(p, cumulativeEarnings, daysSurvived)
	})
}

// CheckAchievements evaluates the skill achievement table and awards stars
// for every satisfied, not-yet-claimed achievement. Safe to call after any
// upgrade; dedup keys make repeat calls award nothing.
func (t *TreeManager) CheckAchievements(ctx context.Context, playerID string) (*AwardResult, error) {
	return t.awardOnce(ctx, playerID, func(p *model.SkillProgress) int {
		total := 0
		for _, id := range t.skills.CompletedAchievements(p) {
			total += t.economy.AwardAchievement(p, id)
		}
		return total
	})
}

func (t *TreeManager) awardOnce(ctx context.Context, playerID string, award func(*model.SkillProgress) int) (*AwardResult, error) {
	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	awarded := award(p)
	if awarded > 0 {
		if err := t.repo.Save(ctx, playerID, p); err != nil {
			return nil, err
		}
	}

	return &AwardResult{
		StarsAwarded: awarded,
		NewBalance:   p.StarBalance,
		Message:      fmt.Sprintf("⭐ +%d звезд", awarded),
	}, nil
}

// GetSkillBonus returns the current cumulative bonus of one skill for a
// player. Read-only helper for reward collaborators.
func (t *TreeManager) GetSkillBonus(ctx context.Context, playerID, skillID string) (float64, error) {
	defer t.lockPlayer(playerID)()

	p, err := t.repo.Load(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return t.skills.Effects(p, skillID).TotalBonus, nil
}

// GetBranchSkills returns the projections of all nodes in one branch.
func (t *TreeManager) GetBranchSkills(ctx context.Context, playerID string, branch data.Branch, currentDay int) ([]*NodeView, error) {
	tree, err := t.GetSkillTree(ctx, playerID, currentDay)
	if err != nil {
		return nil, err
	}

	views := make([]*NodeView, 0, 2)
	for _, node := range data.SkillsByBranch(branch) {
		views = append(views, tree.Nodes[node.ID])
	}
	return views, nil
}
