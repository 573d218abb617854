// Package skill implements skill tree progression: upgrade validation,
// atomic upgrade application, effect reads, and the tree manager that
// orchestrates them against persistence.
package skill

import (
	"fmt"

	"github.com/udisondev/payday/internal/data"
	"github.com/udisondev/payday/internal/model"
)

// Reason classifies why an upgrade precondition failed.
type Reason int

const (
	ReasonNotFound Reason = iota + 1
	ReasonNotInPlayerState
	ReasonMaxLevelReached
	ReasonPrerequisiteNotMet
	ReasonInsufficientStars
)

// String returns the stable identifier of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not_found"
	case ReasonNotInPlayerState:
		return "not_in_player_state"
	case ReasonMaxLevelReached:
		return "max_level_reached"
	case ReasonPrerequisiteNotMet:
		return "prerequisite_not_met"
	case ReasonInsufficientStars:
		return "insufficient_stars"
	default:
		return "unknown"
	}
}

// UpgradeError is a typed, expected precondition failure. No state is changed
// when it is returned.
type UpgradeError struct {
	Reason  Reason
	SkillID string

	// Unmet lists the failing prerequisite edges for ReasonPrerequisiteNotMet.
	Unmet []data.Prerequisite

	// Cost and Balance are set for ReasonInsufficientStars.
	Cost    int
	Balance int
}

func (e *UpgradeError) Error() string {
	switch e.Reason {
	case ReasonNotFound:
		return fmt.Sprintf("skill %q does not exist", e.SkillID)
	case ReasonNotInPlayerState:
		return fmt.Sprintf("skill %q is not in player state", e.SkillID)
	case ReasonMaxLevelReached:
		return fmt.Sprintf("skill %q is already at max level", e.SkillID)
	case ReasonPrerequisiteNotMet:
		return fmt.Sprintf("skill %q prerequisites not met: %v", e.SkillID, e.Unmet)
	case ReasonInsufficientStars:
		return fmt.Sprintf("skill %q costs %d stars, balance is %d", e.SkillID, e.Cost, e.Balance)
	default:
		return fmt.Sprintf("skill %q cannot be upgraded", e.SkillID)
	}
}

// UpgradeOutcome reports a successfully applied upgrade.
type UpgradeOutcome struct {
	SkillID    string
	NewLevel   int
	StarsSpent int
	NewBalance int
}

// EffectInfo is the cumulative bonus a skill currently grants.
type EffectInfo struct {
	SkillID       string
	System        data.EffectSystem
	Kind          data.EffectKind
	Level         int
	BonusPerLevel float64
	TotalBonus    float64
}

// Manager validates and applies single-skill upgrades against a player's
// in-memory record. It is stateless; all state lives in the record.
type Manager struct{}

// NewManager creates a skill Manager.
func NewManager() *Manager {
	return &Manager{}
}

// CanUpgrade checks all upgrade preconditions in order:
// catalog existence, player state presence, max level, prerequisites, cost.
// Returns nil when the upgrade is allowed.
func (m *Manager) CanUpgrade(p *model.SkillProgress, skillID string) *UpgradeError {
	node := data.GetSkillNode(skillID)
	if node == nil {
		return &UpgradeError{Reason: ReasonNotFound, SkillID: skillID}
	}

	level, ok := p.Skills[skillID]
	if !ok {
		return &UpgradeError{Reason: ReasonNotInPlayerState, SkillID: skillID}
	}

	if level >= node.MaxLevel {
		return &UpgradeError{Reason: ReasonMaxLevelReached, SkillID: skillID}
	}

	if unmet := m.unmetPrerequisites(p, node); len(unmet) > 0 {
		return &UpgradeError{Reason: ReasonPrerequisiteNotMet, SkillID: skillID, Unmet: unmet}
	}

	cost := node.Cost(level)
	if p.StarBalance < cost {
		return &UpgradeError{
			Reason:  ReasonInsufficientStars,
			SkillID: skillID,
			Cost:    cost,
			Balance: p.StarBalance,
		}
	}

	return nil
}

// ApplyUpgrade atomically performs balance -= cost, level += 1,
// total spent += cost. On a precondition failure the record is untouched.
func (m *Manager) ApplyUpgrade(p *model.SkillProgress, skillID string) (*UpgradeOutcome, *UpgradeError) {
	if uerr := m.CanUpgrade(p, skillID); uerr != nil {
		return nil, uerr
	}

	node := data.GetSkillNode(skillID)
	level := p.Skills[skillID]
	cost := node.Cost(level)

	p.StarBalance -= cost
	p.Skills[skillID] = level + 1
	p.TotalStarsSpent += cost

	return &UpgradeOutcome{
		SkillID:    skillID,
		NewLevel:   level + 1,
		StarsSpent: cost,
		NewBalance: p.StarBalance,
	}, nil
}

// PrerequisitesMet reports whether every prerequisite edge of the skill holds
// for the player.
func (m *Manager) PrerequisitesMet(p *model.SkillProgress, skillID string) bool {
	node := data.GetSkillNode(skillID)
	if node == nil {
		return false
	}
	return len(m.unmetPrerequisites(p, node)) == 0
}

func (m *Manager) unmetPrerequisites(p *model.SkillProgress, node *data.SkillNode) []data.Prerequisite {
	var unmet []data.Prerequisite
	for _, edge := range node.Prerequisites {
		if p.Skills[edge.SkillID] < edge.RequiredLevel {
			unmet = append(unmet, edge)
		}
	}
	return unmet
}

// Effects returns the current cumulative bonus of a skill. Pure read; the
// zero EffectInfo is returned for unknown skills or skills without effects.
func (m *Manager) Effects(p *model.SkillProgress, skillID string) EffectInfo {
	eff, ok := data.GetSkillEffect(skillID)
	if !ok {
		return EffectInfo{}
	}
	level := p.Skills[skillID]
	return EffectInfo{
		SkillID:       skillID,
		System:        eff.System,
		Kind:          eff.Kind,
		Level:         level,
		BonusPerLevel: eff.BonusPerLevel,
		TotalBonus:    eff.BonusPerLevel * float64(level),
	}
}

// BranchBonus sums the cumulative bonuses of every skill in a branch.
// Reward collaborators (side jobs, business revenue) consume this through the
// tree manager.
func (m *Manager) BranchBonus(p *model.SkillProgress, branch data.Branch) float64 {
	total := 0.0
	for _, node := range data.SkillsByBranch(branch) {
		total += m.Effects(p, node.ID).TotalBonus
	}
	return total
}

// CompletedAchievements evaluates the achievement table against the record
// and returns ids of all currently satisfied achievements, claimed or not.
func (m *Manager) CompletedAchievements(p *model.SkillProgress) []string {
	var done []string
	for _, a := range data.Achievements() {
		if m.achievementSatisfied(p, a) {
			done = append(done, a.ID)
		}
	}
	return done
}

func (m *Manager) achievementSatisfied(p *model.SkillProgress, a *data.Achievement) bool {
	switch a.Condition {
	case data.CondAnySkillMax:
		for skillID, level := range p.Skills {
			node := data.GetSkillNode(skillID)
			if node != nil && level >= node.MaxLevel {
				return true
			}
		}
		return false
	case data.CondBranchMax:
		return m.branchMaxed(p, a.Branch)
	case data.CondAllSkillsMax:
		for _, branch := range []data.Branch{
			data.BranchLuck, data.BranchCharisma, data.BranchIntelligence,
			data.BranchEndurance, data.BranchBusiness,
		} {
			if !m.branchMaxed(p, branch) {
				return false
			}
		}
		return true
	case data.CondStarsSpent:
		return p.TotalStarsSpent >= a.Threshold
	default:
		return false
	}
}

func (m *Manager) branchMaxed(p *model.SkillProgress, branch data.Branch) bool {
	for _, node := range data.SkillsByBranch(branch) {
		if p.Skills[node.ID] < node.MaxLevel {
			return false
		}
	}
	return true
}
