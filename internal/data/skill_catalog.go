package data

import "sort"

// Star economy constants for the skill tree.
const (
	// MonthlyStars is awarded as salary every 30 game days.
	MonthlyStars = 3

	// MonthlyAwardIntervalDays is the payroll interval in game days.
	MonthlyAwardIntervalDays = 30

	// WealthTierStars is awarded once per wealth tier reached.
	WealthTierStars = 5

	// AchievementStars is awarded once per major achievement.
	AchievementStars = 3

	// MillionEarnedStars is a one-time award for 1,000,000 cumulative earnings.
	MillionEarnedStars     = 5
	MillionEarnedThreshold = 1_000_000

	// SurvivalStars is a one-time award for surviving 100 game days.
	SurvivalStars         = 10
	SurvivalDaysThreshold = 100

	// ResetRefundRate is the fraction of spent stars returned on a skill reset.
	ResetRefundRate = 0.80

	// ResetCooldownDays is the minimum number of game days between resets.
	ResetCooldownDays = 7
)

// Skill level bounds.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 10
)

// Star history bounds enforced on every mutation and on load.
const (
	StarHistoryLimit      = 10
	StarHistoryMaxAgeDays = 30
)

// Branch is a closed enumeration of skill branches.
type Branch string

const (
	BranchLuck         Branch = "luck"
	BranchCharisma     Branch = "charisma"
	BranchIntelligence Branch = "intelligence"
	BranchEndurance    Branch = "endurance"
	BranchBusiness     Branch = "business"
)

// Base upgrade costs per branch tier.
const (
	BaseCostBasic    = 2 // luck, charisma, intelligence
	BaseCostAdvanced = 3 // endurance, business
)

// Prerequisite is a gate edge in the skill tree: the referenced skill must be
// at RequiredLevel or higher before the dependent skill can be upgraded.
type Prerequisite struct {
	SkillID       string
	RequiredLevel int
}

// SkillNode is an immutable catalog entry.
type SkillNode struct {
	ID            string
	Name          string
	Emoji         string
	Branch        Branch
	BaseCost      int
	MaxLevel      int
	Prerequisites []Prerequisite
	Description   string
}

// Cost returns the star cost to upgrade from currentLevel to currentLevel+1.
// Returns 0 at or above MaxLevel (cannot upgrade).
//
// Formula: base_cost + current_level. A basic skill costs 3 at level 1 and 11
// at level 9; an advanced skill costs 4 at level 1 and 12 at level 9.
func (n *SkillNode) Cost(currentLevel int) int {
	if currentLevel >= n.MaxLevel {
		return 0
	}
	return n.BaseCost + currentLevel
}

// TotalCostToMax returns the total stars needed to take the node from level 1
// to MaxLevel.
func (n *SkillNode) TotalCostToMax() int {
	total := 0
	for level := MinSkillLevel; level < n.MaxLevel; level++ {
		total += n.Cost(level)
	}
	return total
}

// BranchInfo holds display metadata for a skill branch.
type BranchInfo struct {
	Branch      Branch
	Name        string
	Emoji       string
	Description string
	Color       string
}

// skillTable stores all skill nodes, indexed by skill ID.
var skillTable map[string]*SkillNode

// Второй тир каждой ветки открывается с третьего уровня первого тира.
const tierTwoRequiredLevel = 3

func init() {
	skillTable = map[string]*SkillNode{
		// --- Luck branch ---
		"luck_1": {
			ID:          "luck_1",
			Name:        "Удача I",
			Emoji:       "🍀",
			Branch:      BranchLuck,
			BaseCost:    BaseCostBasic,
			MaxLevel:    MaxSkillLevel,
			Description: "+5% шанс успеха подработок за уровень",
		},
		"luck_2": {
			ID:       "luck_2",
			Name:     "Удача II",
			Emoji:    "🎲",
			Branch:   BranchLuck,
			BaseCost: BaseCostBasic,
			MaxLevel: MaxSkillLevel,
			Prerequisites: []Prerequisite{
				{SkillID: "luck_1", RequiredLevel: tierTwoRequiredLevel},
			},
			Description: "+2% шанс выигрыша в развлечениях за уровень",
		},

		// --- Charisma branch ---
		"charisma_1": {
			ID:          "charisma_1",
			Name:        "Харизма I",
			Emoji:       "💬",
			Branch:      BranchCharisma,
			BaseCost:    BaseCostBasic,
			MaxLevel:    MaxSkillLevel,
			Description: "+5% оплата социальных подработок за уровень",
		},
		"charisma_2": {
			ID:       "charisma_2",
			Name:     "Харизма II",
			Emoji:    "🎭",
			Branch:   BranchCharisma,
			BaseCost: BaseCostBasic,
			MaxLevel: MaxSkillLevel,
			Prerequisites: []Prerequisite{
				{SkillID: "charisma_1", RequiredLevel: tierTwoRequiredLevel},
			},
			Description: "+3% бонус к переговорам и сделкам за уровень",
		},

		// --- Intelligence branch ---
		"intelligence_1": {
			ID:          "intelligence_1",
			Name:        "Интеллект I",
			Emoji:       "🧠",
			Branch:      BranchIntelligence,
			BaseCost:    BaseCostBasic,
			MaxLevel:    MaxSkillLevel,
			Description: "+5% оплата умственных подработок за уровень",
		},
		"intelligence_2": {
			ID:       "intelligence_2",
			Name:     "Интеллект II",
			Emoji:    "📚",
			Branch:   BranchIntelligence,
			BaseCost: BaseCostBasic,
			MaxLevel: MaxSkillLevel,
			Prerequisites: []Prerequisite{
				{SkillID: "intelligence_1", RequiredLevel: tierTwoRequiredLevel},
			},
			Description: "+3% эффективность обучения и анализа за уровень",
		},

		// --- Endurance branch (advanced) ---
		"endurance_1": {
			ID:          "endurance_1",
			Name:        "Выносливость I",
			Emoji:       "💪",
			Branch:      BranchEndurance,
			BaseCost:    BaseCostAdvanced,
			MaxLevel:    MaxSkillLevel,
			Description: "-3% ежедневные расходы за уровень",
		},
		"endurance_2": {
			ID:       "endurance_2",
			Name:     "Выносливость II",
			Emoji:    "🏃",
			Branch:   BranchEndurance,
			BaseCost: BaseCostAdvanced,
			MaxLevel: MaxSkillLevel,
			Prerequisites: []Prerequisite{
				{SkillID: "endurance_1", RequiredLevel: tierTwoRequiredLevel},
			},
			Description: "+2% энергия и выносливость за уровень",
		},

		// --- Business branch (advanced) ---
		"business_1": {
			ID:          "business_1",
			Name:        "Бизнес I",
			Emoji:       "💼",
			Branch:      BranchBusiness,
			BaseCost:    BaseCostAdvanced,
			MaxLevel:    MaxSkillLevel,
			Description: "+5% доход от бизнеса за уровень",
		},
		"business_2": {
			ID:       "business_2",
			Name:     "Бизнес II",
			Emoji:    "📈",
			Branch:   BranchBusiness,
			BaseCost: BaseCostAdvanced,
			MaxLevel: MaxSkillLevel,
			Prerequisites: []Prerequisite{
				{SkillID: "business_1", RequiredLevel: tierTwoRequiredLevel},
			},
			Description: "+3% эффективность управления бизнесом за уровень",
		},
	}
}

// branchTable stores display metadata per branch.
var branchTable = map[Branch]*BranchInfo{
	BranchLuck: {
		Branch:      BranchLuck,
		Name:        "Удача",
		Emoji:       "🍀",
		Description: "Влияет на случайные события и шансы успеха",
		Color:       "#4CAF50",
	},
	BranchCharisma: {
		Branch:      BranchCharisma,
		Name:        "Харизма",
		Emoji:       "💬",
		Description: "Улучшает социальные взаимодействия и оплату",
		Color:       "#2196F3",
	},
	BranchIntelligence: {
		Branch:      BranchIntelligence,
		Name:        "Интеллект",
		Emoji:       "🧠",
		Description: "Повышает эффективность умственной работы",
		Color:       "#9C27B0",
	},
	BranchEndurance: {
		Branch:      BranchEndurance,
		Name:        "Выносливость",
		Emoji:       "💪",
		Description: "Снижает расходы и повышает выживаемость",
		Color:       "#FF9800",
	},
	BranchBusiness: {
		Branch:      BranchBusiness,
		Name:        "Бизнес",
		Emoji:       "💼",
		Description: "Увеличивает доход от бизнеса",
		Color:       "#F44336",
	},
}

// GetSkillNode returns a skill node by ID, or nil if unknown.
func GetSkillNode(skillID string) *SkillNode {
	return skillTable[skillID]
}

// SkillIDs returns all catalog skill IDs sorted alphabetically.
func SkillIDs() []string {
	ids := make([]string, 0, len(skillTable))
	for id := range skillTable {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SkillsByBranch returns all skill nodes of a branch, sorted by ID.
func SkillsByBranch(branch Branch) []*SkillNode {
	nodes := make([]*SkillNode, 0, 2)
	for _, id := range SkillIDs() {
		if skillTable[id].Branch == branch {
			nodes = append(nodes, skillTable[id])
		}
	}
	return nodes
}

// Branches returns display metadata for all branches.
func Branches() map[Branch]*BranchInfo {
	return branchTable
}

// GetBranchInfo returns branch metadata, or nil if unknown.
func GetBranchInfo(branch Branch) *BranchInfo {
	return branchTable[branch]
}

// DefaultSkillLevels returns the starting skill map for a new player:
// every catalog node at level 1.
func DefaultSkillLevels() map[string]int {
	skills := make(map[string]int, len(skillTable))
	for id := range skillTable {
		skills[id] = MinSkillLevel
	}
	return skills
}

// ValidSkillLevel reports whether a level is within [MinSkillLevel, MaxSkillLevel].
func ValidSkillLevel(level int) bool {
	return level >= MinSkillLevel && level <= MaxSkillLevel
}
