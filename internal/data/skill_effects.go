package data

// EffectSystem identifies the game system a skill bonus feeds into.
// Consumers (side jobs, entertainment, balance, business) read bonuses
// through the skill tree manager; this core never interprets them.
type EffectSystem string

const (
	SystemSideJobs      EffectSystem = "side_jobs"
	SystemEntertainment EffectSystem = "entertainment"
	SystemBalance       EffectSystem = "balance"
	SystemBusiness      EffectSystem = "business"
)

// EffectKind identifies what the bonus modifies inside the target system.
type EffectKind string

const (
	EffectSuccessRate      EffectKind = "success_rate"
	EffectWinRate          EffectKind = "win_rate"
	EffectSocialPayment    EffectKind = "social_payment"
	EffectNegotiation      EffectKind = "negotiation"
	EffectMentalPayment    EffectKind = "mental_payment"
	EffectLearning         EffectKind = "learning"
	EffectExpenseReduction EffectKind = "expense_reduction"
	EffectEnergy           EffectKind = "energy"
	EffectRevenue          EffectKind = "revenue"
	EffectEfficiency       EffectKind = "efficiency"
)

// SkillEffect maps a skill to its bonus formula: total bonus = BonusPerLevel * level.
type SkillEffect struct {
	System        EffectSystem
	Kind          EffectKind
	BonusPerLevel float64
}

// effectTable maps every catalog skill to its effect.
var effectTable = map[string]SkillEffect{
	"luck_1":         {System: SystemSideJobs, Kind: EffectSuccessRate, BonusPerLevel: 0.05},
	"luck_2":         {System: SystemEntertainment, Kind: EffectWinRate, BonusPerLevel: 0.02},
	"charisma_1":     {System: SystemSideJobs, Kind: EffectSocialPayment, BonusPerLevel: 0.05},
	"charisma_2":     {System: SystemSideJobs, Kind: EffectNegotiation, BonusPerLevel: 0.03},
	"intelligence_1": {System: SystemSideJobs, Kind: EffectMentalPayment, BonusPerLevel: 0.05},
	"intelligence_2": {System: SystemSideJobs, Kind: EffectLearning, BonusPerLevel: 0.03},
	"endurance_1":    {System: SystemBalance, Kind: EffectExpenseReduction, BonusPerLevel: 0.03},
	"endurance_2":    {System: SystemBalance, Kind: EffectEnergy, BonusPerLevel: 0.02},
	"business_1":     {System: SystemBusiness, Kind: EffectRevenue, BonusPerLevel: 0.05},
	"business_2":     {System: SystemBusiness, Kind: EffectEfficiency, BonusPerLevel: 0.03},
}

// GetSkillEffect returns the effect formula for a skill.
func GetSkillEffect(skillID string) (SkillEffect, bool) {
	eff, ok := effectTable[skillID]
	return eff, ok
}

// AchievementCondition is a closed set of skill achievement triggers.
type AchievementCondition string

const (
	CondAnySkillMax  AchievementCondition = "any_skill_max"
	CondBranchMax    AchievementCondition = "branch_max"
	CondAllSkillsMax AchievementCondition = "all_skills_max"
	CondStarsSpent   AchievementCondition = "stars_spent"
)

// Achievement describes a one-time skill achievement.
type Achievement struct {
	ID        string
	Name      string
	Emoji     string
	Condition AchievementCondition
	Branch    Branch // only for CondBranchMax
	Threshold int    // only for CondStarsSpent
}

// achievementTable lists skill achievements in award-check order.
var achievementTable = []*Achievement{
	{ID: "master", Name: "Мастер", Emoji: "⭐", Condition: CondAnySkillMax},
	{ID: "luck_master", Name: "Мастер Удачи", Emoji: "🍀", Condition: CondBranchMax, Branch: BranchLuck},
	{ID: "charisma_master", Name: "Мастер Харизмы", Emoji: "💬", Condition: CondBranchMax, Branch: BranchCharisma},
	{ID: "intelligence_master", Name: "Мастер Интеллекта", Emoji: "🧠", Condition: CondBranchMax, Branch: BranchIntelligence},
	{ID: "endurance_master", Name: "Мастер Выносливости", Emoji: "💪", Condition: CondBranchMax, Branch: BranchEndurance},
	{ID: "business_master", Name: "Мастер Бизнеса", Emoji: "💼", Condition: CondBranchMax, Branch: BranchBusiness},
	{ID: "grandmaster", Name: "Грандмастер", Emoji: "👑", Condition: CondAllSkillsMax},
	{ID: "big_spender", Name: "Большой Транжира", Emoji: "💸", Condition: CondStarsSpent, Threshold: 100},
}

// Achievements returns all skill achievements in check order.
func Achievements() []*Achievement {
	return achievementTable
}

// Milestone keys used for one-time star awards. Keys are persisted in
// milestones_claimed and must never change.
const (
	MilestoneKeyMillionEarned = "milestone_million_earned"
	MilestoneKeySurvival      = "milestone_survival_100"
)
