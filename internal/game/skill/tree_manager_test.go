package skill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/payday/internal/data"
	"github.com/udisondev/payday/internal/db"
	"github.com/udisondev/payday/internal/game/economy"
	"github.com/udisondev/payday/internal/model"
)

var treeTestNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestTreeManager() (*TreeManager, *db.SkillProgressRepository) {
	clock := func() time.Time { return treeTestNow }
	repo := db.NewSkillProgressRepositoryWithClock(db.NewMemStore(), clock)
	return NewTreeManager(repo, economy.NewManagerWithClock(clock)), repo
}

func seedProgress(t *testing.T, repo *db.SkillProgressRepository, playerID string, mutate func(*model.SkillProgress)) {
	t.Helper()
	p := model.NewSkillProgress()
	mutate(p)
	require.NoError(t, repo.Save(context.Background(), playerID, p))
}

func TestGetSkillTree_NewPlayer(t *testing.T) {
	manager, _ := newTestTreeManager()

	tree, err := manager.GetSkillTree(context.Background(), "player-1", 0)
	require.NoError(t, err)

	assert.Equal(t, 0, tree.StarBalance)
	assert.Equal(t, 0, tree.TotalStarsSpent)
	assert.Len(t, tree.Nodes, 10)
	assert.Empty(t, tree.StarHistory)
	assert.True(t, tree.CanReset) // last reset day defaults to -7

	for skillID, node := range tree.Nodes {
		assert.Equal(t, 1, node.CurrentLevel, skillID)
		if len(node.Prerequisites) > 0 {
			assert.Equal(t, StatusLocked, node.Status, skillID)
		} else {
			// Unlocked but the fresh balance of 0 cannot cover any cost.
			assert.Equal(t, StatusUnaffordable, node.Status, skillID)
		}
	}
}

func TestProcessMonthlyStars_EndToEnd(t *testing.T) {
	manager, _ := newTestTreeManager()
	ctx := context.Background()

	result, err := manager.ProcessMonthlyStars(ctx, "player-1", 30)
	require.NoError(t, err)
	assert.True(t, result.Awarded)
	assert.Equal(t, data.MonthlyStars, result.StarsAwarded)
	assert.Equal(t, data.MonthlyStars, result.NewBalance)
	assert.Equal(t, 60, result.NextAwardDay)

	// Second call inside the same window awards nothing and saves nothing.
	again, err := manager.ProcessMonthlyStars(ctx, "player-1", 31)
	require.NoError(t, err)
	assert.False(t, again.Awarded)
	assert.Equal(t, data.MonthlyStars, again.NewBalance)
	assert.Equal(t, 60, again.NextAwardDay)

	// The monthly salary now makes the basic tier-1 skills affordable.
	tree, err := manager.GetSkillTree(ctx, "player-1", 31)
	require.NoError(t, err)
	assert.Equal(t, StatusUpgradable, tree.Nodes["luck_1"].Status)
	assert.Equal(t, StatusUnaffordable, tree.Nodes["endurance_1"].Status) // costs 4
	require.Len(t, tree.StarHistory, 1)
	assert.Equal(t, economy.SourceMonthlySalary, tree.StarHistory[0].Source)
}

func TestUpgradeSkill_Success(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.StarBalance = 10
	})

	result, err := manager.UpgradeSkill(ctx, "player-1", "luck_1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, 3, result.StarsSpent)
	assert.Equal(t, 7, result.NewBalance)

	// Persisted.
	loaded, err := repo.Load(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Skills["luck_1"])
	assert.Equal(t, 7, loaded.StarBalance)
	assert.Equal(t, 3, loaded.TotalStarsSpent)
}

func TestUpgradeSkill_PreconditionFailureDoesNotSave(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.StarBalance = 2 // luck_1 costs 3
	})

	_, err := manager.UpgradeSkill(ctx, "player-1", "luck_1")
	var uerr *UpgradeError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, ReasonInsufficientStars, uerr.Reason)

	loaded, err := repo.Load(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.StarBalance)
	assert.Equal(t, 1, loaded.Skills["luck_1"])
	assert.Equal(t, 0, loaded.TotalStarsSpent)
}

func TestUpgradeSkill_UnknownSkill(t *testing.T) {
	manager, _ := newTestTreeManager()

	_, err := manager.UpgradeSkill(context.Background(), "player-1", "hacking_1")
	var uerr *UpgradeError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, ReasonNotFound, uerr.Reason)
}

func TestUpgradeSkill_UnlocksGatedNode(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.StarBalance = 100
		p.Skills["luck_1"] = 2
	})

	tree, err := manager.GetSkillTree(ctx, "player-1", 0)
	require.NoError(t, err)
	require.Equal(t, StatusLocked, tree.Nodes["luck_2"].Status)

	// Leveling the prerequisite to 3 flips the gated node to upgradable.
	_, err = manager.UpgradeSkill(ctx, "player-1", "luck_1")
	require.NoError(t, err)

	tree, err = manager.GetSkillTree(ctx, "player-1", 0)
	require.NoError(t, err)
	assert.Equal(t, StatusUpgradable, tree.Nodes["luck_2"].Status)
}

func TestUpgradeSkill_NineUpgradesToComplete(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.StarBalance = data.GetSkillNode("luck_1").TotalCostToMax()
	})

	for i := 0; i < 9; i++ {
		_, err := manager.UpgradeSkill(ctx, "player-1", "luck_1")
		require.NoError(t, err, "upgrade %d", i+1)
	}

	tree, err := manager.GetSkillTree(ctx, "player-1", 0)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, tree.Nodes["luck_1"].Status)
	assert.Equal(t, 0, tree.StarBalance)
	assert.Equal(t, 63, tree.TotalStarsSpent)

	// The tenth attempt fails typed.
	_, err = manager.UpgradeSkill(ctx, "player-1", "luck_1")
	var uerr *UpgradeError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, ReasonMaxLevelReached, uerr.Reason)
}

func TestResetSkills_RefundsEightyPercent(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.StarBalance = 5
		p.TotalStarsSpent = 100
		p.Skills["luck_1"] = 7
		p.Skills["business_1"] = 4
	})

	result, err := manager.ResetSkills(ctx, "player-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 80, result.StarsRefunded) // floor(100 * 0.80)
	assert.Equal(t, 85, result.NewBalance)
	assert.Equal(t, data.ResetCooldownDays, result.NextResetDay)

	loaded, err := repo.Load(ctx, "player-1")
	require.NoError(t, err)
	for skillID, level := range loaded.Skills {
		assert.Equal(t, 1, level, skillID)
	}
	assert.Equal(t, 0, loaded.TotalStarsSpent)
	assert.Equal(t, 0, loaded.LastResetDay)
	require.NotEmpty(t, loaded.StarHistory)
	assert.Equal(t, economy.SourceResetRefund, loaded.StarHistory[len(loaded.StarHistory)-1].Source)
}

func TestResetSkills_RefundFloors(t *testing.T) {
	manager, repo := newTestTreeManager()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.TotalStarsSpent = 7 // 7 * 0.8 = 5.6 -> 5
	})

	result, err := manager.ResetSkills(context.Background(), "player-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, result.StarsRefunded)
}

func TestResetSkills_CooldownBoundary(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.TotalStarsSpent = 10
		p.LastResetDay = 10
	})

	// Six days since reset: rejected with one day remaining.
	_, err := manager.ResetSkills(ctx, "player-1", 16)
	var rerr *ResetError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ResetCooldownActive, rerr.Reason)
	assert.Equal(t, 1, rerr.DaysRemaining)

	// Exactly seven days: accepted.
	result, err := manager.ResetSkills(ctx, "player-1", 17)
	require.NoError(t, err)
	assert.Equal(t, 8, result.StarsRefunded)
}

func TestResetSkills_NothingToRefund(t *testing.T) {
	manager, _ := newTestTreeManager()

	_, err := manager.ResetSkills(context.Background(), "player-1", 0)
	var rerr *ResetError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ResetNothingToRefund, rerr.Reason)
}

func TestAwardStars(t *testing.T) {
	manager, _ := newTestTreeManager()
	ctx := context.Background()

	result, err := manager.AwardStars(ctx, "player-1", 5, "Особое событие")
	require.NoError(t, err)
	assert.Equal(t, 5, result.StarsAwarded)
	assert.Equal(t, 5, result.NewBalance)

	_, err = manager.AwardStars(ctx, "player-1", 0, "мусор")
	assert.Error(t, err)
}

func TestAwardWealthTierAndAchievement_Idempotent(t *testing.T) {
	manager, _ := newTestTreeManager()
	ctx := context.Background()

	first, err := manager.AwardWealthTier(ctx, "player-1", "wealthy")
	require.NoError(t, err)
	assert.Equal(t, data.WealthTierStars, first.StarsAwarded)

	second, err := manager.AwardWealthTier(ctx, "player-1", "wealthy")
	require.NoError(t, err)
	assert.Zero(t, second.StarsAwarded)
	assert.Equal(t, data.WealthTierStars, second.NewBalance)

	ach, err := manager.AwardAchievement(ctx, "player-1", "tycoon")
	require.NoError(t, err)
	assert.Equal(t, data.AchievementStars, ach.StarsAwarded)

	ach, err = manager.AwardAchievement(ctx, "player-1", "tycoon")
	require.NoError(t, err)
	assert.Zero(t, ach.StarsAwarded)
}

func TestCheckMilestones_BothAtOnce(t *testing.T) {
	manager, _ := newTestTreeManager()
	ctx := context.Background()

	result, err := manager.CheckMilestones(ctx, "player-1", 2_000_000, 150)
	require.NoError(t, err)
	assert.Equal(t, data.MillionEarnedStars+data.SurvivalStars, result.StarsAwarded)

	result, err = manager.CheckMilestones(ctx, "player-1", 3_000_000, 400)
	require.NoError(t, err)
	assert.Zero(t, result.StarsAwarded)
}

func TestCheckAchievements(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.Skills["luck_1"] = 10
	})

	result, err := manager.CheckAchievements(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, data.AchievementStars, result.StarsAwarded) // "master"

	// Repeat calls find nothing unclaimed.
	result, err = manager.CheckAchievements(ctx, "player-1")
	require.NoError(t, err)
	assert.Zero(t, result.StarsAwarded)
}

func TestGetSkillBonus(t *testing.T) {
	manager, repo := newTestTreeManager()

	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.Skills["luck_1"] = 4
	})

	bonus, err := manager.GetSkillBonus(context.Background(), "player-1", "luck_1")
	require.NoError(t, err)
	assert.InDelta(t, 0.20, bonus, 1e-9)
}

func TestGetBranchSkills(t *testing.T) {
	manager, _ := newTestTreeManager()

	views, err := manager.GetBranchSkills(context.Background(), "player-1", data.BranchLuck, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "luck_1", views[0].SkillID)
	assert.Equal(t, "luck_2", views[1].SkillID)
}

// Same-player operations must serialize so load-mutate-save cycles never
// interleave; the sum of applied upgrades has to add up exactly.
func TestConcurrentUpgrades_SamePlayerSerialized(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	total := data.GetSkillNode("luck_1").TotalCostToMax()
	seedProgress(t, repo, "player-1", func(p *model.SkillProgress) {
		p.StarBalance = total
	})

	var g errgroup.Group
	for i := 0; i < 9; i++ {
		g.Go(func() error {
			_, err := manager.UpgradeSkill(ctx, "player-1", "luck_1")
			return err
		})
	}
	require.NoError(t, g.Wait())

	loaded, err := repo.Load(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Skills["luck_1"])
	assert.Equal(t, 0, loaded.StarBalance)
	assert.Equal(t, total, loaded.TotalStarsSpent)
}

func TestConcurrentOperations_DifferentPlayers(t *testing.T) {
	manager, repo := newTestTreeManager()
	ctx := context.Background()

	players := []string{"p1", "p2", "p3", "p4"}
	for _, playerID := range players {
		seedProgress(t, repo, playerID, func(p *model.SkillProgress) {
			p.StarBalance = 10
		})
	}

	var g errgroup.Group
	for _, playerID := range players {
		g.Go(func() error {
			_, err := manager.UpgradeSkill(ctx, playerID, "charisma_1")
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, playerID := range players {
		loaded, err := repo.Load(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Skills["charisma_1"], playerID)
		assert.Equal(t, 7, loaded.StarBalance, playerID)
	}
}
