// Command skilltool is a maintenance CLI for the skill progression core.
//
// Usage:
//
//	skilltool [-config path] migrate
//	skilltool [-config path] [-day N] tree <player_id>
//	skilltool [-config path] upgrade <player_id> <skill_id>
//	skilltool [-config path] [-day N] reset <player_id>
//	skilltool [-config path] [-day N] monthly <player_id>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/udisondev/payday/internal/config"
	"github.com/udisondev/payday/internal/db"
	"github.com/udisondev/payday/internal/game/economy"
	"github.com/udisondev/payday/internal/game/skill"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("interrupted", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := flag.String("config", "config/skillcore.yaml", "path to YAML config")
	day := flag.Int("day", 0, "current game day")
	flag.Parse()

	cfg, err := config.LoadSkillCore(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	args := flag.Args()
	if len(args) == 0 {
		return fmt.Errorf("missing command, expected one of: migrate, tree, upgrade, reset, monthly")
	}

	if args[0] == "migrate" {
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	}

	store, err := db.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer store.Close()

	repo := db.NewSkillProgressRepository(store)
	manager := skill.NewTreeManager(repo, economy.NewManager())

	switch args[0] {
	case "tree":
		if len(args) < 2 {
			return fmt.Errorf("usage: skilltool tree <player_id>")
		}
		tree, err := manager.GetSkillTree(ctx, args[1], *day)
		if err != nil {
			return err
		}
		printTree(tree)
		return nil

	case "upgrade":
		if len(args) < 3 {
			return fmt.Errorf("usage: skilltool upgrade <player_id> <skill_id>")
		}
		result, err := manager.UpgradeSkill(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil

	case "reset":
		if len(args) < 2 {
			return fmt.Errorf("usage: skilltool reset <player_id>")
		}
		result, err := manager.ResetSkills(ctx, args[1], *day)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil

	case "monthly":
		if len(args) < 2 {
			return fmt.Errorf("usage: skilltool monthly <player_id>")
		}
		result, err := manager.ProcessMonthlyStars(ctx, args[1], *day)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printTree(tree *skill.TreeView) {
	fmt.Printf("stars: %d (spent: %d)\n", tree.StarBalance, tree.TotalStarsSpent)
	for _, skillID := range sortedNodeIDs(tree) {
		node := tree.Nodes[skillID]
		fmt.Printf("  %s %-16s L%d/%d  cost=%d  [%s]\n",
			node.Emoji, skillID, node.CurrentLevel, node.MaxLevel, node.NextCost, node.Status)
	}
	if tree.CanReset {
		fmt.Println("reset: available")
	} else {
		fmt.Printf("reset: in %d days\n", tree.DaysUntilReset)
	}
	for _, ev := range tree.StarHistory {
		fmt.Printf("  %s +%d %s\n", ev.Timestamp, ev.Amount, ev.Source)
	}
}

func sortedNodeIDs(tree *skill.TreeView) []string {
	ids := make([]string, 0, len(tree.Nodes))
	for id := range tree.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
