// Package main provides the battle simulator binary: it loads game content,
// builds two trainers, and drives an agent-versus-agent battle to
// completion, narrating every turn.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/goober-game/goober/internal/config"
	"github.com/goober-game/goober/internal/content"
	"github.com/goober-game/goober/internal/game/ai"
	"github.com/goober-game/goober/internal/game/battle"
	"github.com/goober-game/goober/internal/game/goober"
	"github.com/goober-game/goober/internal/game/item"
	"github.com/goober-game/goober/internal/game/trainer"
	"github.com/goober-game/goober/internal/observability"
	"github.com/goober-game/goober/internal/rng"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	speciesDir := flag.String("species-dir", "", "override for the species YAML directory")
	itemsDir := flag.String("items-dir", "", "override for the item YAML directory")
	difficulty := flag.String("difficulty", "", "override for the opponent difficulty tier")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	if *speciesDir != "" {
		cfg.Content.SpeciesDir = *speciesDir
	}
	if *itemsDir != "" {
		cfg.Content.ItemsDir = *itemsDir
	}
	if *difficulty != "" {
		cfg.AI.Difficulty = *difficulty
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	tier, err := ai.ByName(cfg.AI.Difficulty)
	if err != nil {
		logger.Fatal("resolving difficulty", zap.Error(err))
	}

	contentStart := time.Now()
	registry, err := content.LoadRegistry(cfg.Content.SpeciesDir, cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("species", len(registry.SpeciesNames())),
		zap.Int("items", len(registry.Items().Names())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	src := rng.NewCryptoSource()

	player, err := buildTrainer("Player", cfg.Sim.PlayerRole, registry, cfg.Sim, src)
	if err != nil {
		logger.Fatal("building player", zap.Error(err))
	}
	opponent, err := buildTrainer("Rival", cfg.Sim.OpponentRole, registry, cfg.Sim, src)
	if err != nil {
		logger.Fatal("building opponent", zap.Error(err))
	}

	manager := battle.NewManager(player, opponent, src, logger)
	playerAgent := ai.NewAgent(tier, src, logger.Named("player-agent"))
	opponentAgent := ai.NewAgent(tier, src, logger.Named("opponent-agent"))

	logger.Info("battle starting",
		zap.String("difficulty", tier.Name),
		zap.Int("team_size", cfg.Sim.TeamSize),
		zap.Int("level", cfg.Sim.Level),
	)

	result, err := run(manager, playerAgent, opponentAgent, cfg.Sim.MaxTurns)
	if err != nil {
		logger.Fatal("resolving turn", zap.Error(err))
	}
	if result.Winner == "" {
		logger.Warn("battle hit the turn limit with no winner",
			zap.Int("max_turns", cfg.Sim.MaxTurns))
		os.Exit(1)
	}
	logger.Info("battle complete",
		zap.String("winner", result.Winner),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// run drives the battle turn by turn, printing each event's narrative.
func run(manager *battle.Manager, playerAgent, opponentAgent *ai.Agent, maxTurns int) (battle.TurnResult, error) {
	state := manager.State()
	var result battle.TurnResult
	for turn := 0; turn < maxTurns; turn++ {
		playerAction := playerAgent.ChooseAction(state, state.Player)
		opponentAction := opponentAgent.ChooseAction(state, state.Opponent)

		var err error
		result, err = manager.ResolveTurn(playerAction, opponentAction)
		if err != nil {
			return result, err
		}
		fmt.Printf("--- Turn %d ---\n", state.Turn)
		for _, ev := range result.Events {
			fmt.Println(ev.Narrative)
		}
		if result.Finished {
			fmt.Printf("\n%s wins!\n", result.Winner)
			return result, nil
		}
	}
	return result, nil
}

// buildTrainer assembles one side: a team drawn round-robin from the loaded
// species pool, the starter item loadout, and the configured role.
func buildTrainer(name, roleName string, registry *content.Registry, sim config.SimConfig, src rng.Source) (*trainer.Trainer, error) {
	role, ok := trainer.ParseRole(roleName)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", roleName)
	}

	names := registry.SpeciesNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no species loaded")
	}
	team := make([]*goober.Goober, 0, sim.TeamSize)
	for i := 0; i < sim.TeamSize; i++ {
		g, err := registry.NewGoober(names[src.Intn(len(names))], sim.Level)
		if err != nil {
			return nil, err
		}
		team = append(team, g)
	}

	tr, err := trainer.New(name, role, team)
	if err != nil {
		return nil, err
	}
	starter, err := item.StarterInventory(registry.Items())
	if err != nil {
		return nil, fmt.Errorf("starter inventory: %w", err)
	}
	for _, it := range starter {
		tr.AddItem(it)
	}
	return tr, nil
}
