package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/pokebattle/internal/config"
	"github.com/cory-johannsen/pokebattle/internal/game/battle"
	"github.com/cory-johannsen/pokebattle/internal/game/dice"
	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
	"github.com/cory-johannsen/pokebattle/internal/game/trainer"
	"github.com/cory-johannsen/pokebattle/internal/observability"
	"github.com/cory-johannsen/pokebattle/internal/scripting"
)

// flagKeys binds persistent flags to config keys, so a flag beats the file
// and the environment.
var flagKeys = map[string]string{
	"seed":          "battle.seed",
	"max-rounds":    "battle.max_rounds",
	"type-matching": "battle.type_matching",
	"trainers-dir":  "content.trainers_dir",
	"scripts-dir":   "content.scripts_dir",
	"log-level":     "logging.level",
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	root := &cobra.Command{
		Use:           "battlesim",
		Short:         "Run battles between creature trainers",
		Long:          `Loads trainer rosters and Lua strategy scripts, then pits trainers against each other.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flags.Int64("seed", 0, "dice seed; 0 = crypto/rand")
	flags.Int("max-rounds", 100, "rounds before a battle is declared a draw")
	flags.String("type-matching", "normalized", "type multiplier lookup: normalized or literal")
	flags.String("trainers-dir", "content/trainers", "directory of trainer roster YAML files")
	flags.String("scripts-dir", "", "root directory of Lua strategy scripts; empty = scripting disabled")
	flags.String("log-level", "info", "minimum log level")
	flags.String("strategy", "first", "move selection when no script decides: first or random")
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("battlesim: binding --%s: %v", name, err))
		}
	}

	root.AddCommand(newRunCmd(v), newTrainersCmd(v), newStatsCmd(v))
	return root
}

// env is everything a subcommand needs, built from configuration.
type env struct {
	cfg      config.Config
	logger   *zap.Logger
	src      dice.Source
	roller   *dice.Roller
	rules    *pokemon.Rules
	rosters  []*trainer.Roster
	registry *trainer.Registry
	scripts  *scripting.Manager
	random   bool
}

// setup reads configuration and loads content.
//
// Postcondition: Returns a ready env, whose close must be called, or a
// non-nil error.
func setup(cmd *cobra.Command, v *viper.Viper) (*env, error) {
	start := time.Now()
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	matching, err := pokemon.ParseTypeMatching(cfg.Battle.TypeMatching)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, src: dice.SourceForSeed(cfg.Battle.Seed)}
	e.roller = dice.NewLoggedRoller(e.src, logger)
	e.rules = pokemon.NewRules(e.roller, pokemon.NewLogSink(logger), matching)

	e.rosters, err = trainer.LoadRosters(cfg.Content.TrainersDir)
	if err != nil {
		return nil, fmt.Errorf("loading trainer rosters: %w", err)
	}
	e.registry = trainer.NewRegistry()
	if err := e.registry.RegisterRosters(e.rosters, e.rules); err != nil {
		return nil, fmt.Errorf("building trainers: %w", err)
	}

	name, _ := cmd.Flags().GetString("strategy")
	switch name {
	case "first":
	case "random":
		e.random = true
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}

	if cfg.Content.ScriptsDir != "" {
		e.scripts = scripting.NewManager(e.roller, logger)
		n, err := e.scripts.LoadTree(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit)
		if err != nil {
			e.scripts.Close()
			return nil, fmt.Errorf("loading strategy scripts: %w", err)
		}
		logger.Info("strategy scripts loaded", zap.Int("vms", n))
	}

	logger.Info("battle simulator ready",
		zap.Int64("seed", cfg.Battle.Seed),
		zap.Stringer("type_matching", matching),
		zap.Int("trainers", e.registry.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return e, nil
}

func (e *env) close() {
	if e.scripts != nil {
		e.scripts.Close()
	}
	_ = e.logger.Sync()
}

// owner looks a trainer up by name.
func (e *env) owner(name string) (trainer.Owner, error) {
	o, ok := e.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown trainer %q", name)
	}
	return o, nil
}

// roster returns the roster a trainer was built from.
func (e *env) roster(name string) (*trainer.Roster, error) {
	o, err := e.owner(name)
	if err != nil {
		return nil, err
	}
	for _, r := range e.rosters {
		if r.Name == o.Name() {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no roster for trainer %q", name)
}

// strategy builds the move chooser for one battle. FirstMove remembers every
// attacker it has seen, so each battle gets its own.
func (e *env) strategy() battle.Strategy {
	var s battle.Strategy = &battle.FirstMove{}
	if e.random {
		s = battle.NewRandomMove(e.src)
	}
	if e.scripts != nil {
		s = battle.NewScriptedStrategy(e.scripts, s)
	}
	return s
}
