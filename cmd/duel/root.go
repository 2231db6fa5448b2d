package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/frontend/console"
	"github.com/cory-johannsen/duel/internal/observability"
)

// flagKeys maps command-line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"archetype":    "game.archetype",
	"difficulty":   "battle.difficulty",
	"evasion":      "battle.evasion",
	"persist":      "battle.persist_after",
	"seed":         "battle.seed",
	"interactive":  "presentation.interactive",
	"color":        "presentation.color",
	"reveal-delay": "presentation.reveal_delay",
	"backend":      "storage.backend",
	"scripts":      "scripting.dir",
	"narrate":      "narrator.enabled",
	"log-level":    "logging.level",
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var settings, envFile string

	root := &cobra.Command{
		Use:   "duel [flags] <game-state>",
		Short: "Fight a turn-based duel between a player and an enemy",
		Long: "duel loads a game state (a JSON file, or a save name for the redis and postgres\n" +
			"backends), creates a default one when none exists, and plays the battle to the end.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd.Flags(), settings, envFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			res, err := runDuel(cmd.Context(), cfg, args[0], in, out, logger)
			if errors.Is(err, console.ErrQuit) {
				logger.Info("duel abandoned", zap.String("game_state", args[0]), zap.Int("turns", res.Turns))
				_, _ = fmt.Fprintln(out, "You leave the duel.")
				return nil
			}
			if err != nil {
				logger.Error("duel failed", zap.String("game_state", args[0]), zap.Error(err))
			}
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&settings, "settings", "", "YAML settings file (defaults and DUEL_ environment variables when empty)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment; missing is fine")
	pf.String("backend", "", "storage backend: file, redis or postgres")
	pf.String("log-level", "", "log level: debug, info, warn or error")

	f := root.Flags()
	f.String("archetype", "", "archetype for a newly created game state: fighter or mage")
	f.String("difficulty", "", "flee difficulty: easy, normal or hard")
	f.String("evasion", "", "evasion policy: dexterity or off")
	f.String("persist", "", "what to save after the battle: none or final")
	f.Uint64("seed", 0, "seed for deterministic randomness (0 uses the system source)")
	f.Bool("interactive", false, "choose actions and confirm each turn")
	f.Bool("color", true, "colored output")
	f.Duration("reveal-delay", 0, "pause after each printed character")
	f.String("scripts", "", "directory of Lua hook scripts")
	f.Bool("narrate", false, "ask the narrator for a chronicle after the battle")

	root.AddCommand(newHistoryCmd(out, &settings, &envFile))
	return root
}

// setup loads the dotenv file and settings, applies changed flags and builds the logger.
func setup(flags *pflag.FlagSet, settings, envFile string) (config.Config, *zap.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := config.New(settings)
	if settings != "" {
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, nil, fmt.Errorf("reading settings: %w", err)
		}
	}
	if err := bindFlags(v, flags); err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.LoadFromViper(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

// bindFlags binds every known flag present in flags. Viper only prefers a bound
// flag over file and environment values when the flag was set explicitly.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		fl := flags.Lookup(name)
		if fl == nil {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}
