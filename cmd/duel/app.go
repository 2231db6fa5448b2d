package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/frontend/console"
	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/state"
	"github.com/cory-johannsen/duel/internal/narrator"
	"github.com/cory-johannsen/duel/internal/scripting"
	"github.com/cory-johannsen/duel/internal/storage"
	"github.com/cory-johannsen/duel/internal/storage/file"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
	duelredis "github.com/cory-johannsen/duel/internal/storage/redis"
)

// runDuel loads (or creates) the game state under key, plays the battle and
// applies the post-battle policy.
//
// Postcondition: On nil error the returned Result is terminal.
func runDuel(ctx context.Context, cfg config.Config, key string, in io.Reader, out io.Writer, logger *zap.Logger) (battle.Result, error) {
	var src dice.Source
	if cfg.Battle.Seed != 0 {
		src = dice.NewSeededSource(cfg.Battle.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	var evader combat.Evader = combat.NewDexterityEvader(src)
	if cfg.Battle.Evasion == "off" {
		evader = combat.FixedEvader(false)
	}
	difficulty, err := dice.ParseDifficulty(cfg.Battle.Difficulty)
	if err != nil {
		return battle.Result{}, err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return battle.Result{}, err
	}
	defer closeStore()

	roster, err := state.DefaultRoster()
	if err != nil {
		return battle.Result{}, fmt.Errorf("loading default roster: %w", err)
	}
	gs, created, err := storage.LoadOrCreate(ctx, store, key, roster, cfg.Game.Archetype)
	if err != nil {
		return battle.Result{}, fmt.Errorf("loading game state %q: %w", key, err)
	}
	logger.Info("game state ready",
		zap.String("key", key),
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("created", created),
	)

	presenter := console.NewPresenter(in, out, console.Options{
		Interactive: cfg.Presentation.Interactive,
		Color:       cfg.Presentation.Color,
		RevealDelay: cfg.Presentation.RevealDelay,
	})
	_, _ = io.WriteString(out, console.RenderIntro(presenter.Palette(), gs, created))

	var hooks battle.Hooks
	if cfg.Scripting.Dir != "" {
		mgr := scripting.NewManager(roller, logger, cfg.Scripting.InstructionLimit)
		defer mgr.Close()
		n, err := mgr.LoadDir(cfg.Scripting.Dir)
		if err != nil {
			return battle.Result{}, err
		}
		logger.Info("hook scripts loaded", zap.String("dir", cfg.Scripting.Dir), zap.Int("files", n))
		hooks = scripting.NewBattleHooks(mgr)
	}

	b := battle.New(gs, battle.Options{
		Evader:     evader,
		Roller:     roller,
		Difficulty: difficulty,
		Presenter:  presenter,
		Hooks:      hooks,
		Logger:     logger,
	})
	res, err := b.Run(ctx)
	if err != nil {
		return res, err
	}

	if cfg.Battle.PersistAfter == "final" {
		if err := store.Save(ctx, key, res.State); err != nil {
			return res, fmt.Errorf("saving final game state: %w", err)
		}
		logger.Info("final game state saved", zap.String("key", key))
	}

	if rec, ok := store.(storage.Recorder); ok {
		err := rec.RecordBattle(ctx, storage.BattleRecord{
			ID:       res.ID,
			SaveKey:  key,
			Outcome:  res.Outcome.String(),
			Turns:    res.Turns,
			Finished: time.Now(),
		})
		if err != nil {
			logger.Warn("recording battle", zap.Error(err))
		}
	}

	if cfg.Narrator.Enabled {
		text, err := narrator.New(cfg.Narrator, logger).Chronicle(ctx, res)
		if err != nil {
			logger.Warn("narrator unavailable", zap.Error(err))
		} else {
			presenter.Narrate(text)
		}
	}
	return res, nil
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		client, err := duelredis.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return duelredis.NewStore(client, cfg.Redis.KeyPrefix, logger), func() { _ = client.Close() }, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, storage.IOError(err)
		}
		return postgres.NewSaveRepository(pool.DB()), pool.Close, nil
	default:
		return file.NewStore(logger), func() {}, nil
	}
}
