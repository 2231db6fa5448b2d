// Package redis stores game states in Redis save slots.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/state"
	"github.com/cory-johannsen/duel/internal/storage"
)

// historyLimit caps the battle records kept per save slot.
const historyLimit = 100

// Client wraps redis.UniversalClient so tests can swap in any implementation.
type Client interface {
	redis.UniversalClient
}

// NewClient creates a Redis client for a single instance. Redis connects lazily.
//
// Precondition: cfg.Addr must be non-empty.
func NewClient(cfg config.RedisConfig) (Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// Store is a storage.Store and storage.Recorder whose keys are save names.
type Store struct {
	client Client
	prefix string
	logger *zap.Logger
}

var (
	_ storage.Store    = (*Store)(nil)
	_ storage.Recorder = (*Store)(nil)
)

// NewStore creates a Store over client; every key is prefixed with prefix.
//
// Precondition: client must be non-nil.
func NewStore(client Client, prefix string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

func (s *Store) stateKey(name string) string   { return s.prefix + name }
func (s *Store) historyKey(name string) string { return s.prefix + name + ":battles" }

// Load returns the state saved under name.
//
// Postcondition: A missing slot yields storage.ErrConfigNotFound.
func (s *Store) Load(ctx context.Context, name string) (*state.GameState, error) {
	data, err := s.client.Get(ctx, s.stateKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.NotFound(name)
		}
		return nil, storage.IOError(fmt.Errorf("getting %s: %w", s.stateKey(name), err))
	}
	gs, err := storage.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding slot %q: %w", name, err)
	}
	s.logger.Debug("game state loaded", zap.String("slot", name))
	return gs, nil
}

// Save replaces the state under name with a single SET.
func (s *Store) Save(ctx context.Context, name string, gs *state.GameState) error {
	data, err := storage.Encode(gs)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.stateKey(name), data, 0).Err(); err != nil {
		return storage.IOError(fmt.Errorf("setting %s: %w", s.stateKey(name), err))
	}
	s.logger.Debug("game state saved", zap.String("slot", name))
	return nil
}

type battleRecord struct {
	ID       string    `json:"id"`
	Outcome  string    `json:"outcome"`
	Turns    int       `json:"turns"`
	Finished time.Time `json:"finished"`
}

// RecordBattle prepends rec to the slot's battle history, keeping the newest entries.
func (s *Store) RecordBattle(ctx context.Context, rec storage.BattleRecord) error {
	data, err := json.Marshal(battleRecord{
		ID:       rec.ID.String(),
		Outcome:  rec.Outcome,
		Turns:    rec.Turns,
		Finished: rec.Finished.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling battle record: %w", err)
	}

	key := s.historyKey(rec.SaveKey)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, historyLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return storage.IOError(fmt.Errorf("recording battle in %s: %w", key, err))
	}
	return nil
}

// History returns the recorded battles for name, newest first.
func (s *Store) History(ctx context.Context, name string) ([]storage.BattleRecord, error) {
	raw, err := s.client.LRange(ctx, s.historyKey(name), 0, -1).Result()
	if err != nil {
		return nil, storage.IOError(fmt.Errorf("reading history of %q: %w", name, err))
	}
	out := make([]storage.BattleRecord, 0, len(raw))
	for _, item := range raw {
		var br battleRecord
		if err := json.Unmarshal([]byte(item), &br); err != nil {
			return nil, storage.Malformed(fmt.Errorf("battle record: %w", err))
		}
		rec := storage.BattleRecord{SaveKey: name, Outcome: br.Outcome, Turns: br.Turns, Finished: br.Finished}
		if err := rec.ID.UnmarshalText([]byte(br.ID)); err != nil {
			return nil, storage.Malformed(fmt.Errorf("battle record id: %w", err))
		}
		out = append(out, rec)
	}
	return out, nil
}
