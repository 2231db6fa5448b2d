// Package storage defines how game states are loaded and saved, independent of the backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/duel/internal/game/state"
)

var (
	// ErrConfigNotFound is returned when no game state exists under the key.
	// It is the only recoverable storage error: callers may create a default state.
	ErrConfigNotFound = errors.New("game state not found")
	// ErrConfigMalformed is returned when stored bytes cannot be decoded or fail validation.
	ErrConfigMalformed = errors.New("game state malformed")
	// ErrIO is returned for any other read or write failure.
	ErrIO = errors.New("game state i/o failure")
)

// Store loads and saves game states by key. For the file backend the key is a
// path; for the others it is a save name.
type Store interface {
	// Load returns the state stored under key.
	//
	// Postcondition: On error, errors.Is matches exactly one of ErrConfigNotFound,
	// ErrConfigMalformed or ErrIO.
	Load(ctx context.Context, key string) (*state.GameState, error)
	// Save replaces the state stored under key. A failed Save leaves the prior content intact.
	Save(ctx context.Context, key string, gs *state.GameState) error
}

// BattleRecord is a summary of one finished encounter.
type BattleRecord struct {
	ID       uuid.UUID
	SaveKey  string
	Outcome  string
	Turns    int
	Finished time.Time
}

// Recorder is implemented by stores that keep a battle history.
type Recorder interface {
	RecordBattle(ctx context.Context, rec BattleRecord) error
	// History returns the records of key, newest first.
	History(ctx context.Context, key string) ([]BattleRecord, error)
}

// Malformed wraps cause with ErrConfigMalformed.
func Malformed(cause error) error { return fmt.Errorf("%w: %w", ErrConfigMalformed, cause) }

// IOError wraps cause with ErrIO.
func IOError(cause error) error { return fmt.Errorf("%w: %w", ErrIO, cause) }

// NotFound reports a missing key with ErrConfigNotFound.
func NotFound(key string) error { return fmt.Errorf("%w: %q", ErrConfigNotFound, key) }

// Decode parses canonical game-state bytes, classifying every failure as ErrConfigMalformed.
func Decode(data []byte) (*state.GameState, error) {
	gs, err := state.Decode(data)
	if err != nil {
		return nil, Malformed(err)
	}
	return gs, nil
}

// Encode renders gs in the canonical format. An invalid state is reported as ErrConfigMalformed.
func Encode(gs *state.GameState) ([]byte, error) {
	data, err := state.Encode(gs)
	if err != nil {
		return nil, Malformed(err)
	}
	return data, nil
}

// LoadOrCreate loads the state under key. When none exists, a fresh state for
// archetype is built from roster, saved under key and returned with created=true.
//
// Precondition: store and roster must be non-nil.
// Postcondition: Returns a valid GameState, or an error that is never ErrConfigNotFound.
func LoadOrCreate(ctx context.Context, store Store, key string, roster *state.Roster, archetype string) (*state.GameState, bool, error) {
	gs, err := store.Load(ctx, key)
	if err == nil {
		return gs, false, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, false, err
	}

	gs, err = roster.NewGameState(archetype)
	if err != nil {
		return nil, false, fmt.Errorf("creating default game state: %w", err)
	}
	if err := store.Save(ctx, key, gs); err != nil {
		return nil, false, fmt.Errorf("saving default game state: %w", err)
	}
	return gs, true, nil
}
