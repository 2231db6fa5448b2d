package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duel/internal/game/state"
	"github.com/cory-johannsen/duel/internal/storage"
)

// SaveRepository keeps game states in duel_saves and battle records in duel_battles.
type SaveRepository struct {
	db *pgxpool.Pool
}

var (
	_ storage.Store    = (*SaveRepository)(nil)
	_ storage.Recorder = (*SaveRepository)(nil)
)

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the duel schema applied.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Load returns the state saved under name.
//
// Postcondition: Returns the GameState, or storage.ErrConfigNotFound when no row exists.
func (r *SaveRepository) Load(ctx context.Context, name string) (*state.GameState, error) {
	var doc string
	err := r.db.QueryRow(ctx, `SELECT state FROM duel_saves WHERE name = $1`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.NotFound(name)
		}
		return nil, storage.IOError(fmt.Errorf("selecting save %q: %w", name, err))
	}
	gs, err := storage.Decode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("decoding save %q: %w", name, err)
	}
	return gs, nil
}

// Save upserts the state under name in a single statement.
//
// Postcondition: On error the previously stored row is unchanged.
func (r *SaveRepository) Save(ctx context.Context, name string, gs *state.GameState) error {
	data, err := storage.Encode(gs)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO duel_saves (name, state)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`,
		name, string(data),
	)
	if err != nil {
		return storage.IOError(fmt.Errorf("upserting save %q: %w", name, err))
	}
	return nil
}

// RecordBattle inserts rec into duel_battles.
//
// Precondition: A save named rec.SaveKey must exist.
func (r *SaveRepository) RecordBattle(ctx context.Context, rec storage.BattleRecord) error {
	finished := rec.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO duel_battles (id, save_name, outcome, turns, finished_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.SaveKey, rec.Outcome, rec.Turns, finished,
	)
	if err != nil {
		return storage.IOError(fmt.Errorf("inserting battle %s: %w", rec.ID, err))
	}
	return nil
}

// History returns the battles recorded for name, newest first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) History(ctx context.Context, name string) ([]storage.BattleRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, save_name, outcome, turns, finished_at
		FROM duel_battles WHERE save_name = $1 ORDER BY finished_at DESC`,
		name,
	)
	if err != nil {
		return nil, storage.IOError(fmt.Errorf("listing battles of %q: %w", name, err))
	}
	defer rows.Close()

	out := make([]storage.BattleRecord, 0)
	for rows.Next() {
		var rec storage.BattleRecord
		if err := rows.Scan(&rec.ID, &rec.SaveKey, &rec.Outcome, &rec.Turns, &rec.Finished); err != nil {
			return nil, storage.IOError(fmt.Errorf("scanning battle row: %w", err))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.IOError(err)
	}
	return out, nil
}
