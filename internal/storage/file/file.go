// Package file stores game states as canonical JSON files on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/state"
	"github.com/cory-johannsen/duel/internal/storage"
)

// Store is a storage.Store whose keys are file paths.
type Store struct {
	logger *zap.Logger
}

// NewStore creates a file Store. A nil logger disables logging.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// Load reads and decodes the game state at path.
//
// Postcondition: A missing file yields storage.ErrConfigNotFound, undecodable or
// invalid content storage.ErrConfigMalformed, anything else storage.ErrIO.
func (s *Store) Load(_ context.Context, path string) (*state.GameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.NotFound(path)
		}
		return nil, storage.IOError(fmt.Errorf("reading %s: %w", path, err))
	}
	gs, err := storage.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	s.logger.Debug("game state loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	return gs, nil
}

// Save writes gs to path atomically: the encoded bytes go to a temporary sibling
// file which is synced and then renamed over path.
//
// Postcondition: On error the previous content of path is unchanged.
func (s *Store) Save(_ context.Context, path string, gs *state.GameState) error {
	data, err := storage.Encode(gs)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return storage.IOError(fmt.Errorf("creating temp file in %s: %w", dir, err))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storage.IOError(fmt.Errorf("writing %s: %w", tmpName, err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return storage.IOError(fmt.Errorf("syncing %s: %w", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		return storage.IOError(fmt.Errorf("closing %s: %w", tmpName, err))
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return storage.IOError(fmt.Errorf("setting mode on %s: %w", tmpName, err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return storage.IOError(fmt.Errorf("replacing %s: %w", path, err))
	}
	committed = true

	s.logger.Debug("game state saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
