package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Manager owns one sandboxed LState holding every loaded hook script.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with the duel module registered.
//
// Precondition: roller must be non-nil; instLimit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a Manager with an empty script set; the caller must Close it.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		L:      NewSandboxedState(),
		limit:  instLimit,
		roller: roller,
		logger: logger,
	}
	m.RegisterModules(m.L)
	return m
}

// LoadDir executes every *.lua file in dir in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the number of files loaded, or an error naming the failing file.
func (m *Manager) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range luaFiles {
		if err := Limited(m.L, m.limit, func() error { return m.L.DoFile(path) }); err != nil {
			return 0, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
		m.logger.Debug("scripting: loaded", zap.String("file", path))
	}
	return len(luaFiles), nil
}

// LoadString executes src as a chunk named name.
func (m *Manager) LoadString(name, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn, err := m.L.LoadString(src)
	if err != nil {
		return fmt.Errorf("scripting: compiling %q: %w", name, err)
	}
	err = Limited(m.L, m.limit, func() error {
		return m.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		return fmt.Errorf("scripting: running %q: %w", name, err)
	}
	return nil
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.L.GetGlobal(hook).Type() == lua.LTFunction
}

// CallHook calls the named Lua global function with a fresh instruction budget.
// Returns (LNil, nil) if the hook is not defined. Lua runtime errors, including
// an exhausted budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances created for this Manager.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	err := Limited(m.L, m.limit, func() error {
		return m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret, nil
}

// NewTable creates a table owned by the Manager's VM.
func (m *Manager) NewTable() *lua.LTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.L.NewTable()
}

// Close releases the VM. The Manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}
