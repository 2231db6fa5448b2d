package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/battle"
	"github.com/cory-johannsen/duel/internal/storage"
	"github.com/cory-johannsen/duel/internal/storage/file"
	"github.com/cory-johannsen/duel/internal/testutil"
)

// execute runs the root command without a dotenv file and with instant output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeRaw(t, stdin, append([]string{"--env-file=", "--log-level=error", "--reveal-delay=0s"}, args...)...)
}

func executeRaw(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDuel_CreatesMissingStateAndFights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")

	out, err := execute(t, "", "--color=false", "--evasion=off", "--seed=7", path)
	require.NoError(t, err)
	assert.Contains(t, out, "a new one was created")
	assert.Contains(t, out, "Hero the Fighter")
	assert.Contains(t, out, "Victory after 5 turns!")
	assert.NotContains(t, out, "\x1b[")

	gs, err := file.NewStore(zap.NewNop()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 200, gs.Enemy.Stats.LifePoints, "persist=none leaves the created state as it was")
}

func TestDuel_PersistFinal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")

	out, err := execute(t, "", "--color=false", "--evasion=off", "--persist=final", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Victory")

	gs, err := file.NewStore(zap.NewNop()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, gs.Enemy.Stats.LifePoints)
	assert.Equal(t, 100, gs.Player.Entity().LifePoints)

	out, err = execute(t, "", "--color=false", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "a new one was created")
	assert.Contains(t, out, "Victory after 0 turns!")
}

func TestDuel_MageArchetype(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mage.json")
	out, err := execute(t, "", "--color=false", "--archetype=mage", "--seed=3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Merlin the Mage")
}

func TestDuel_InteractiveQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	out, err := execute(t, "1\nq\n", "--color=false", "--evasion=off", "--interactive", path)
	require.NoError(t, err, "quitting is not a failure")
	assert.Contains(t, out, "choose your action")
	assert.Contains(t, out, "[turn 1]")
	assert.Contains(t, out, "You leave the duel.")
	assert.NotContains(t, out, "Victory")
}

func TestDuel_InteractiveQuitAtMenu(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	out, err := execute(t, "quit\n", "--color=false", "--interactive", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "[turn 1]")
	assert.Contains(t, out, "You leave the duel.")
}

func TestDuel_InteractiveEndOfInputFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	_, err := execute(t, "", "--color=false", "--interactive", path)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDuel_MalformedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := execute(t, "", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrConfigMalformed)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data), "a malformed file is never overwritten")
}

func TestDuel_RequiresExactlyOneArgument(t *testing.T) {
	_, err := execute(t, "")
	assert.Error(t, err)

	_, err = execute(t, "", "a.json", "b.json")
	assert.Error(t, err)
}

func TestDuel_InvalidFlagValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	_, err := execute(t, "", "--difficulty=nightmare", path)
	require.ErrorContains(t, err, "battle.difficulty")
	assert.NoFileExists(t, path)
}

func TestDuel_SettingsFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "duel.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("battle:\n  evasion: \"off\"\n  persist_after: final\npresentation:\n  color: false\n"), 0o644))
	path := filepath.Join(dir, "save.json")

	out, err := execute(t, "", "--settings", settings, "--persist=none", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Victory after 5 turns!")

	gs, err := file.NewStore(zap.NewNop()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 200, gs.Enemy.Stats.LifePoints, "--persist overrides the settings file")
}

func TestDuel_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "duel.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DUEL_GAME_ARCHETYPE=mage\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("DUEL_GAME_ARCHETYPE") })

	out, err := executeRaw(t, "", "--env-file", envFile, "--log-level=error", "--reveal-delay=0s", "--color=false", filepath.Join(dir, "save.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Merlin the Mage")
}

func TestDuel_LuaHooksNarrate(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "hooks.lua"), []byte(`
function on_outcome(outcome, turns)
  return "the bards sing of " .. outcome .. " in " .. turns .. " turns"
end
`), 0o644))

	out, err := execute(t, "", "--color=false", "--evasion=off", "--scripts", scripts, filepath.Join(dir, "save.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "the bards sing of player won in 5 turns")
}

func TestRunDuel_RedisBackendRecordsHistory(t *testing.T) {
	_, mr := testutil.NewRedis(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.Backend = "redis"
	cfg.Redis.Addr = mr.Addr()
	cfg.Battle.Evasion = "off"
	cfg.Presentation.Color = false
	cfg.Presentation.RevealDelay = 0

	var out bytes.Buffer
	res, err := runDuel(context.Background(), cfg, "arena", strings.NewReader(""), &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, battle.PlayerWon, res.Outcome)
	assert.True(t, mr.Exists(cfg.Redis.KeyPrefix+"arena"))

	t.Setenv("DUEL_REDIS_ADDR", mr.Addr())
	history, err := executeRaw(t, "", "history", "--env-file=", "--log-level=error", "--backend=redis", "arena")
	require.NoError(t, err)
	assert.Contains(t, history, "player won")
	assert.Contains(t, history, res.ID.String())
}

func TestHistory_FileBackendHasNone(t *testing.T) {
	_, err := executeRaw(t, "", "history", "--env-file=", "save.json")
	assert.ErrorContains(t, err, "keeps no battle history")
}

func TestWriteHistory(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeHistory(&out, nil))
	assert.Equal(t, "no battles recorded\n", out.String())

	out.Reset()
	id := uuid.New()
	require.NoError(t, writeHistory(&out, []storage.BattleRecord{
		{ID: id, SaveKey: "s", Outcome: "enemy won", Turns: 3, Finished: time.Now()},
	}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "FINISHED"))
	assert.Contains(t, lines[1], "enemy won")
	assert.Contains(t, lines[1], id.String())
}
