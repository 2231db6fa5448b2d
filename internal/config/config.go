// Package config provides Viper-based configuration loading for the duel command.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. DUEL_BATTLE_DIFFICULTY.
const EnvPrefix = "DUEL"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the rules knobs of an encounter.
type BattleConfig struct {
	// Difficulty selects the flee die: "easy", "normal" or "hard".
	Difficulty string `mapstructure:"difficulty"`
	// Evasion is "dexterity" for the ratio policy or "off" to disable evasion.
	Evasion string `mapstructure:"evasion"`
	// PersistAfter is "none" to leave the stored state untouched or "final" to save the final state.
	PersistAfter string `mapstructure:"persist_after"`
	// Seed makes all randomness deterministic when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// GameConfig holds settings for states created from the default roster.
type GameConfig struct {
	// Archetype is "fighter" or "mage".
	Archetype string `mapstructure:"archetype"`
}

// PresentationConfig holds console output settings.
type PresentationConfig struct {
	// Interactive enables the action menu and the continuation prompt.
	Interactive bool `mapstructure:"interactive"`
	// Color enables ANSI color output.
	Color bool `mapstructure:"color"`
	// RevealDelay is the pause between revealed characters; 0 prints lines at once.
	RevealDelay time.Duration `mapstructure:"reveal_delay"`
}

// StorageConfig selects the game-state backend.
type StorageConfig struct {
	// Backend is "file", "redis" or "postgres".
	Backend string `mapstructure:"backend"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ScriptingConfig holds Lua hook settings.
type ScriptingConfig struct {
	// Dir is the directory of *.lua hook scripts; empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps the VM instructions of a single hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// NarratorConfig holds the optional post-battle chronicle settings.
type NarratorConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Model     string `mapstructure:"model"`
	MaxTokens int64  `mapstructure:"max_tokens"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging      LoggingConfig      `mapstructure:"logging"`
	Battle       BattleConfig       `mapstructure:"battle"`
	Game         GameConfig         `mapstructure:"game"`
	Presentation PresentationConfig `mapstructure:"presentation"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Scripting    ScriptingConfig    `mapstructure:"scripting"`
	Narrator     NarratorConfig     `mapstructure:"narrator"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := oneOf("game.archetype", c.Game.Archetype, "fighter", "mage"); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Presentation.RevealDelay < 0 {
		errs = append(errs, "presentation.reveal_delay must not be negative")
	}
	if err := oneOf("storage.backend", c.Storage.Backend, "file", "redis", "postgres"); err != nil {
		errs = append(errs, err.Error())
	}
	// Connection settings are only checked for the backend in use.
	switch c.Storage.Backend {
	case "postgres":
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr must not be empty")
		}
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateNarrator(c.Narrator); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func oneOf(key, got string, valid ...string) error {
	for _, v := range valid {
		if got == v {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of [%s], got %q", key, strings.Join(valid, ", "), got)
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if err := oneOf("battle.difficulty", b.Difficulty, "easy", "normal", "hard"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := oneOf("battle.evasion", b.Evasion, "dexterity", "off"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := oneOf("battle.persist_after", b.PersistAfter, "none", "final"); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	if err := oneOf("database.sslmode", d.SSLMode, "disable", "require", "verify-ca", "verify-full"); err != nil {
		errs = append(errs, err.Error())
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateNarrator(n NarratorConfig) error {
	if !n.Enabled {
		return nil
	}
	var errs []string
	if n.Model == "" {
		errs = append(errs, "narrator.model must not be empty")
	}
	if n.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("narrator.max_tokens must be >= 1, got %d", n.MaxTokens))
	}
	if n.APIKey == "" {
		errs = append(errs, "narrator.api_key must be set when the narrator is enabled")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	if err := oneOf("logging.level", l.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return oneOf("logging.format", l.Format, "json", "console")
}

// New returns a Viper instance with defaults and DUEL_ environment overrides applied.
//
// Postcondition: Returns a non-nil Viper; path, when non-empty, is set as the config file but not yet read.
func New(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// The CLI uses it after binding its flags.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.difficulty", "normal")
	v.SetDefault("battle.evasion", "dexterity")
	v.SetDefault("battle.persist_after", "none")
	v.SetDefault("battle.seed", 0)

	v.SetDefault("game.archetype", "fighter")

	v.SetDefault("presentation.interactive", false)
	v.SetDefault("presentation.color", true)
	v.SetDefault("presentation.reveal_delay", "15ms")

	v.SetDefault("storage.backend", "file")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "duel")
	v.SetDefault("database.password", "duel")
	v.SetDefault("database.name", "duel")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "duel:save:")

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("narrator.enabled", false)
	v.SetDefault("narrator.model", "claude-3-5-haiku-latest")
	v.SetDefault("narrator.max_tokens", 512)
	v.SetDefault("narrator.api_key", "")
	v.SetDefault("narrator.base_url", "")
}
