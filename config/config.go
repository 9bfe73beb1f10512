// Package config loads the bgt configuration: a TOML file, overridden by
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/etnz/budget"
	"github.com/etnz/budget/store"
)

// Environment variables overriding the file.
const (
	EnvCurrency    = "BGT_CURRENCY"
	EnvStorage     = "BGT_STORAGE"
	EnvStatePath   = "BGT_STATE_PATH"
	EnvAssistModel = "BGT_ASSIST_MODEL"
	EnvGeminiKey   = "GEMINI_API_KEY"
)

// Config holds all bgt configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Storage StorageConfig `toml:"storage"`
	Assist  AssistConfig  `toml:"assist"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency    string `toml:"currency"`
	ChartMonths int    `toml:"chart_months"`
}

// StorageConfig selects where the ledger is saved.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path,omitempty"`
}

// AssistConfig holds the assistant settings.
type AssistConfig struct {
	Model  string `toml:"model"`
	APIKey string `toml:"api_key,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency:    "INR",
			ChartMonths: 6,
		},
		Storage: StorageConfig{
			Backend: store.BackendFile,
		},
		Assist: AssistConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bgt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bgt")
}

// Path returns the full path to the default config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "bgt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "bgt")
}

// Load reads the config file at path, or at Path() when empty, returning
// defaults if it doesn't exist. Environment overrides are applied.
func Load(path string) (Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.General.Currency, EnvCurrency)
	override(&c.Storage.Backend, EnvStorage)
	override(&c.Storage.Path, EnvStatePath)
	override(&c.Assist.Model, EnvAssistModel)
	override(&c.Assist.APIKey, EnvGeminiKey)
}

// StatePath returns the storage path, defaulting by backend.
func (c Config) StatePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == store.BackendSQLite {
		return filepath.Join(DataDir(), "state.db")
	}
	return DataDir()
}

// Validate reports every problem in the configuration.
func (c Config) Validate() error {
	var errs []error
	if !budget.KnownCurrency(c.General.Currency) {
		errs = append(errs, fmt.Errorf("general.currency: unknown currency %q", c.General.Currency))
	}
	if c.General.ChartMonths < 1 {
		errs = append(errs, fmt.Errorf("general.chart_months: must be at least 1, got %d", c.General.ChartMonths))
	}
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q, want %q or %q", c.Storage.Backend, store.BackendFile, store.BackendSQLite))
	}
	if strings.TrimSpace(c.StatePath()) == "" {
		errs = append(errs, errors.New("storage.path: must not be empty"))
	}
	return errors.Join(errs...)
}

// Save writes cfg to path, or to Path() when empty.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Encode writes cfg as TOML, without the API key.
func Encode(w io.Writer, cfg Config) error {
	if cfg.Assist.APIKey != "" {
		cfg.Assist.APIKey = "********"
	}
	return toml.NewEncoder(w).Encode(cfg)
}

// Environ returns the configuration as environment variables, for
// extension commands.
func (c Config) Environ() []string {
	return []string{
		EnvCurrency + "=" + c.General.Currency,
		EnvStorage + "=" + c.Storage.Backend,
		EnvStatePath + "=" + c.StatePath(),
		EnvAssistModel + "=" + c.Assist.Model,
	}
}
