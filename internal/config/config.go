package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"budgetplan/internal/models"
)

// AppName names the config and data directories under the XDG base dirs
const AppName = "budgetplan"

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `yaml:"listen_addr"`
	Debug      bool   `yaml:"debug"`

	// Storage
	DataDirectory string `yaml:"data_directory"`
	StateFile     string `yaml:"state_file"`

	// Password unlocks an encrypted data directory at startup. Prefer the
	// environment over writing it to the config file.
	Password string `yaml:"-"`

	// Allocation given to new periods
	SavingsPct  float64 `yaml:"savings_pct"`
	SpendingPct float64 `yaml:"spending_pct"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:    ":8080",
		Debug:         false,
		DataDirectory: filepath.Join(xdg.DataHome, AppName),
		StateFile:     "state.json",
		SavingsPct:    models.DefaultSavingsPct,
		SpendingPct:   models.DefaultSpendingPct,
	}
}

// DefaultConfigPath is where Load looks for a config file when BUDGET_CONFIG is unset
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load builds the configuration from defaults, the YAML config file if
// present, and BUDGET_* environment variables, in that order
func Load() *Config {
	path := os.Getenv("BUDGET_CONFIG")
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := LoadFile(path)
	if err != nil {
		log.Printf("Warning: ignoring config file %s: %v", path, err)
		cfg = DefaultConfig()
	}
	cfg.applyEnv()

	if err := os.MkdirAll(cfg.DataDirectory, 0o700); err != nil {
		log.Printf("Warning: could not create directory %s: %v", cfg.DataDirectory, err)
	}
	return cfg
}

// LoadFile reads a YAML config file over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from BUDGET_* environment variables
func (c *Config) applyEnv() {
	if addr := os.Getenv("BUDGET_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if debug := os.Getenv("BUDGET_DEBUG"); debug == "true" || debug == "1" {
		c.Debug = true
	}
	if dataDir := os.Getenv("BUDGET_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if stateFile := os.Getenv("BUDGET_STATE_FILE"); stateFile != "" {
		c.StateFile = stateFile
	}
	if password := os.Getenv("BUDGET_PASSWORD"); password != "" {
		c.Password = password
	}
	c.SavingsPct = envPct("BUDGET_SAVINGS_PCT", c.SavingsPct)
	c.SpendingPct = envPct("BUDGET_SPENDING_PCT", c.SpendingPct)
}

func envPct(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 100 {
		log.Printf("Warning: ignoring %s=%q, want a percentage between 0 and 100", key, raw)
		return fallback
	}
	return v
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	if c.SavingsPct < 0 || c.SavingsPct > 100 {
		return fmt.Errorf("savings_pct must be between 0 and 100, got %g", c.SavingsPct)
	}
	if c.SpendingPct < 0 || c.SpendingPct > 100 {
		return fmt.Errorf("spending_pct must be between 0 and 100, got %g", c.SpendingPct)
	}
	if c.DataDirectory == "" {
		return errors.New("data_directory must not be empty")
	}
	return nil
}

// StatePath returns the full path of the state snapshot
func (c *Config) StatePath() string {
	if filepath.IsAbs(c.StateFile) {
		return c.StateFile
	}
	return filepath.Join(c.DataDirectory, c.StateFile)
}
