package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Company settings
	Company CompanyConfig `yaml:"company"`

	// Tariff applied to every rental
	Pricing PricingConfig `yaml:"pricing"`

	// Logging
	Log LogConfig `yaml:"log"`

	// Scooters registered at startup
	Fleet []ScooterConfig `yaml:"fleet"`

	// Rental record exports
	Export ExportConfig `yaml:"export"`
}

type CompanyConfig struct {
	Name string `yaml:"name"`
}

type PricingConfig struct {
	PerMinuteRate decimal.Decimal `yaml:"per_minute_rate"` // Charged per started minute
	DailyCap      decimal.Decimal `yaml:"daily_cap"`       // Maximum charged for one calendar day
	Location      string          `yaml:"location"`        // Time zone rentals are clocked in (e.g. "Europe/Riga")
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // Empty logs to stderr (discarded in the TUI)
}

type ExportConfig struct {
	Dir string `yaml:"dir"` // Directory the TUI writes record snapshots to
}

type ScooterConfig struct {
	ID             string          `yaml:"id"`
	PricePerMinute decimal.Decimal `yaml:"price_per_minute"`
}

// DefaultConfigPath returns ~/.config/scootrent/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "scootrent", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "scootrent", "config.yaml")
}

// DefaultExportDir returns ~/.local/share/scootrent/exports
func DefaultExportDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "exports")
	}
	return filepath.Join(homeDir, ".local", "share", "scootrent", "exports")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Company: CompanyConfig{
			Name: "default",
		},
		Pricing: PricingConfig{
			PerMinuteRate: decimal.RequireFromString("0.2"),
			DailyCap:      decimal.NewFromInt(20),
			Location:      "Local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Fleet: []ScooterConfig{},
		Export: ExportConfig{
			Dir: DefaultExportDir(),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate returns an error if the tariff or time zone is unusable
func (c *Config) Validate() error {
	if !c.Pricing.PerMinuteRate.IsPositive() {
		return errors.New("pricing.per_minute_rate must be positive")
	}
	if !c.Pricing.DailyCap.IsPositive() {
		return errors.New("pricing.daily_cap must be positive")
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	for i, s := range c.Fleet {
		if s.ID == "" {
			return fmt.Errorf("fleet[%d]: id is required", i)
		}
	}
	return nil
}

// TimeLocation resolves the configured time zone
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Pricing.Location == "" || c.Pricing.Location == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Pricing.Location)
	if err != nil {
		return nil, fmt.Errorf("pricing.location: %w", err)
	}
	return loc, nil
}

// EnsureDirectories creates the log file directory if one is configured
func (c *Config) EnsureDirectories() error {
	if c.Log.File == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.Log.File), 0755)
}
