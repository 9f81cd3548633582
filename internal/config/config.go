package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all tripmeter configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Auth       AuthConfig       `toml:"auth"`
	Budget     BudgetConfig     `toml:"budget"`
	Planner    PlannerConfig    `toml:"planner"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	APIURL            string  `toml:"api_url"`
	USDRate           float64 `toml:"usd_rate"`
	DefaultCurrency   string  `toml:"default_currency"`
	RequestTimeoutSec int     `toml:"request_timeout_sec"`
}

// AuthConfig holds the bearer token issued by the identity provider.
type AuthConfig struct {
	Token string `toml:"token,omitempty"`
}

// BudgetConfig holds budget dashboard settings.
type BudgetConfig struct {
	HighImpactLimit int `toml:"high_impact_limit"`
}

// Regenerate modes for planning a destination that already has a trip.
const (
	RegenerateUpdate = "update"
	RegenerateNew    = "new"
)

// PlannerConfig holds itinerary planner settings.
type PlannerConfig struct {
	Regenerate  string `toml:"regenerate"`
	DefaultPace string `toml:"default_pace"`
	GroupSize   int    `toml:"group_size"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			APIURL:            "http://localhost:8000",
			USDRate:           80,
			DefaultCurrency:   "₹",
			RequestTimeoutSec: 10,
		},
		Budget: BudgetConfig{
			HighImpactLimit: 5,
		},
		Planner: PlannerConfig{
			Regenerate:  RegenerateUpdate,
			DefaultPace: DefaultPace,
			GroupSize:   2,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripmeter")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripmeter")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetAPIURL returns the insight API base URL from env var or config, in that order.
func GetAPIURL(cfg Config) string {
	if u := os.Getenv("TRIPMETER_API_URL"); u != "" {
		return u
	}
	if cfg.General.APIURL == "" {
		return DefaultConfig().General.APIURL
	}
	return cfg.General.APIURL
}

// GetToken returns the bearer token from env var or config, in that order.
func GetToken(cfg Config) string {
	if tok := os.Getenv("TRIPMETER_TOKEN"); tok != "" {
		return tok
	}
	return cfg.Auth.Token
}

// RequestTimeout returns the per-request network timeout.
func RequestTimeout(cfg Config) time.Duration {
	if cfg.General.RequestTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.General.RequestTimeoutSec) * time.Second
}

// RefreshInterval returns the TUI auto-refresh interval, never below 10s.
func RefreshInterval(cfg Config) time.Duration {
	sec := cfg.TUI.RefreshIntervalSec
	if sec < 10 {
		sec = 10
	}
	return time.Duration(sec) * time.Second
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
