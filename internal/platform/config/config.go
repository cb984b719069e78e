package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"brack/internal/platform/clock"
)

const (
	FileName            = "brack.yaml"
	DriverSQLite        = "sqlite"
	DriverPostgres      = "postgres"
	DefaultCalendarDays = 90
	MaxCalendarDays     = 3660
	DefaultHTTPAddr     = "127.0.0.1:8080"
)

type Config struct {
	DataDir      string    `yaml:"-"`
	UserID       string    `yaml:"user_id"`
	Timezone     string    `yaml:"timezone"`
	CalendarDays int       `yaml:"calendar_days"`
	Store        StoreConf `yaml:"store"`
	HTTP         HTTPConf  `yaml:"http"`
	Log          LogConf   `yaml:"log"`
}

type StoreConf struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type HTTPConf struct {
	Addr string `yaml:"addr"`
}

type LogConf struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default(dataDir string) Config {
	return Config{
		DataDir:      dataDir,
		UserID:       "local",
		Timezone:     "UTC",
		CalendarDays: DefaultCalendarDays,
		Store:        StoreConf{Driver: DriverSQLite},
		HTTP:         HTTPConf{Addr: DefaultHTTPAddr},
		Log:          LogConf{Level: "info"},
	}
}

// Load reads <dataDir>/brack.yaml when it exists, then applies env overrides.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)
	raw, err := os.ReadFile(cfg.Path())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", cfg.Path(), err)
		}
		cfg.DataDir = dataDir
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Path() string {
	return filepath.Join(c.DataDir, FileName)
}

// SQLitePath is only meaningful for the sqlite driver.
func (c Config) SQLitePath() string {
	if c.Store.DSN != "" {
		return c.Store.DSN
	}
	return filepath.Join(c.DataDir, "brack.db")
}

func (c Config) ActiveSessionPath() string {
	return filepath.Join(c.DataDir, "active-session.json")
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.CalendarDays <= 0 || c.CalendarDays > MaxCalendarDays {
		return fmt.Errorf("calendar_days must be between 1 and %d, got %d", MaxCalendarDays, c.CalendarDays)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	if _, err := clock.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// Save writes the config back to <dataDir>/brack.yaml.
func (c Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(c.Path(), raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BRACK_USER"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("BRACK_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("BRACK_DATABASE_URL"); v != "" {
		c.Store.Driver = DriverPostgres
		c.Store.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}
