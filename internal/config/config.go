package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/montycal/config.yaml"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var journalModes = []string{"", "wal", "delete", "truncate", "persist", "memory", "off"}

// Config holds all montycal configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Calendar CalendarConfig `yaml:"calendar"`
	Layout   LayoutConfig   `yaml:"layout"`
	ICS      ICSConfig      `yaml:"ics"`
}

type StorageConfig struct {
	Backend           string `yaml:"backend"`
	Path              string `yaml:"path"`
	SQLiteFile        string `yaml:"sqlite_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CalendarConfig struct {
	SeedDefaultCategories bool             `yaml:"seed_default_categories"`
	DefaultCategories     []CategoryConfig `yaml:"default_categories"`
}

// CategoryConfig is one seeded category. Sort order follows list position.
type CategoryConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type LayoutConfig struct {
	DefaultColor string `yaml:"default_color"`
}

type ICSConfig struct {
	ProductID string `yaml:"product_id"`
	Timezone  string `yaml:"timezone"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML, or
// fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and the ICS timezone.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if !slices.Contains(journalModes, strings.ToLower(c.Storage.SQLiteJournalMode)) {
		return fmt.Errorf("storage.sqlite_journal_mode: unknown mode %q", c.Storage.SQLiteJournalMode)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves ics.timezone. An empty value means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.ICS.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ICS.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ics.timezone: %w", err)
	}
	return loc, nil
}

// DatabasePath returns the resolved SQLite file path.
func (c *Config) DatabasePath() (string, error) {
	if filepath.IsAbs(c.Storage.SQLiteFile) {
		return c.Storage.SQLiteFile, nil
	}
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path, writing defaults
// there first when the file is missing.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
