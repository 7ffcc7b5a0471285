package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDB       = "MONTYCAL_DB"
	EnvBackend  = "MONTYCAL_BACKEND"
	EnvLogLevel = "MONTYCAL_LOG_LEVEL"
)

// ApplyEnv overlays environment overrides onto cfg. Values come from the
// process environment first, then from envFiles (default ".env" in the
// working directory, skipped when absent). The process environment is not
// modified.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	fileVals, err := readEnvFiles(envFiles)
	if err != nil {
		return err
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fileVals[key]
	}

	if v := lookup(EnvDB); v != "" {
		cfg.Storage.SQLiteFile = v
		cfg.Storage.Path = ""
	}
	if v := lookup(EnvBackend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}

	return cfg.Validate()
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		files = []string{".env"}
	}
	vals, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return vals, nil
}
