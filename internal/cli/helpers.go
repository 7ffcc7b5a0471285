package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/config"
	"github.com/runnerr0/montycal/internal/logging"
	"github.com/runnerr0/montycal/internal/model"
	"github.com/runnerr0/montycal/internal/storage"
)

// session is an opened, loaded calendar plus the config it was built from.
type session struct {
	cfg     *config.Config
	cal     *calendar.Store
	backend string
	dbPath  string
	closeFn func() error
}

func (s *session) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// loadConfig reads --config when given, otherwise the default path, then
// applies environment overrides.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if globals != nil && globals.Config != "" {
		path, perr := config.ExpandPath(globals.Config)
		if perr != nil {
			return nil, perr
		}
		cfg, err = config.LoadOrCreateAt(path)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	if globals != nil && globals.Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openSession builds the single calendar Store for this process: config,
// logger, repository, Load, then category seeding.
func openSession(ctx context.Context, globals *GlobalFlags) (*session, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	s := &session{cfg: cfg, backend: cfg.Storage.Backend}
	var repo storage.Repository

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		repo = storage.NewMemoryStore()
		s.closeFn = repo.Close
	default:
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, err
		}
		store, db, err := storage.OpenSQLite(path, cfg.Storage.SQLiteJournalMode)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		repo = store
		s.dbPath = path
		s.closeFn = func() error {
			store.Close()
			return db.Close()
		}
	}

	s.cal = calendar.New(repo, calendar.WithLogger(logger))
	if err := s.cal.Load(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if _, err := s.cal.SeedCategories(ctx, cfg.SeedCategories()); err != nil {
		s.Close()
		return nil, err
	}

	logger.Debug("session opened", "backend", s.backend, "db", s.dbPath)
	return s, nil
}

// withSession opens a session, runs fn, and closes the session.
func withSession(globals *GlobalFlags, fn func(*session) error) error {
	s, err := openSession(context.Background(), globals)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func configOrDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

func jsonOutput(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDateFlag(name, value string) (model.Date, error) {
	d, err := model.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return model.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// formatSpan renders an event's dates and times on one line.
func formatSpan(e model.Event) string {
	var b strings.Builder
	b.WriteString(e.StartDate.String())
	if t := model.Value(e.StartTime); t != "" {
		b.WriteString(" " + t)
	}
	if e.IsMultiDay() {
		b.WriteString(" .. " + e.EndDate.String())
	}
	if t := model.Value(e.EndTime); t != "" {
		if e.IsMultiDay() {
			b.WriteString(" " + t)
		} else {
			b.WriteString("-" + t)
		}
	}
	return b.String()
}

func orDash(s *string) string {
	if v := model.Value(s); v != "" {
		return v
	}
	return "-"
}

// categoryName resolves a category id for display, marking dangling ids.
func categoryName(cal *calendar.Store, id *string) string {
	if id == nil {
		return "-"
	}
	if c, ok := cal.Category(*id); ok {
		return c.Name
	}
	return *id + " (deleted)"
}
