package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/model"
	"github.com/runnerr0/montycal/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testCalendar returns a loaded calendar over an in-memory repository.
func testCalendar(t *testing.T) *calendar.Store {
	t.Helper()
	cal := calendar.New(storage.NewMemoryStore())
	require.NoError(t, cal.Load(context.Background()))
	return cal
}

// testSQLiteCalendar returns a loaded calendar over a temporary SQLite file
// and the file's path.
func testSQLiteCalendar(t *testing.T) (*calendar.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, db, err := storage.OpenSQLite(path, "wal")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		db.Close()
	})

	cal := calendar.New(store)
	require.NoError(t, cal.Load(context.Background()))
	return cal, path
}

// mustAdd adds an event through the store and returns it.
func mustAdd(t *testing.T, cal *calendar.Store, title, start, end string) model.Event {
	t.Helper()
	e := model.Event{Title: title, StartDate: model.MustParseDate(start)}
	if end != "" {
		last := model.MustParseDate(end)
		e.EndDate = &last
	}
	saved, err := cal.AddEvent(context.Background(), e)
	require.NoError(t, err)
	return saved
}

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

// isolateEnv points the CLI at a config under a temp dir and clears
// environment overrides.
func isolateEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("MONTYCAL_DB", "")
	t.Setenv("MONTYCAL_BACKEND", "")
	t.Setenv("MONTYCAL_LOG_LEVEL", "")
	return filepath.Join(t.TempDir(), "config.yaml")
}
