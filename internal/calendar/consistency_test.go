package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/montycal/internal/model"
)

// corrupt writes a day record straight to the repository and reloads.
func corrupt(t *testing.T, s *Store, repo *recordingRepo, rec model.DayRecord) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Repository.SaveDayData(ctx, rec))
	require.NoError(t, s.Load(ctx))
}

func TestCheck_CleanStore(t *testing.T) {
	s, _ := openTestCalendar(t)
	ctx := context.Background()

	_, err := s.AddEvent(ctx, span("2024-01-01", "2024-01-10"))
	require.NoError(t, err)
	_, err = s.AddEvent(ctx, span("2024-01-05", ""))
	require.NoError(t, err)

	assert.Empty(t, s.Check())
}

func TestCheck_DetectsEveryKind(t *testing.T) {
	s, repo := openTestCalendar(t)
	ctx := context.Background()

	e, err := s.AddEvent(ctx, span("2024-01-01", "2024-01-02"))
	require.NoError(t, err)

	dup := model.DayRecord{DateKey: d("2024-01-01"), EventIDs: []string{e.ID, e.ID}}
	corrupt(t, s, repo, dup)
	corrupt(t, s, repo, model.DayRecord{DateKey: d("2024-01-02"), EventIDs: []string{}})
	corrupt(t, s, repo, model.DayRecord{DateKey: d("2024-01-03"), EventIDs: []string{"ghost", e.ID}})

	issues := s.Check()
	assert.ElementsMatch(t, []Issue{
		{Kind: IssueDuplicate, Date: d("2024-01-01"), EventID: e.ID},
		{Kind: IssueMissing, Date: d("2024-01-02"), EventID: e.ID},
		{Kind: IssueDangling, Date: d("2024-01-03"), EventID: "ghost"},
		{Kind: IssueStray, Date: d("2024-01-03"), EventID: e.ID},
	}, issues)
	assert.Equal(t, "2024-01-01", issues[0].Date.String(), "ordered by date")
}

func TestRepair_RestoresInvariant(t *testing.T) {
	s, repo := openTestCalendar(t)
	ctx := context.Background()

	a, err := s.AddEvent(ctx, span("2024-01-01", "2024-01-02"))
	require.NoError(t, err)
	b, err := s.AddEvent(ctx, span("2024-01-01", ""))
	require.NoError(t, err)

	corrupt(t, s, repo, model.DayRecord{DateKey: d("2024-01-01"), EventIDs: []string{b.ID, "ghost", a.ID, b.ID}, Notes: model.Optional("keep me")})
	corrupt(t, s, repo, model.DayRecord{DateKey: d("2024-01-02"), EventIDs: []string{}})
	corrupt(t, s, repo, model.DayRecord{DateKey: d("2024-01-09"), EventIDs: []string{a.ID}})

	n, err := s.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, s.Check())

	rec, _ := s.Day(d("2024-01-01"))
	assert.Equal(t, []string{b.ID, a.ID}, rec.EventIDs, "surviving ids keep their order")
	assert.Equal(t, "keep me", model.Value(rec.Notes))

	rec, ok := s.Day(d("2024-01-09"))
	require.True(t, ok, "records are emptied, never deleted")
	assert.Empty(t, rec.EventIDs)

	// repaired state is persisted
	reloaded := New(repo.Repository)
	require.NoError(t, reloaded.Load(ctx))
	assert.Empty(t, reloaded.Check())
}

func TestRepair_NothingToDo(t *testing.T) {
	s, repo := openTestCalendar(t)
	ctx := context.Background()

	_, err := s.AddEvent(ctx, span("2024-01-01", "2024-01-03"))
	require.NoError(t, err)
	repo.reset()

	n, err := s.Repair(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, repo.dayWrites)
}
