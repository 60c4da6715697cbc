package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/hotelops/upkeep/internal/domain/timetrack"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
	"github.com/stretchr/testify/require"
)

func openEntry(id, workItemID string) *timetrack.TimeEntry {
	return &timetrack.TimeEntry{
		ID:             id,
		WorkItemID:     workItemID,
		WorkerID:       "maria",
		StartedAt:      testNow,
		PauseIntervals: []timetrack.PauseInterval{},
		Version:        1,
	}
}

func TestTimeEntryRepository_OneOpenEntryPerWorkItem(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTimeEntryRepository(db)
	seedWorkItem(t, db, "wi1", workitem.StatusOpen)
	seedWorkItem(t, db, "wi2", workitem.StatusOpen)

	require.NoError(t, repo.InsertIfNoneOpen(ctx, openEntry("e1", "wi1")))
	require.ErrorIs(t, repo.InsertIfNoneOpen(ctx, openEntry("e2", "wi1")), repository.ErrConflict)
	require.NoError(t, repo.InsertIfNoneOpen(ctx, openEntry("e3", "wi2")))

	err := repo.InsertIfNoneOpen(ctx, openEntry("e4", "missing"))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	open, err := repo.FindOpen(ctx, "wi1")
	require.NoError(t, err)
	require.Equal(t, "e1", open.ID)
	require.Empty(t, open.PauseIntervals)
}

func TestTimeEntryRepository_UpdateVersioned(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTimeEntryRepository(db)
	seedWorkItem(t, db, "wi1", workitem.StatusOpen)

	entry := openEntry("e1", "wi1")
	require.NoError(t, repo.InsertIfNoneOpen(ctx, entry))

	paused := *entry
	paused.PauseIntervals = []timetrack.PauseInterval{{PausedAt: testNow.Add(10 * time.Minute)}}
	paused.Version = 2
	require.NoError(t, repo.Update(ctx, &paused, 1))

	stale := paused
	stale.Version = 2
	require.ErrorIs(t, repo.Update(ctx, &stale, 1), repository.ErrConflict)

	missing := paused
	missing.ID = "nope"
	require.ErrorIs(t, repo.Update(ctx, &missing, 2), repository.ErrNotFound)

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Version)
	require.Len(t, got.PauseIntervals, 1)
	require.True(t, testNow.Add(10*time.Minute).Equal(got.PauseIntervals[0].PausedAt))
	require.Nil(t, got.PauseIntervals[0].ResumedAt)
	require.Equal(t, timetrack.StatePaused, got.State())
}

func TestTimeEntryRepository_CloseAddsMinutes(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTimeEntryRepository(db)
	items := NewWorkItemRepository(db)
	seedWorkItem(t, db, "wi1", workitem.StatusInProgress)

	for i, id := range []string{"e1", "e2"} {
		entry := openEntry(id, "wi1")
		require.NoError(t, repo.InsertIfNoneOpen(ctx, entry))

		ended := testNow.Add(time.Duration(i+1) * time.Hour)
		entry.EndedAt = &ended
		entry.ActiveMinutes = 45
		entry.Notes = "done"
		entry.Version = 2
		require.NoError(t, repo.Close(ctx, entry, 1))
	}

	item, err := items.Get(ctx, "wi1")
	require.NoError(t, err)
	require.Equal(t, int64(90), item.TotalMinutes)

	_, err = repo.FindOpen(ctx, "wi1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := repo.ListByWorkItem(ctx, "wi1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, timetrack.StateStopped, e.State())
		require.Equal(t, int64(45), e.ActiveMinutes)
	}
}

func TestTimeEntryRepository_CloseTwiceConflicts(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTimeEntryRepository(db)
	items := NewWorkItemRepository(db)
	seedWorkItem(t, db, "wi1", workitem.StatusInProgress)

	entry := openEntry("e1", "wi1")
	require.NoError(t, repo.InsertIfNoneOpen(ctx, entry))

	ended := testNow.Add(time.Hour)
	entry.EndedAt = &ended
	entry.ActiveMinutes = 60
	entry.Version = 2
	require.NoError(t, repo.Close(ctx, entry, 1))
	require.ErrorIs(t, repo.Close(ctx, entry, 1), repository.ErrConflict)

	item, err := items.Get(ctx, "wi1")
	require.NoError(t, err)
	require.Equal(t, int64(60), item.TotalMinutes)
}
