package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/hotelops/upkeep/internal/domain/recurrence"
	"github.com/hotelops/upkeep/internal/domain/workitem"
	"github.com/hotelops/upkeep/internal/repository"
	"github.com/stretchr/testify/require"
)

func newDefinition(id string, next *time.Time, active bool) *recurrence.Definition {
	return &recurrence.Definition{
		ID:          id,
		Title:       "Inspect boiler " + id,
		Description: "Monthly safety check",
		Location:    "Plant room",
		Priority:    workitem.PriorityHigh,
		Frequency:   recurrence.FrequencyMonthly,
		DayOfWeek:   1,
		DayOfMonth:  31,
		Month:       0,
		NextDueAt:   next,
		Active:      active,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}

func occurrence(defID string, expected *time.Time, key string, next time.Time) recurrence.Materialization {
	return recurrence.Materialization{
		Item: &workitem.WorkItem{
			ID:            "wi-" + key,
			Title:         "Inspect boiler",
			Description:   "Monthly safety check",
			Location:      "Plant room",
			Priority:      workitem.PriorityHigh,
			Status:        workitem.StatusOpen,
			RecurrenceID:  &defID,
			OccurrenceKey: &key,
			CreatedAt:     testNow,
			UpdatedAt:     testNow,
		},
		DefinitionID:    defID,
		ExpectedNextDue: expected,
		LastGeneratedAt: testNow,
		NextDueAt:       next,
	}
}

func tptr(t time.Time) *time.Time { return &t }

func TestRecurrenceRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)

	def := newDefinition("r1", tptr(testNow.Add(time.Hour)), true)
	require.NoError(t, repo.Create(ctx, def))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, recurrence.FrequencyMonthly, got.Frequency)
	require.Equal(t, 31, got.DayOfMonth)
	require.True(t, got.Active)
	require.Nil(t, got.LastGeneratedAt)
	require.True(t, def.NextDueAt.Equal(*got.NextDueAt))

	got.Active = false
	got.Title = "Inspect boilers"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx, recurrence.ListOptions{ActiveOnly: true})
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = repo.List(ctx, recurrence.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Inspect boilers", list[0].Title)

	require.NoError(t, repo.Delete(ctx, "r1"))
	require.ErrorIs(t, repo.Delete(ctx, "r1"), repository.ErrNotFound)
	_, err = repo.Get(ctx, "r1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
}

func TestRecurrenceRepository_FindDue(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)

	require.NoError(t, repo.Create(ctx, newDefinition("past", tptr(testNow.Add(-time.Hour)), true)))
	require.NoError(t, repo.Create(ctx, newDefinition("exact", tptr(testNow), true)))
	require.NoError(t, repo.Create(ctx, newDefinition("unscheduled", nil, true)))
	require.NoError(t, repo.Create(ctx, newDefinition("future", tptr(testNow.Add(time.Nanosecond)), true)))
	require.NoError(t, repo.Create(ctx, newDefinition("inactive", tptr(testNow.Add(-time.Hour)), false)))

	due, err := repo.FindDue(ctx, testNow)
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, d := range due {
		ids = append(ids, d.ID)
	}
	require.ElementsMatch(t, []string{"past", "exact", "unscheduled"}, ids)
}

func TestRecurrenceRepository_MaterializeOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)
	items := NewWorkItemRepository(db)

	due := testNow.Add(-time.Minute)
	next := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newDefinition("r1", &due, true)))

	require.NoError(t, repo.Materialize(ctx, occurrence("r1", &due, "k1", next)))

	// A second scheduler holding the same stale view loses the swap.
	err := repo.Materialize(ctx, occurrence("r1", &due, "k2", next))
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, testNow.Equal(*got.LastGeneratedAt))
	require.True(t, next.Equal(*got.NextDueAt))

	produced, err := items.List(ctx, workitem.ListOptions{RecurrenceID: strPtr("r1")})
	require.NoError(t, err)
	require.Len(t, produced, 1)
	require.Equal(t, "wi-k1", produced[0].ID)

	err = repo.Materialize(ctx, occurrence("missing", nil, "k3", next))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecurrenceRepository_MaterializeDuplicateKeyRollsBack(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)

	require.NoError(t, repo.Create(ctx, newDefinition("r1", nil, true)))
	first := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Materialize(ctx, occurrence("r1", nil, "dup", first)))

	second := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	m := occurrence("r1", &first, "dup", second)
	m.Item.ID = "other"
	err := repo.Materialize(ctx, m)
	require.ErrorIs(t, err, recurrence.ErrDuplicateOccurrence)
	require.NotErrorIs(t, err, repository.ErrConflict)

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, first.Equal(*got.NextDueAt), "advance must roll back with the failed insert")
}

func TestRecurrenceRepository_DeleteKeepsWorkItems(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)
	items := NewWorkItemRepository(db)

	require.NoError(t, repo.Create(ctx, newDefinition("r1", nil, true)))
	require.NoError(t, repo.Materialize(ctx, occurrence("r1", nil, "k1", testNow.Add(time.Hour))))
	require.NoError(t, repo.Delete(ctx, "r1"))

	item, err := items.Get(ctx, "wi-k1")
	require.NoError(t, err)
	require.Nil(t, item.RecurrenceID)
}

func strPtr(s string) *string { return &s }
