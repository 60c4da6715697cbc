package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/hotelops/upkeep/internal/clock"
	"github.com/hotelops/upkeep/internal/domain/activity"
	"github.com/hotelops/upkeep/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	itemID := "wi1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		WorkItemID:   &itemID,
		ActivityType: activity.TypeTrackingStarted,
		Summary:      "started",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{WorkItemID: &itemID, Limit: 50}).Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, clock.NewManual(now), nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.Equal(t, now, entry.CreatedAt)

	_, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{WorkItemID: &itemID})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_LogRejectsUntyped(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	svc := activity.NewService(repo, nil, nil)

	err := svc.LogActivity(context.Background(), &activity.ActivityEntry{Summary: "no type"})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
	repo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}
