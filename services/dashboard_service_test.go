package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardLoadEmpty(t *testing.T) {
	db := openTestDB(t)
	activities := NewActivityService(db, nil, nil)
	goals := NewGoalService(db, activities)
	streaks := NewStreakService(db, time.UTC, activities, nil)
	d := NewDashboardService(db, goals, streaks, activities)

	dash, err := d.Load(context.Background(), 1)
	require.NoError(t, err)

	assert.NotNil(t, dash.Goals)
	assert.Empty(t, dash.Goals)
	assert.NotNil(t, dash.Activities)
	assert.Empty(t, dash.Activities)
	assert.Equal(t, 0, dash.Streak.CurrentStreak)
	assert.Nil(t, dash.Streak.LastCheckIn)
}

func TestDashboardLoadAggregates(t *testing.T) {
	db := openTestDB(t)
	activities := NewActivityService(db, nil, nil)
	goals := NewGoalService(db, activities)
	streaks := NewStreakService(db, time.UTC, activities, nil)
	d := NewDashboardService(db, goals, streaks, activities)
	ctx := context.Background()

	_, err := goals.Add(ctx, 1, "run 5k")
	require.NoError(t, err)
	_, err = streaks.CheckIn(ctx, 1)
	require.NoError(t, err)

	dash, err := d.Load(ctx, 1)
	require.NoError(t, err)

	require.Len(t, dash.Goals, 1)
	assert.Equal(t, "run 5k", dash.Goals[0].Text)
	assert.Equal(t, 1, dash.Streak.CurrentStreak)
	assert.NotEmpty(t, dash.Activities)
}
