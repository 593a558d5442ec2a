package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGoalTrimsAndValidates(t *testing.T) {
	db := openTestDB(t)
	s := NewGoalService(db, nil)
	ctx := context.Background()

	_, err := s.Add(ctx, 1, "   ")
	assert.ErrorIs(t, err, ErrGoalTextEmpty)

	goal, err := s.Add(ctx, 1, "  run 5k  ")
	require.NoError(t, err)
	assert.Equal(t, "run 5k", goal.Text)
	assert.False(t, goal.Completed)
}

func TestToggleGoal(t *testing.T) {
	db := openTestDB(t)
	s := NewGoalService(db, nil)
	ctx := context.Background()

	goal, err := s.Add(ctx, 1, "stretch daily")
	require.NoError(t, err)

	toggled, err := s.Toggle(ctx, 1, goal.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = s.Toggle(ctx, 1, goal.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	// other users cannot touch it
	_, err = s.Toggle(ctx, 2, goal.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestDeleteGoal(t *testing.T) {
	db := openTestDB(t)
	s := NewGoalService(db, nil)
	ctx := context.Background()

	goal, err := s.Add(ctx, 1, "drink water")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, 1, goal.ID))
	assert.ErrorIs(t, s.Delete(ctx, 1, goal.ID), ErrGoalNotFound)

	goals, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestGoalChangesAppendToLedger(t *testing.T) {
	db := openTestDB(t)
	activities := NewActivityService(db, nil, nil)
	s := NewGoalService(db, activities)
	ctx := context.Background()

	goal, err := s.Add(ctx, 1, "meditate")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, 1, goal.ID)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, 1, goal.ID))

	entries, err := activities.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	actions := []string{entries[0].Action, entries[1].Action, entries[2].Action}
	assert.Contains(t, actions, "Added new goal")
	assert.Contains(t, actions, "Completed goal")
	assert.Contains(t, actions, "Deleted goal")
}
