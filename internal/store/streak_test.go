package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementStreak_CreatesRowOnFirstCompletion(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	streak, err := s.IncrementStreak(ctx, "user-1", day)
	require.NoError(t, err)

	assert.Equal(t, "user-1", streak.UserID)
	assert.Equal(t, "2026-03-14", streak.Date)
	assert.Equal(t, 1, streak.TasksCompleted)
	assert.True(t, streak.IsCompletedDay)
}

func TestIncrementStreak_SameDayAccumulates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for range 3 {
		_, err := s.IncrementStreak(ctx, "user-1", day)
		require.NoError(t, err)
	}

	// Later the same day lands on the same row.
	evening := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)
	streak, err := s.IncrementStreak(ctx, "user-1", evening)
	require.NoError(t, err)
	assert.Equal(t, 4, streak.TasksCompleted)

	rows, err := s.GetStreaksForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestIncrementStreak_SeparateDaysAndUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	_, err := s.IncrementStreak(ctx, "user-1", day1)
	require.NoError(t, err)
	_, err = s.IncrementStreak(ctx, "user-1", day2)
	require.NoError(t, err)
	_, err = s.IncrementStreak(ctx, "user-2", day1)
	require.NoError(t, err)

	rows, err := s.GetStreaksForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	other, err := s.GetStreakForDay(ctx, "user-2", day1)
	require.NoError(t, err)
	assert.Equal(t, 1, other.TasksCompleted)
}

func TestIncrementStreak_ConcurrentCompletionsDoNotLoseIncrements(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const workers = 20
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementStreak(ctx, "user-1", day)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	streak, err := s.GetStreakForDay(ctx, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, workers, streak.TasksCompleted)
}
