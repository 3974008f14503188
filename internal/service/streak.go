package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/store"
)

// StreakService tracks per-user per-day completion tallies.
type StreakService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStreakService creates a new streak service.
func NewStreakService(store *store.Store, logger *slog.Logger) *StreakService {
	return &StreakService{
		store:  store,
		logger: logger,
	}
}

// RecordCompletion increments the user's tally for the day the completion
// happened. The store increment is a single atomic transaction.
func (s *StreakService) RecordCompletion(ctx context.Context, userID string, at time.Time) (*domain.Streak, error) {
	streak, err := s.store.IncrementStreak(ctx, userID, at)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("streak incremented",
		"user_id", userID,
		"date", streak.Date,
		"tasks_completed", streak.TasksCompleted,
	)

	return streak, nil
}

// List returns all streak rows for the caller.
func (s *StreakService) List(ctx context.Context, userID string) ([]*domain.Streak, error) {
	return s.store.GetStreaksForUser(ctx, userID)
}

// Get returns one streak row, scoped to the caller. Other users' rows read
// as not found.
func (s *StreakService) Get(ctx context.Context, streakID, userID string) (*domain.Streak, error) {
	streak, err := s.store.GetStreak(ctx, streakID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("streak %s not found", streakID)
		}
		return nil, err
	}
	if streak.UserID != userID {
		return nil, errors.NotFoundf("streak %s not found", streakID)
	}

	return streak, nil
}
