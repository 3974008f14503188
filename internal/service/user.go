package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/store"
)

// UserService exposes the caller's own account.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// Get returns the caller's account row.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// Delete wipes the caller's account and everything they own.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.store.DeleteUserData(ctx, userID); err != nil {
		return fmt.Errorf("delete user data: %w", err)
	}

	s.logger.Info("user account deleted", "user_id", userID)
	return nil
}
