package service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/store"
)

// BadgeService exposes the read-only badge catalog and per-user awards.
// Catalog writes happen through cmd/seed; the award write path lives at
// the store layer.
type BadgeService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBadgeService creates a new badge service.
func NewBadgeService(store *store.Store, logger *slog.Logger) *BadgeService {
	return &BadgeService{
		store:  store,
		logger: logger,
	}
}

// ListBadges returns one page of the catalog. The catalog is small, so
// the default page normally covers it.
func (s *BadgeService) ListBadges(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Badge], error) {
	params.Validate()
	return s.store.ListBadgesPage(ctx, params)
}

// GetBadge returns one catalog entry.
func (s *BadgeService) GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error) {
	badge, err := s.store.GetBadge(ctx, badgeID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("badge %s not found", badgeID)
		}
		return nil, err
	}
	return badge, nil
}

// ListAwards returns the caller's badge awards.
func (s *BadgeService) ListAwards(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	return s.store.GetAwardsForUser(ctx, userID)
}

// GetAward returns one award, scoped to the caller.
func (s *BadgeService) GetAward(ctx context.Context, awardID, userID string) (*domain.UserBadge, error) {
	award, err := s.store.GetAward(ctx, awardID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("award %s not found", awardID)
		}
		return nil, err
	}
	if award.UserID != userID {
		return nil, errors.NotFoundf("award %s not found", awardID)
	}

	return award, nil
}
