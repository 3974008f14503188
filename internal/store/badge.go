package store

import (
	"context"
	"fmt"

	"github.com/plannerapp/planner-server/internal/domain"
)

// CreateBadge adds a badge to the catalog. Codes are unique.
func (s *Store) CreateBadge(ctx context.Context, badge *domain.Badge) error {
	if badge.ID == "" {
		return fmt.Errorf("badge ID is required")
	}
	badge.InitTimestamps()
	return s.Badges.Create(ctx, badge.ID, badge)
}

// GetBadge retrieves a badge by ID.
func (s *Store) GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error) {
	return s.Badges.Get(ctx, badgeID)
}

// GetBadgeByCode retrieves a badge by its unique code.
func (s *Store) GetBadgeByCode(ctx context.Context, code string) (*domain.Badge, error) {
	return s.Badges.GetByIndex(ctx, "code", code)
}

// ListBadgesPage returns one page of the catalog in key order.
func (s *Store) ListBadgesPage(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Badge], error) {
	return s.Badges.ListPage(ctx, params)
}

// AwardBadge records a badge award. The (user, badge) pair is unique, so
// a repeat award fails with ErrAlreadyExists.
func (s *Store) AwardBadge(ctx context.Context, award *domain.UserBadge) error {
	if award.ID == "" {
		return fmt.Errorf("award ID is required")
	}
	award.InitTimestamps()
	return s.UserBadges.Create(ctx, award.ID, award)
}

// GetAward retrieves a badge award by ID.
func (s *Store) GetAward(ctx context.Context, awardID string) (*domain.UserBadge, error) {
	return s.UserBadges.Get(ctx, awardID)
}

// GetAwardsForUser returns all badge awards for a user.
func (s *Store) GetAwardsForUser(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	return s.UserBadges.FindByIndex(ctx, "user", userID)
}
