package store

import (
	"context"
	"fmt"

	"github.com/plannerapp/planner-server/internal/domain"
)

// CreateCalendarSync creates a sync record. One record exists per
// (owner, provider); a duplicate fails with ErrAlreadyExists.
func (s *Store) CreateCalendarSync(ctx context.Context, sync *domain.CalendarSync) error {
	if sync.ID == "" {
		return fmt.Errorf("calendar sync ID is required")
	}
	if sync.Status == "" {
		sync.Status = domain.CalendarSyncActive
	}
	sync.InitTimestamps()
	return s.CalendarSyncs.Create(ctx, sync.ID, sync)
}

// GetCalendarSync retrieves a sync record by ID.
func (s *Store) GetCalendarSync(ctx context.Context, syncID string) (*domain.CalendarSync, error) {
	return s.CalendarSyncs.Get(ctx, syncID)
}

// GetCalendarSyncsForOwner returns all sync records owned by a user.
func (s *Store) GetCalendarSyncsForOwner(ctx context.Context, ownerID string) ([]*domain.CalendarSync, error) {
	return s.CalendarSyncs.FindByIndex(ctx, "owner", ownerID)
}

// ListCalendarSyncs returns every sync record; used by the refresh job.
func (s *Store) ListCalendarSyncs(ctx context.Context) ([]*domain.CalendarSync, error) {
	var syncs []*domain.CalendarSync
	for sync, err := range s.CalendarSyncs.List(ctx) {
		if err != nil {
			return nil, err
		}
		syncs = append(syncs, sync)
	}
	return syncs, nil
}

// UpdateCalendarSync updates a sync record.
func (s *Store) UpdateCalendarSync(ctx context.Context, sync *domain.CalendarSync) error {
	sync.Touch()
	return s.CalendarSyncs.Update(ctx, sync.ID, sync)
}

// DeleteCalendarSync deletes a sync record. Idempotent.
func (s *Store) DeleteCalendarSync(ctx context.Context, syncID string) error {
	return s.CalendarSyncs.Delete(ctx, syncID)
}
