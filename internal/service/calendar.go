package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/id"
	"github.com/plannerapp/planner-server/internal/store"
)

// ProviderClient talks to an external calendar provider. The real OAuth
// exchange and event sync live outside this server; the client surface is
// just what the refresh job needs.
type ProviderClient interface {
	// Refresh pings the provider for the given sync record. A nil error
	// means the link is healthy.
	Refresh(ctx context.Context, sync *domain.CalendarSync) error
}

// NoopProviderClient treats every record as healthy. Used when no real
// provider client is configured, and in tests.
type NoopProviderClient struct{}

// Refresh implements ProviderClient as a no-op.
func (NoopProviderClient) Refresh(context.Context, *domain.CalendarSync) error { return nil }

// CalendarService manages calendar sync records and runs the periodic
// refresh job.
type CalendarService struct {
	store    *store.Store
	provider ProviderClient
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(store *store.Store, provider ProviderClient, logger *slog.Logger) *CalendarService {
	if provider == nil {
		provider = NoopProviderClient{}
	}
	return &CalendarService{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// CreateSyncInput carries the writable fields for sync creation. Tokens
// arrive from the client's out-of-band OAuth flow.
type CreateSyncInput struct {
	Provider       string
	ProviderUserID string
	CalendarID     string
	AccessToken    string
	RefreshToken   string
}

// Create records a new provider link for the caller. One record per
// (owner, provider).
func (s *CalendarService) Create(ctx context.Context, ownerID string, input CreateSyncInput) (*domain.CalendarSync, error) {
	sync := &domain.CalendarSync{
		OwnerID:        ownerID,
		Provider:       input.Provider,
		ProviderUserID: input.ProviderUserID,
		CalendarID:     input.CalendarID,
		AccessToken:    input.AccessToken,
		RefreshToken:   input.RefreshToken,
		Status:         domain.CalendarSyncActive,
	}

	syncID, err := id.Generate("calsync")
	if err != nil {
		return nil, errors.Internal("generate calendar sync ID").WithCause(err)
	}
	sync.ID = syncID

	if err := s.store.CreateCalendarSync(ctx, sync); err != nil {
		if stderrors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Validationf("a sync for provider %q already exists", input.Provider)
		}
		return nil, fmt.Errorf("create calendar sync: %w", err)
	}

	return sync, nil
}

// Get returns one sync record, scoped to the caller.
func (s *CalendarService) Get(ctx context.Context, syncID, userID string) (*domain.CalendarSync, error) {
	sync, err := s.store.GetCalendarSync(ctx, syncID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("calendar sync %s not found", syncID)
		}
		return nil, err
	}
	if sync.OwnerID != userID {
		return nil, errors.NotFoundf("calendar sync %s not found", syncID)
	}

	return sync, nil
}

// List returns the caller's sync records.
func (s *CalendarService) List(ctx context.Context, userID string) ([]*domain.CalendarSync, error) {
	return s.store.GetCalendarSyncsForOwner(ctx, userID)
}

// UpdateSyncInput carries the updatable fields. Nil means unchanged.
type UpdateSyncInput struct {
	CalendarID   *string
	AccessToken  *string
	RefreshToken *string
	Status       *string
}

// Update applies field changes to a sync record.
func (s *CalendarService) Update(ctx context.Context, syncID, userID string, input UpdateSyncInput) (*domain.CalendarSync, error) {
	sync, err := s.Get(ctx, syncID, userID)
	if err != nil {
		return nil, err
	}

	if input.CalendarID != nil {
		sync.CalendarID = *input.CalendarID
	}
	if input.AccessToken != nil {
		sync.AccessToken = *input.AccessToken
	}
	if input.RefreshToken != nil {
		sync.RefreshToken = *input.RefreshToken
	}
	if input.Status != nil {
		switch domain.CalendarSyncStatus(*input.Status) {
		case domain.CalendarSyncActive, domain.CalendarSyncPaused, domain.CalendarSyncError:
			sync.Status = domain.CalendarSyncStatus(*input.Status)
		default:
			return nil, errors.Validationf("invalid status %q", *input.Status)
		}
	}

	if err := s.store.UpdateCalendarSync(ctx, sync); err != nil {
		return nil, fmt.Errorf("update calendar sync: %w", err)
	}

	return sync, nil
}

// Delete removes a sync record.
func (s *CalendarService) Delete(ctx context.Context, syncID, userID string) error {
	if _, err := s.Get(ctx, syncID, userID); err != nil {
		return err
	}
	return s.store.DeleteCalendarSync(ctx, syncID)
}

// RefreshAll walks every active sync record and asks the provider client to
// refresh it, stamping synced_at on success and recording failures on the
// row. Each run carries a correlation ID for the logs.
func (s *CalendarService) RefreshAll(ctx context.Context) error {
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID)

	syncs, err := s.store.ListCalendarSyncs(ctx)
	if err != nil {
		return fmt.Errorf("list calendar syncs: %w", err)
	}

	log.Info("calendar refresh run started", "records", len(syncs))

	var failures int
	for _, sync := range syncs {
		if sync.Status == domain.CalendarSyncPaused {
			continue
		}

		if err := s.provider.Refresh(ctx, sync); err != nil {
			failures++
			sync.Status = domain.CalendarSyncError
			sync.LastError = err.Error()
			log.Warn("calendar refresh failed",
				"sync_id", sync.ID,
				"provider", sync.Provider,
				"error", err,
			)
		} else {
			now := time.Now()
			sync.Status = domain.CalendarSyncActive
			sync.SyncedAt = &now
			sync.LastError = ""
		}

		if err := s.store.UpdateCalendarSync(ctx, sync); err != nil {
			log.Error("failed to persist refresh result", "sync_id", sync.ID, "error", err)
		}
	}

	log.Info("calendar refresh run finished", "records", len(syncs), "failures", failures)
	return nil
}

// StartScheduler begins the periodic refresh job on the given cron
// schedule (e.g. "@every 1h").
func (s *CalendarService) StartScheduler(schedule string) error {
	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := s.RefreshAll(ctx); err != nil {
			s.logger.Error("calendar refresh run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule calendar refresh: %w", err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("calendar refresh scheduler started", "schedule", schedule)
	return nil
}

// StopScheduler stops the refresh job, waiting for an in-flight run.
func (s *CalendarService) StopScheduler() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron = nil
}
