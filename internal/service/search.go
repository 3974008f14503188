package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/search"
	"github.com/plannerapp/planner-server/internal/store"
)

// SearchService runs full-text task search and filters results down to the
// caller's visible set, so shared-but-invisible tasks never leak through
// search.
type SearchService struct {
	store   *store.Store
	index   *search.SearchIndex
	sharing *SharingService
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, index *search.SearchIndex, sharing *SharingService, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:   store,
		index:   index,
		sharing: sharing,
		logger:  logger,
	}
}

// Search runs the query and keeps only hits the caller can see.
func (s *SearchService) Search(ctx context.Context, userID string, params search.SearchParams) (*search.SearchResult, error) {
	visible, err := s.sharing.VisibleTaskIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Over-fetch so post-filtering still fills the page.
	requested := params.Limit
	if requested <= 0 {
		requested = 50
	}
	params.Limit = requested * 4

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	filtered := result.Hits[:0]
	for _, hit := range result.Hits {
		if !visible[hit.ID] {
			continue
		}
		filtered = append(filtered, hit)
		if len(filtered) >= requested {
			break
		}
	}
	result.Hits = filtered
	result.Total = uint64(len(filtered))

	return result, nil
}

// Reindex rebuilds the search index from the store. Used at startup when
// the mapping version changes, and exposed for maintenance.
func (s *SearchService) Reindex(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return err
	}

	var all []*domain.Task
	for task, err := range s.store.Tasks.List(ctx) {
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		all = append(all, task)
	}

	if err := s.index.IndexTasks(ctx, all); err != nil {
		return fmt.Errorf("reindex tasks: %w", err)
	}

	s.logger.Info("search reindex complete", "tasks", len(all))
	return nil
}
