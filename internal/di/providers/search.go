package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/plannerapp/planner-server/internal/config"
	"github.com/plannerapp/planner-server/internal/logger"
	"github.com/plannerapp/planner-server/internal/search"
	"github.com/plannerapp/planner-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Storage.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service and wires the index to
// the store so task mutations keep it in sync.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sharing := do.MustInvoke[*service.SharingService](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(storeHandle.Store, indexHandle.SearchIndex, sharing, log.Logger)

	storeHandle.SetSearchIndexer(indexHandle.SearchIndex)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index from the store when it
// came up empty (fresh index or mapping change). Call after all services
// are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, err := indexHandle.DocumentCount()
	if err != nil || docCount > 0 {
		return
	}

	go func() {
		if err := searchService.Reindex(context.Background()); err != nil {
			log.Warn("Search reindex failed", "error", err)
		}
	}()
}
