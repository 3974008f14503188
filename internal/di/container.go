// Package di provides dependency injection configuration for the Planner server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/plannerapp/planner-server/internal/config"
	"github.com/plannerapp/planner-server/internal/di/providers"
	"github.com/plannerapp/planner-server/internal/identity"
	"github.com/plannerapp/planner-server/internal/logger"
	"github.com/plannerapp/planner-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideVerifier)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideSharingService)
	do.Provide(injector, providers.ProvideStreakService)
	do.Provide(injector, providers.ProvideTaskService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideBadgeService)
	do.Provide(injector, providers.ProvideCalendarService)
	do.Provide(injector, providers.ProvideUserService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly initializes all services so startup failures surface
// immediately instead of on first use.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[identity.Verifier](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.SharingService](injector)
	_ = do.MustInvoke[*service.StreakService](injector)
	_ = do.MustInvoke[*service.TaskService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.BadgeService](injector)
	_ = do.MustInvoke[*providers.CalendarServiceHandle](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
