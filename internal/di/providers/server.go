package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/plannerapp/planner-server/internal/api"
	"github.com/plannerapp/planner-server/internal/config"
	"github.com/plannerapp/planner-server/internal/identity"
	"github.com/plannerapp/planner-server/internal/logger"
	"github.com/plannerapp/planner-server/internal/ratelimit"
	"github.com/plannerapp/planner-server/internal/service"
)

// RateLimiterHandle wraps the keyed limiter so its janitor stops on shutdown.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-user request limiter. A zero rate
// disables limiting (nil limiter).
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	if cfg.Server.RateLimit == 0 {
		return &RateLimiterHandle{}, nil
	}

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Server.RateLimit, cfg.Server.RateBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	verifier := do.MustInvoke[identity.Verifier](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	calendarHandle := do.MustInvoke[*CalendarServiceHandle](i)

	services := &api.Services{
		Category: do.MustInvoke[*service.CategoryService](i),
		Task:     do.MustInvoke[*service.TaskService](i),
		Streak:   do.MustInvoke[*service.StreakService](i),
		Badge:    do.MustInvoke[*service.BadgeService](i),
		Sharing:  do.MustInvoke[*service.SharingService](i),
		Calendar: calendarHandle.CalendarService,
		Search:   do.MustInvoke[*service.SearchService](i),
		User:     do.MustInvoke[*service.UserService](i),
	}

	handler := api.NewServer(storeHandle.Store, verifier, services, limiterHandle.KeyedRateLimiter, log.Logger)

	// Rebuild the search index in the background if it came up empty.
	TriggerSearchReindexIfNeeded(i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
