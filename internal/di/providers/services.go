package providers

import (
	"github.com/samber/do/v2"

	"github.com/plannerapp/planner-server/internal/config"
	"github.com/plannerapp/planner-server/internal/logger"
	"github.com/plannerapp/planner-server/internal/service"
)

// ProvideSharingService provides the plan sharing and visibility service.
func ProvideSharingService(i do.Injector) (*service.SharingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSharingService(storeHandle.Store, log.Logger), nil
}

// ProvideStreakService provides the daily streak tracker.
func ProvideStreakService(i do.Injector) (*service.StreakService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewStreakService(storeHandle.Store, log.Logger), nil
}

// ProvideTaskService provides the task service.
func ProvideTaskService(i do.Injector) (*service.TaskService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sharing := do.MustInvoke[*service.SharingService](i)
	streaks := do.MustInvoke[*service.StreakService](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTaskService(storeHandle.Store, sharing, streaks, log.Logger), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCategoryService(storeHandle.Store, log.Logger), nil
}

// ProvideBadgeService provides the badge catalog and award service.
func ProvideBadgeService(i do.Injector) (*service.BadgeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBadgeService(storeHandle.Store, log.Logger), nil
}

// CalendarServiceHandle wraps the calendar service so the refresh
// scheduler stops on shutdown.
type CalendarServiceHandle struct {
	*service.CalendarService
}

// Shutdown implements do.Shutdownable.
func (h *CalendarServiceHandle) Shutdown() error {
	h.StopScheduler()
	return nil
}

// ProvideCalendarService provides the calendar sync service and starts the
// background refresh job when a schedule is configured.
func ProvideCalendarService(i do.Injector) (*CalendarServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewCalendarService(storeHandle.Store, nil, log.Logger)

	if cfg.Sync.Schedule != "" {
		if err := svc.StartScheduler(cfg.Sync.Schedule); err != nil {
			return nil, err
		}
	} else {
		log.Info("Calendar refresh job disabled")
	}

	return &CalendarServiceHandle{CalendarService: svc}, nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewUserService(storeHandle.Store, log.Logger), nil
}
