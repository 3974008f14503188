// Package api provides the HTTP API server and handlers for the Planner application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/plannerapp/planner-server/internal/identity"
	"github.com/plannerapp/planner-server/internal/ratelimit"
	"github.com/plannerapp/planner-server/internal/service"
	"github.com/plannerapp/planner-server/internal/store"
	"github.com/plannerapp/planner-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	verifier        identity.Verifier
	categoryService *service.CategoryService
	taskService     *service.TaskService
	streakService   *service.StreakService
	badgeService    *service.BadgeService
	sharingService  *service.SharingService
	calendarService *service.CalendarService
	searchService   *service.SearchService
	userService     *service.UserService
	validator       *validation.Validator
	limiter         *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// Services bundles the service dependencies for the server.
type Services struct {
	Category *service.CategoryService
	Task     *service.TaskService
	Streak   *service.StreakService
	Badge    *service.BadgeService
	Sharing  *service.SharingService
	Calendar *service.CalendarService
	Search   *service.SearchService
	User     *service.UserService
}

// NewServer creates a new HTTP server with all routes configured.
// A nil limiter disables per-user rate limiting.
func NewServer(store *store.Store, verifier identity.Verifier, services *Services, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		store:           store,
		verifier:        verifier,
		categoryService: services.Category,
		taskService:     services.Task,
		streakService:   services.Streak,
		badgeService:    services.Badge,
		sharingService:  services.Sharing,
		calendarService: services.Calendar,
		searchService:   services.Search,
		userService:     services.User,
		validator:       validation.New(),
		limiter:         limiter,
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1. Everything below requires a bearer token.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(s.rateLimit)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Get("/{id}", s.handleGetCategory)
			r.Patch("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Get("/search", s.handleSearchTasks)
			r.Get("/{id}", s.handleGetTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
			r.Post("/{id}/complete", s.handleCompleteTask)
			r.Post("/{id}/snooze", s.handleSnoozeTask)
			r.Post("/{id}/categories", s.handleAttachCategory)
			r.Delete("/{id}/categories/{categoryID}", s.handleDetachCategory)
		})

		r.Route("/streaks", func(r chi.Router) {
			r.Get("/", s.handleListStreaks)
			r.Get("/{id}", s.handleGetStreak)
		})

		r.Route("/badges", func(r chi.Router) {
			r.Get("/", s.handleListBadges)
			r.Get("/{id}", s.handleGetBadge)
		})

		r.Route("/user-badges", func(r chi.Router) {
			r.Get("/", s.handleListUserBadges)
			r.Get("/{id}", s.handleGetUserBadge)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Post("/", s.handleCreatePlan)
			r.Get("/{id}", s.handleGetPlan)
			r.Patch("/{id}", s.handleUpdatePlan)
			r.Delete("/{id}", s.handleDeletePlan)
			r.Get("/{id}/members", s.handleListPlanMembers)
			r.Post("/{id}/members", s.handleAddPlanMember)
			r.Patch("/{id}/members/{userID}", s.handleUpdatePlanMember)
			r.Delete("/{id}/members/{userID}", s.handleRemovePlanMember)
			r.Get("/{id}/tasks", s.handleListPlanTasks)
			r.Post("/{id}/tasks", s.handleAddPlanTask)
			r.Delete("/{id}/tasks/{taskID}", s.handleRemovePlanTask)
		})

		r.Route("/calendar-syncs", func(r chi.Router) {
			r.Get("/", s.handleListCalendarSyncs)
			r.Post("/", s.handleCreateCalendarSync)
			r.Get("/{id}", s.handleGetCalendarSync)
			r.Patch("/{id}", s.handleUpdateCalendarSync)
			r.Delete("/{id}", s.handleDeleteCalendarSync)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.handleGetCurrentUser)
			r.Delete("/me", s.handleDeleteCurrentUser)
		})
	})
}
