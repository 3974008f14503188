// Package store persists planner entities in BadgerDB. Each entity type is
// a generic Entity[T] with its own key prefix; uniqueness constraints and
// lookup indexes are maintained inside the same badger transaction as the
// primary write.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/plannerapp/planner-server/internal/domain"
)

// Key prefixes, one per entity type.
const (
	userPrefix         = "user:"
	categoryPrefix     = "category:"
	taskPrefix         = "task:"
	taskCategoryPrefix = "taskcat:"
	streakPrefix       = "streak:"
	planPrefix         = "plan:"
	planMemberPrefix   = "member:"
	planTaskPrefix     = "plantask:"
	badgePrefix        = "badge:"
	userBadgePrefix    = "award:"
	calendarSyncPrefix = "calsync:"
)

// SearchIndexer keeps the search index in sync with store changes.
// Store uses this without depending on the search implementation.
type SearchIndexer interface {
	IndexTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Search indexer for keeping search in sync with task changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	// Generic entities
	Users          *Entity[domain.User]
	Categories     *Entity[domain.Category]
	Tasks          *Entity[domain.Task]
	TaskCategories *Entity[domain.TaskCategory]
	Streaks        *Entity[domain.Streak]
	Plans          *Entity[domain.Plan]
	PlanMembers    *Entity[domain.PlanMember]
	PlanTasks      *Entity[domain.PlanTask]
	Badges         *Entity[domain.Badge]
	UserBadges     *Entity[domain.UserBadge]
	CalendarSyncs  *Entity[domain.CalendarSync]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initUsers()
	store.initCategories()
	store.initTasks()
	store.initTaskCategories()
	store.initStreaks()
	store.initPlans()
	store.initPlanMembers()
	store.initPlanTasks()
	store.initBadges()
	store.initUserBadges()
	store.initCalendarSyncs()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// This is set after store creation to avoid circular dependencies.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.User) []string {
				if u.Email == "" {
					return nil
				}
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail, // Case-insensitive lookups
		)
}

func (s *Store) initCategories() {
	s.Categories = NewEntity[domain.Category](s, categoryPrefix).
		WithIndex("owner_name", func(c *domain.Category) []string {
			return []string{c.OwnerID + "|" + c.Name}
		}).
		WithLookup("owner", func(c *domain.Category) []string {
			return []string{c.OwnerID}
		})
}

func (s *Store) initTasks() {
	s.Tasks = NewEntity[domain.Task](s, taskPrefix).
		WithLookup("owner", func(t *domain.Task) []string {
			return []string{t.OwnerID}
		}).
		WithLookup("parent", func(t *domain.Task) []string {
			if t.ParentTaskID == "" {
				return nil
			}
			return []string{t.ParentTaskID}
		})
}

func (s *Store) initTaskCategories() {
	s.TaskCategories = NewEntity[domain.TaskCategory](s, taskCategoryPrefix).
		WithIndex("task_category", func(tc *domain.TaskCategory) []string {
			return []string{tc.TaskID + "|" + tc.CategoryID}
		}).
		WithLookup("task", func(tc *domain.TaskCategory) []string {
			return []string{tc.TaskID}
		}).
		WithLookup("category", func(tc *domain.TaskCategory) []string {
			return []string{tc.CategoryID}
		})
}

func (s *Store) initStreaks() {
	s.Streaks = NewEntity[domain.Streak](s, streakPrefix).
		WithIndex("user_date", func(st *domain.Streak) []string {
			return []string{st.UserID + "|" + st.Date}
		}).
		WithLookup("user", func(st *domain.Streak) []string {
			return []string{st.UserID}
		})
}

func (s *Store) initPlans() {
	s.Plans = NewEntity[domain.Plan](s, planPrefix).
		WithLookup("owner", func(p *domain.Plan) []string {
			return []string{p.OwnerID}
		})
}

func (s *Store) initPlanMembers() {
	s.PlanMembers = NewEntity[domain.PlanMember](s, planMemberPrefix).
		WithIndex("plan_user", func(m *domain.PlanMember) []string {
			return []string{m.PlanID + "|" + m.UserID}
		}).
		WithLookup("plan", func(m *domain.PlanMember) []string {
			return []string{m.PlanID}
		}).
		WithLookup("user", func(m *domain.PlanMember) []string {
			return []string{m.UserID}
		})
}

func (s *Store) initPlanTasks() {
	s.PlanTasks = NewEntity[domain.PlanTask](s, planTaskPrefix).
		WithIndex("plan_task", func(pt *domain.PlanTask) []string {
			return []string{pt.PlanID + "|" + pt.TaskID}
		}).
		WithLookup("plan", func(pt *domain.PlanTask) []string {
			return []string{pt.PlanID}
		}).
		WithLookup("task", func(pt *domain.PlanTask) []string {
			return []string{pt.TaskID}
		})
}

func (s *Store) initBadges() {
	s.Badges = NewEntity[domain.Badge](s, badgePrefix).
		WithIndex("code", func(b *domain.Badge) []string {
			return []string{b.Code}
		})
}

func (s *Store) initUserBadges() {
	s.UserBadges = NewEntity[domain.UserBadge](s, userBadgePrefix).
		WithIndex("user_badge", func(ub *domain.UserBadge) []string {
			return []string{ub.UserID + "|" + ub.BadgeID}
		}).
		WithLookup("user", func(ub *domain.UserBadge) []string {
			return []string{ub.UserID}
		})
}

func (s *Store) initCalendarSyncs() {
	s.CalendarSyncs = NewEntity[domain.CalendarSync](s, calendarSyncPrefix).
		WithIndex("owner_provider", func(cs *domain.CalendarSync) []string {
			return []string{cs.OwnerID + "|" + cs.Provider}
		}).
		WithLookup("owner", func(cs *domain.CalendarSync) []string {
			return []string{cs.OwnerID}
		})
}
