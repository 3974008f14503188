package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/plannerapp/planner-server/internal/domain"
)

// streakRowKey is the stable primary key for a (user, day) tally. Deriving
// it from the pair lets IncrementStreak do a get-or-init read-modify-write
// in one transaction without a separate lookup.
func streakRowKey(userID, date string) string {
	return userID + "|" + date
}

// IncrementStreak atomically increments the completion tally for the given
// user and day, creating the row on first completion. The whole
// read-modify-write runs in a single badger update transaction; conflicting
// concurrent completions are retried, so no increment is lost.
func (s *Store) IncrementStreak(ctx context.Context, userID string, day time.Time) (*domain.Streak, error) {
	for {
		streak, err := s.incrementStreakOnce(ctx, userID, day)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return streak, err
	}
}

func (s *Store) incrementStreakOnce(ctx context.Context, userID string, day time.Time) (*domain.Streak, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	date := domain.StreakDay(day)
	rowID := streakRowKey(userID, date)
	key := []byte(streakPrefix + rowID)
	idxKey := []byte(streakPrefix + "idx:user_date:" + userID + "|" + date)
	lookupKey := []byte(streakPrefix + "lk:user:" + userID + ":" + rowID)

	var result domain.Streak

	err := s.db.Update(func(txn *badger.Txn) error {
		streak := domain.Streak{
			UserID: userID,
			Date:   date,
		}
		streak.ID = rowID

		item, err := txn.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &streak)
			}); err != nil {
				return err
			}
		} else {
			streak.InitTimestamps()
			streak.ID = rowID
		}

		streak.TasksCompleted++
		streak.IsCompletedDay = true
		streak.Touch()

		data, err := json.Marshal(&streak)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		if err := txn.Set(idxKey, []byte(rowID)); err != nil {
			return err
		}
		if err := txn.Set(lookupKey, []byte(rowID)); err != nil {
			return err
		}

		result = streak
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("increment streak for %s on %s: %w", userID, date, err)
	}

	return &result, nil
}

// GetStreak retrieves a streak row by ID, which encodes the (user, day) pair.
func (s *Store) GetStreak(ctx context.Context, streakID string) (*domain.Streak, error) {
	return s.Streaks.Get(ctx, streakID)
}

// GetStreakForDay retrieves the tally for a specific user and day.
func (s *Store) GetStreakForDay(ctx context.Context, userID string, day time.Time) (*domain.Streak, error) {
	return s.Streaks.GetByIndex(ctx, "user_date", userID+"|"+domain.StreakDay(day))
}

// GetStreaksForUser returns all streak rows for a user.
func (s *Store) GetStreaksForUser(ctx context.Context, userID string) ([]*domain.Streak, error) {
	return s.Streaks.FindByIndex(ctx, "user", userID)
}
