// Package storage defines the persistence boundary for categories, habits,
// logs and API keys. Implementations live in the bolt and sqlite
// subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrCategoryInUse = errors.New("category is referenced by habits")
	ErrDuplicateName = errors.New("name already exists")
)

type Store interface {
	ListCategories(ctx context.Context) ([]habit.Category, error)
	GetCategory(ctx context.Context, id string) (habit.Category, error)
	// PutCategory creates c when c.ID is empty and updates it otherwise.
	PutCategory(ctx context.Context, c habit.Category) (habit.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListHabits(ctx context.Context, userID string) ([]habit.Habit, error)
	GetHabit(ctx context.Context, userID, id string) (habit.Habit, error)
	// PutHabit creates h when h.ID is empty and updates it otherwise. The
	// creation time of an existing habit is preserved.
	PutHabit(ctx context.Context, h habit.Habit) (habit.Habit, error)
	// DeleteHabit removes the habit and all of its logs.
	DeleteHabit(ctx context.Context, userID, id string) error

	LogsByDate(ctx context.Context, userID string, d habit.Date) ([]habit.HabitLog, error)
	LogsByRange(ctx context.Context, userID string, start, end habit.Date) ([]habit.HabitLog, error)
	LogsByHabit(ctx context.Context, userID, habitID string) ([]habit.HabitLog, error)
	// SetStatus upserts the log for (habitID, userID, d) atomically. A nil
	// status cycles the stored one, see habit.ResolveStatus.
	SetStatus(ctx context.Context, userID, habitID string, d habit.Date, status *habit.Status) (habit.HabitLog, error)

	PutAPIKey(ctx context.Context, keyHash, userID string) error
	GetAPIKey(ctx context.Context, keyHash string) (userID string, found bool, err error)
	ListAPIKeyHashes(ctx context.Context, userID string) ([]string, error)
	DeleteAPIKey(ctx context.Context, keyHash string) error

	Close() error
}

// NewID returns a fresh identifier for a stored record.
func NewID() string {
	return uuid.NewString()
}
