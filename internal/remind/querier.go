package remind

import (
	"context"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

// Querier fetches one user's habits and logs.
type Querier interface {
	ListHabits(ctx context.Context) ([]habit.Habit, error)
	LogsByDate(ctx context.Context, d habit.Date) ([]habit.HabitLog, error)
}

// StoreQuerier reads a single user's data straight from a store.
type StoreQuerier struct {
	Store  storage.Store
	UserID string
}

func (q StoreQuerier) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	return q.Store.ListHabits(ctx, q.UserID)
}

func (q StoreQuerier) LogsByDate(ctx context.Context, d habit.Date) ([]habit.HabitLog, error) {
	return q.Store.LogsByDate(ctx, q.UserID, d)
}
