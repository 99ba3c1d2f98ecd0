package remind

import (
	"context"

	"github.com/Emes13/habittrax/pkg/habit"
)

type mockQuerier struct {
	habits []habit.Habit
	logs   []habit.HabitLog
	err    error
}

func (m *mockQuerier) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	return m.habits, m.err
}

func (m *mockQuerier) LogsByDate(ctx context.Context, d habit.Date) ([]habit.HabitLog, error) {
	var out []habit.HabitLog
	for _, l := range m.logs {
		if l.Date == d {
			out = append(out, l)
		}
	}
	return out, m.err
}
