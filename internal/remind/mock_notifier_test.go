package remind

import (
	"context"

	"github.com/Emes13/habittrax/pkg/habit"
)

type mockNotifier struct {
	calls int
	date  habit.Date
	due   []Due
	err   error
}

func (m *mockNotifier) Notify(ctx context.Context, date habit.Date, due []Due) error {
	m.calls++
	m.date = date
	m.due = due
	return m.err
}
