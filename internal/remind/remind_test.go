package remind

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Emes13/habittrax/pkg/habit"
)

// Tuesday 2024-01-02
func at(hour int) time.Time {
	return time.Date(2024, time.January, 2, hour, 30, 0, 0, time.UTC)
}

var tuesday = habit.NewDate(2024, time.January, 2)

func intPtr(i int) *int { return &i }

func reminderHabits() []habit.Habit {
	return []habit.Habit{
		{ID: "stretch", Name: "Stretch", Frequency: habit.FrequencyDaily, ReminderTime: habit.ReminderMorning},
		{ID: "read", Name: "Read", Frequency: habit.FrequencyDaily, ReminderTime: habit.ReminderEvening},
		{ID: "gym", Name: "Gym", Frequency: habit.FrequencyWeekly, StartDay: intPtr(0), ReminderTime: habit.ReminderMorning},
		{ID: "water", Name: "Water", Frequency: habit.FrequencyDaily, ReminderTime: habit.ReminderAnytime},
		{ID: "walk", Name: "Walk", Frequency: habit.FrequencyDaily, ReminderTime: habit.ReminderAfternoon},
		{ID: "none", Name: "None", Frequency: habit.FrequencyDaily},
	}
}

func ids(due []Due) []string {
	out := make([]string, len(due))
	for i, d := range due {
		out[i] = d.HabitID
	}
	return out
}

func TestDueAt(t *testing.T) {
	logs := []habit.HabitLog{
		{HabitID: "walk", Date: tuesday, Status: habit.StatusPartial},
	}
	tests := []struct {
		hour int
		want []string
	}{
		{7, nil},
		{8, []string{"stretch"}},
		{13, []string{"stretch", "walk"}},
		{20, []string{"stretch", "read", "walk"}},
	}
	for _, tt := range tests {
		got := ids(DueAt(reminderHabits(), logs, at(tt.hour)))
		if len(got) != len(tt.want) {
			t.Errorf("hour %d: got %v, want %v", tt.hour, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("hour %d: got %v, want %v", tt.hour, got, tt.want)
			}
		}
	}
}

func TestDueAtSkipsDoneAndNotApplicable(t *testing.T) {
	logs := []habit.HabitLog{
		{HabitID: "stretch", Date: tuesday, Status: habit.StatusComplete},
		{HabitID: "read", Date: tuesday, Status: habit.StatusNotApplicable},
		{HabitID: "walk", Date: tuesday.AddDays(-1), Status: habit.StatusComplete},
	}
	got := DueAt(reminderHabits(), logs, at(21))
	if len(got) != 1 || got[0].HabitID != "walk" || got[0].Status != habit.StatusIncomplete || got[0].Hour != 13 {
		t.Fatalf("got %+v", got)
	}
}

func TestCheckerSendsOncePerDay(t *testing.T) {
	now := at(9)
	q := &mockQuerier{habits: reminderHabits()}
	n := &mockNotifier{}
	c := &Checker{Querier: q, Notifier: n, Location: time.UTC, Now: func() time.Time { return now }}

	sent, err := c.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || n.calls != 1 || n.date != tuesday {
		t.Fatalf("first check: sent %v, calls %d, date %s", ids(sent), n.calls, n.date)
	}

	if _, err := c.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n.calls != 1 {
		t.Fatalf("reminder resent, calls = %d", n.calls)
	}

	now = at(19)
	sent, err = c.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n.calls != 2 || len(sent) != 2 {
		t.Fatalf("evening check: sent %v, calls %d", ids(sent), n.calls)
	}

	now = now.Add(14 * time.Hour) // wednesday morning
	sent, err = c.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0].HabitID != "stretch" {
		t.Fatalf("next day: sent %v", ids(sent))
	}
}

func TestCheckerNotifierError(t *testing.T) {
	q := &mockQuerier{habits: reminderHabits()}
	n := &mockNotifier{err: errors.New("smtp down")}
	c := &Checker{Querier: q, Notifier: n, Location: time.UTC, Now: func() time.Time { return at(9) }}

	if _, err := c.Check(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	// failed sends are retried on the next check
	n.err = nil
	sent, err := c.Check(context.Background())
	if err != nil || len(sent) != 1 {
		t.Fatalf("retry: sent %v, err %v", ids(sent), err)
	}
}

func TestCheckerQuerierError(t *testing.T) {
	q := &mockQuerier{err: errors.New("boom")}
	n := &mockNotifier{}
	c := &Checker{Querier: q, Notifier: n, Now: func() time.Time { return at(9) }}
	if _, err := c.Check(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n.calls != 0 {
		t.Fatal("notifier called after query failure")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	q := &mockQuerier{habits: reminderHabits()}
	n := &mockNotifier{}
	c := &Checker{Querier: q, Notifier: n, Location: time.UTC, Now: func() time.Time { return at(9) }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	if n.calls != 1 {
		t.Fatalf("expected one check before stopping, got %d", n.calls)
	}
}
