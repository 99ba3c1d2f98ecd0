package streak

import (
	"testing"
	"time"

	"github.com/Emes13/habittrax/pkg/habit"
)

var today = habit.NewDate(2026, time.October, 14)

func days(offsets ...int) Set {
	s := Set{}
	for _, o := range offsets {
		s[today.AddDays(-o)] = struct{}{}
	}
	return s
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name      string
		completed Set
		skipped   Set
		want      int
	}{
		{"empty", days(), days(), 0},
		{"three consecutive", days(0, 1, 2), days(), 3},
		{"gap before today", days(2), days(), 0},
		{"ends yesterday", days(1, 2, 3), days(), 3},
		{"skip bridges gap", days(0, 2), days(1), 2},
		{"today skipped", days(1, 2), days(0), 2},
		{"skip then yesterday grace", days(2, 3), days(0), 2},
		{"multiple consecutive skips", days(0, 3, 4), days(1, 2), 3},
		{"skip at oldest end", days(0, 1), days(5), 2},
		{"broken chain", days(0, 1, 3, 4), days(), 2},
		{"skip does not count", days(0), days(1, 2, 3), 1},
		{"nil sets", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Current(tt.completed, tt.skipped, today); got != tt.want {
				t.Errorf("Current() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentEmptySkipIsPlainCounting(t *testing.T) {
	completed := days(0, 1, 2, 3, 4, 6)
	if got := Current(completed, Set{}, today); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestCurrentAllSkippedTerminates(t *testing.T) {
	skipped := Set{}
	for i := 0; i < 2*MaxLookback; i++ {
		skipped[today.AddDays(-i)] = struct{}{}
	}
	if got := Current(days(1000), skipped, today); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestLongest(t *testing.T) {
	completed := days(0, 1, 5, 6, 7, 8, 12)
	if got := Longest(completed, Set{}); got != 4 {
		t.Fatalf("Longest = %d, want 4", got)
	}
	// skipping days 2-4 joins the first two runs
	if got := Longest(completed, days(2, 3, 4)); got != 6 {
		t.Fatalf("Longest with skips = %d, want 6", got)
	}
	if got := Longest(nil, nil); got != 0 {
		t.Fatalf("Longest(nil) = %d", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeCalendar, "calendar": ModeCalendar, "cadence": ModeCadence} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("weekly"); err == nil {
		t.Error("expected error")
	}
}

func mondayHabit() habit.Habit {
	start := 0
	return habit.Habit{ID: "h1", Frequency: habit.FrequencyWeekly, StartDay: &start}
}

func logOn(d habit.Date, s habit.Status) habit.HabitLog {
	return habit.HabitLog{HabitID: "h1", Date: d, Status: s}
}

// Complete on two Mondays with a not_applicable Monday between them.
func weeklyLogs() []habit.HabitLog {
	return []habit.HabitLog{
		logOn(habit.NewDate(2024, time.January, 1), habit.StatusComplete),
		logOn(habit.NewDate(2024, time.January, 8), habit.StatusNotApplicable),
		logOn(habit.NewDate(2024, time.January, 15), habit.StatusComplete),
		{HabitID: "other", Date: habit.NewDate(2024, time.January, 14), Status: habit.StatusComplete},
	}
}

func TestForHabitWeeklyCalendarMode(t *testing.T) {
	mon := habit.NewDate(2024, time.January, 15)
	got := ForHabit(mondayHabit(), weeklyLogs(), mon, ModeCalendar)
	if got.Current != 1 || got.Longest != 1 {
		t.Fatalf("calendar mode on monday = %+v, want 1/1", got)
	}
	got = ForHabit(mondayHabit(), weeklyLogs(), mon.AddDays(2), ModeCalendar)
	if got.Current != 0 {
		t.Fatalf("calendar mode on wednesday current = %d, want 0", got.Current)
	}
}

func TestForHabitWeeklyCadenceMode(t *testing.T) {
	mon := habit.NewDate(2024, time.January, 15)
	for _, d := range []habit.Date{mon, mon.AddDays(2), mon.AddDays(6)} {
		got := ForHabit(mondayHabit(), weeklyLogs(), d, ModeCadence)
		if got.Current != 2 || got.Longest != 2 {
			t.Errorf("cadence mode on %s = %+v, want 2/2", d, got)
		}
	}
	// next Monday, not yet done: last week's completion is still within grace
	got := ForHabit(mondayHabit(), weeklyLogs(), mon.AddDays(7), ModeCadence)
	if got.Current != 2 {
		t.Errorf("cadence grace = %d, want 2", got.Current)
	}
	// two Mondays later the streak is broken
	got = ForHabit(mondayHabit(), weeklyLogs(), mon.AddDays(14), ModeCadence)
	if got.Current != 0 {
		t.Errorf("cadence broken = %d, want 0", got.Current)
	}
}

func TestForHabitCadenceCountsOffScheduleCompletion(t *testing.T) {
	h := mondayHabit()
	logs := []habit.HabitLog{
		logOn(habit.NewDate(2024, time.January, 8), habit.StatusComplete),
		logOn(habit.NewDate(2024, time.January, 11), habit.StatusComplete),
		logOn(habit.NewDate(2024, time.January, 15), habit.StatusComplete),
	}
	got := ForHabit(h, logs, habit.NewDate(2024, time.January, 15), ModeCadence)
	if got.Current != 3 {
		t.Fatalf("got %d, want 3", got.Current)
	}
}

func TestForHabitDailyModesAgree(t *testing.T) {
	h := habit.Habit{ID: "h1", Frequency: habit.FrequencyDaily}
	var logs []habit.HabitLog
	for _, o := range []int{0, 1, 3} {
		logs = append(logs, logOn(today.AddDays(-o), habit.StatusComplete))
	}
	logs = append(logs, logOn(today.AddDays(-2), habit.StatusNotApplicable))
	logs = append(logs, logOn(today.AddDays(-4), habit.StatusPartial))
	for _, m := range []Mode{ModeCalendar, ModeCadence} {
		if got := ForHabit(h, logs, today, m); got.Current != 3 || got.Longest != 3 {
			t.Errorf("%s: %+v", m, got)
		}
	}
}
