package recurrence

import (
	"testing"
	"time"

	"github.com/Emes13/habittrax/pkg/habit"
)

func intPtr(i int) *int { return &i }

// two full weeks starting on Monday 2024-01-01
func fortnight() []habit.Date {
	return habit.Range(habit.NewDate(2024, time.January, 1), habit.NewDate(2024, time.January, 14))
}

func TestDailyAlwaysActive(t *testing.T) {
	h := habit.Habit{Frequency: habit.FrequencyDaily}
	for _, d := range fortnight() {
		if !IsActiveOn(h, d) {
			t.Errorf("daily habit inactive on %s", d)
		}
	}
}

func TestWeeklyStartDay(t *testing.T) {
	h := habit.Habit{Frequency: habit.FrequencyWeekly, StartDay: intPtr(2)}
	for _, d := range fortnight() {
		want := d.WeekdayIndex() == 2
		if got := IsActiveOn(h, d); got != want {
			t.Errorf("%s (%s): got %v want %v", d, d.Weekday(), got, want)
		}
	}
}

func TestWeeklyIgnoresDaysOfWeek(t *testing.T) {
	h := habit.Habit{Frequency: habit.FrequencyWeekly, StartDay: intPtr(0), DaysOfWeek: []int{1, 2, 3}}
	tue := habit.NewDate(2024, time.January, 2)
	if IsActiveOn(h, tue) {
		t.Error("weekly habit must not read days_of_week")
	}
	if IsActiveOn(habit.Habit{Frequency: habit.FrequencyWeekly}, tue) {
		t.Error("weekly habit without start day should never be active")
	}
}

func TestCustomDaysOfWeek(t *testing.T) {
	h := habit.Habit{Frequency: habit.FrequencyCustom, DaysOfWeek: []int{0, 3}, StartDay: intPtr(5)}
	for _, d := range fortnight() {
		idx := d.WeekdayIndex()
		want := idx == 0 || idx == 3
		if got := IsActiveOn(h, d); got != want {
			t.Errorf("%s (index %d): got %v want %v", d, idx, got, want)
		}
	}
}

func TestUnknownFrequencyFailsOpen(t *testing.T) {
	for _, f := range []habit.Frequency{"", "monthly"} {
		h := habit.Habit{Frequency: f}
		for _, d := range fortnight() {
			if !IsActiveOn(h, d) {
				t.Fatalf("frequency %q inactive on %s", f, d)
			}
		}
		if Known(f) {
			t.Errorf("Known(%q) = true", f)
		}
	}
}

func TestActive(t *testing.T) {
	habits := []habit.Habit{
		{ID: "a", Frequency: habit.FrequencyDaily},
		{ID: "b", Frequency: habit.FrequencyWeekly, StartDay: intPtr(0)},
		{ID: "c", Frequency: habit.FrequencyCustom, DaysOfWeek: []int{1}},
	}
	mon := habit.NewDate(2024, time.January, 1)
	got := Active(habits, mon)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("monday: got %+v", got)
	}
	got = Active(habits, mon.AddDays(1))
	if len(got) != 2 || got[1].ID != "c" {
		t.Fatalf("tuesday: got %+v", got)
	}
}
