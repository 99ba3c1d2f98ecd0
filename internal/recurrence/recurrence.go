// Package recurrence decides whether a habit is scheduled on a given date.
// It is the only place frequency rules are evaluated.
package recurrence

import (
	"slices"

	"github.com/Emes13/habittrax/pkg/habit"
)

// IsActiveOn reports whether h is tracked on d. Daily habits are always
// active, weekly habits on their start day, custom habits on any of their
// days of week. Unknown frequencies are active.
func IsActiveOn(h habit.Habit, d habit.Date) bool {
	idx := d.WeekdayIndex()
	switch h.Frequency {
	case habit.FrequencyDaily:
		return true
	case habit.FrequencyWeekly:
		return h.StartDay != nil && *h.StartDay == idx
	case habit.FrequencyCustom:
		return slices.Contains(h.DaysOfWeek, idx)
	default:
		return true
	}
}

// Active returns the habits active on d, preserving order.
func Active(habits []habit.Habit, d habit.Date) []habit.Habit {
	out := make([]habit.Habit, 0, len(habits))
	for _, h := range habits {
		if IsActiveOn(h, d) {
			out = append(out, h)
		}
	}
	return out
}

// Known reports whether f is one of the frequencies the evaluator understands.
func Known(f habit.Frequency) bool {
	switch f {
	case habit.FrequencyDaily, habit.FrequencyWeekly, habit.FrequencyCustom:
		return true
	}
	return false
}
