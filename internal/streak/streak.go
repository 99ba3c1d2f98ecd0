// Package streak counts consecutive completed days for a habit, treating
// skipped days as transparent.
package streak

import (
	"fmt"
	"slices"

	"github.com/Emes13/habittrax/internal/recurrence"
	"github.com/Emes13/habittrax/pkg/habit"
)

// MaxLookback bounds every backward walk over skipped days.
const MaxLookback = 366

// Mode selects how days without a log are handled for non-daily habits.
type Mode string

const (
	// ModeCalendar counts calendar-day contiguity. Only days marked
	// not_applicable are skipped.
	ModeCalendar Mode = "calendar"
	// ModeCadence also skips days the habit is not scheduled on, so a weekly
	// habit done on consecutive weeks keeps its streak.
	ModeCadence Mode = "cadence"
)

// ParseMode returns the mode named by s. Empty means ModeCalendar.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeCalendar:
		return ModeCalendar, nil
	case ModeCadence:
		return ModeCadence, nil
	}
	return "", fmt.Errorf("unknown streak mode %q", s)
}

// Set is a set of dates.
type Set map[habit.Date]struct{}

// NewSet builds a Set from dates.
func NewSet(dates ...habit.Date) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s Set) Has(d habit.Date) bool {
	_, ok := s[d]
	return ok
}

// Current returns the streak ending at today or at the day before the most
// recent non-skipped day. A completion older than that breaks the streak.
func Current(completed, skipped Set, today habit.Date) int {
	c := counter{skip: skipped.Has}
	c.grace = func(d habit.Date) habit.Date { return d.AddDays(-1) }
	return c.current(sortedDesc(completed), today)
}

// Longest returns the longest run anywhere in completed, with skipped days
// bridging gaps the same way Current does.
func Longest(completed, skipped Set) int {
	c := counter{skip: skipped.Has}
	return c.longest(sortedDesc(completed))
}

// Result holds both streak values for one habit.
type Result struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// ForHabit derives completed and skipped days from the habit's logs and
// returns its streaks as of today.
func ForHabit(h habit.Habit, logs []habit.HabitLog, today habit.Date, mode Mode) Result {
	completed, na := Set{}, Set{}
	for _, l := range logs {
		if l.HabitID != h.ID {
			continue
		}
		switch l.Status {
		case habit.StatusComplete:
			completed[l.Date] = struct{}{}
		case habit.StatusNotApplicable:
			na[l.Date] = struct{}{}
		}
	}

	c := counter{skip: na.Has}
	c.grace = func(d habit.Date) habit.Date { return d.AddDays(-1) }
	if mode == ModeCadence {
		c.skip = func(d habit.Date) bool {
			if na.Has(d) {
				return true
			}
			return !completed.Has(d) && !recurrence.IsActiveOn(h, d)
		}
		c.grace = c.previous
	}

	dates := sortedDesc(completed)
	return Result{Current: c.current(dates, today), Longest: c.longest(dates)}
}

type counter struct {
	skip  func(habit.Date) bool
	grace func(habit.Date) habit.Date
}

// previous returns the closest tracked day strictly before d.
func (c counter) previous(d habit.Date) habit.Date {
	p := d.AddDays(-1)
	for i := 0; i < MaxLookback && c.skip(p); i++ {
		p = p.AddDays(-1)
	}
	return p
}

func (c counter) current(dates []habit.Date, today habit.Date) int {
	if len(dates) == 0 {
		return 0
	}
	anchor := today
	for i := 0; i < MaxLookback && c.skip(anchor); i++ {
		anchor = anchor.AddDays(-1)
	}
	if dates[0] != anchor && dates[0] != c.grace(anchor) {
		return 0
	}
	return c.run(dates)
}

// run counts how many leading entries of dates form a chain of tracked days.
func (c counter) run(dates []habit.Date) int {
	count := 1
	cur := dates[0]
	for _, next := range dates[1:] {
		if next != c.previous(cur) {
			break
		}
		count++
		cur = next
	}
	return count
}

func (c counter) longest(dates []habit.Date) int {
	best := 0
	for i := 0; i < len(dates); {
		n := c.run(dates[i:])
		best = max(best, n)
		i += n
	}
	return best
}

func sortedDesc(s Set) []habit.Date {
	out := make([]habit.Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b habit.Date) int { return b.Compare(a) })
	return out
}
