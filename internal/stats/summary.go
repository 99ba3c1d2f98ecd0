package stats

import (
	"github.com/Emes13/habittrax/internal/streak"
	"github.com/Emes13/habittrax/pkg/habit"
)

type month struct {
	year int
	m    int
}

// Summary collects the lifetime figures of one habit as of today.
func Summary(h habit.Habit, logs []habit.HabitLog, today habit.Date, mode streak.Mode) habit.HabitSummary {
	sum := habit.HabitSummary{HabitID: h.ID, Name: h.Name}

	perMonth := map[month]int{}
	for _, l := range logs {
		if l.HabitID != h.ID {
			continue
		}
		if sum.FirstLogged.IsZero() || l.Date.Before(sum.FirstLogged) {
			sum.FirstLogged = l.Date
		}
		if l.Status != habit.StatusComplete {
			continue
		}
		sum.TotalDaysDone++
		if l.Date.After(sum.LastCompleted) {
			sum.LastCompleted = l.Date
		}
		perMonth[month{l.Date.Year(), int(l.Date.Month())}]++
	}

	for _, n := range perMonth {
		sum.BestMonth = max(sum.BestMonth, n)
	}
	sum.ThisMonth = perMonth[month{today.Year(), int(today.Month())}]

	res := streak.ForHabit(h, logs, today, mode)
	sum.CurrentStreak = res.Current
	sum.LongestStreak = res.Longest
	return sum
}
