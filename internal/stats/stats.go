// Package stats reduces habits and logs into per-day snapshots, category
// completion rates and trend series. Every function is pure and returns a
// zero value for empty input.
package stats

import (
	"github.com/Emes13/habittrax/internal/recurrence"
	"github.com/Emes13/habittrax/pkg/habit"
)

// Snapshot counts the statuses of the habits active on one date.
type Snapshot struct {
	Date           habit.Date `json:"date"`
	TotalActive    int        `json:"total_active"`
	Complete       int        `json:"complete"`
	Partial        int        `json:"partial"`
	Incomplete     int        `json:"incomplete"`
	NotApplicable  int        `json:"not_applicable"`
	CompletionRate float64    `json:"completion_rate"`
}

// Denominator is the number of active habits that count toward the rate.
func (s Snapshot) Denominator() int {
	return max(s.TotalActive-s.NotApplicable, 0)
}

func (s *Snapshot) add(st habit.Status) {
	switch st {
	case habit.StatusComplete:
		s.Complete++
	case habit.StatusPartial:
		s.Partial++
	case habit.StatusNotApplicable:
		s.NotApplicable++
	default:
		s.Incomplete++
	}
}

func (s *Snapshot) merge(o Snapshot) {
	s.TotalActive += o.TotalActive
	s.Complete += o.Complete
	s.Partial += o.Partial
	s.Incomplete += o.Incomplete
	s.NotApplicable += o.NotApplicable
}

func (s *Snapshot) finish() {
	s.CompletionRate = rate(s.Complete, s.Denominator())
}

func rate(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// logIndex maps date and habit ID to the logged status.
type logIndex map[habit.Date]map[string]habit.Status

func indexLogs(logs []habit.HabitLog) logIndex {
	idx := logIndex{}
	for _, l := range logs {
		byHabit, ok := idx[l.Date]
		if !ok {
			byHabit = map[string]habit.Status{}
			idx[l.Date] = byHabit
		}
		byHabit[l.HabitID] = l.Status
	}
	return idx
}

// status returns the logged status, or incomplete when nothing was logged.
func (idx logIndex) status(habitID string, d habit.Date) habit.Status {
	if st, ok := idx[d][habitID]; ok {
		return st
	}
	return habit.StatusIncomplete
}

func (idx logIndex) daily(habits []habit.Habit, d habit.Date) Snapshot {
	snap := Snapshot{Date: d}
	for _, h := range recurrence.Active(habits, d) {
		snap.TotalActive++
		snap.add(idx.status(h.ID, d))
	}
	snap.finish()
	return snap
}

// Daily returns the snapshot for d. Only habits active on d are counted; an
// active habit without a log is incomplete, and logs of habits not in habits
// are ignored.
func Daily(habits []habit.Habit, logs []habit.HabitLog, d habit.Date) Snapshot {
	return indexLogs(logs).daily(habits, d)
}
