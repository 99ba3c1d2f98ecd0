package stats

import "github.com/Emes13/habittrax/pkg/habit"

// TileStatus summarises all logs of one day for the weekly calendar.
type TileStatus string

const (
	TileNone          TileStatus = "none"
	TileNotApplicable TileStatus = "not_applicable"
	TileComplete      TileStatus = "complete"
	TileIncomplete    TileStatus = "incomplete"
	TilePartial       TileStatus = "partial"
)

// DayStatus classifies the logs recorded on d for the given habits: none
// without logs, otherwise the shared status when every log agrees, else
// partial.
func DayStatus(habits []habit.Habit, logs []habit.HabitLog, d habit.Date) TileStatus {
	known := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		known[h.ID] = struct{}{}
	}

	var n, na, complete, incomplete int
	for _, l := range logs {
		if l.Date != d {
			continue
		}
		if _, ok := known[l.HabitID]; !ok {
			continue
		}
		n++
		switch l.Status {
		case habit.StatusNotApplicable:
			na++
		case habit.StatusComplete:
			complete++
		case habit.StatusIncomplete:
			incomplete++
		}
	}

	switch {
	case n == 0:
		return TileNone
	case na == n:
		return TileNotApplicable
	case complete == n:
		return TileComplete
	case incomplete == n:
		return TileIncomplete
	}
	return TilePartial
}

// Day is one tile of a weekly calendar.
type Day struct {
	Date     habit.Date `json:"date"`
	Status   TileStatus `json:"status"`
	IsToday  bool       `json:"is_today"`
	Snapshot Snapshot   `json:"snapshot"`
}

// WeekCalendar returns the seven tiles of w.
func WeekCalendar(habits []habit.Habit, logs []habit.HabitLog, w habit.Week, today habit.Date) [7]Day {
	idx := indexLogs(logs)
	var out [7]Day
	for i, d := range w.Days {
		out[i] = Day{
			Date:     d,
			Status:   DayStatus(habits, logs, d),
			IsToday:  d == today,
			Snapshot: idx.daily(habits, d),
		}
	}
	return out
}
