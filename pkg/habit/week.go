package habit

import "time"

// Week is a Monday-to-Sunday window.
type Week struct {
	Start Date    `json:"start"`
	End   Date    `json:"end"`
	Days  [7]Date `json:"days"`
}

// WeekOf returns the week containing d.
func WeekOf(d Date) Week {
	start := d.AddDays(-d.WeekdayIndex())
	w := Week{Start: start, End: start.AddDays(6)}
	for i := range w.Days {
		w.Days[i] = start.AddDays(i)
	}
	return w
}

func CurrentWeek(loc *time.Location) Week {
	return WeekOf(Today(loc))
}

// PreviousWeek returns the week before the one containing start.
func PreviousWeek(start Date) Week {
	return WeekOf(WeekOf(start).Start.AddDays(-7))
}

// NextWeek returns the week after the one containing start.
func NextWeek(start Date) Week {
	return WeekOf(WeekOf(start).Start.AddDays(7))
}

func (w Week) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}
