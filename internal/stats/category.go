package stats

import "github.com/Emes13/habittrax/pkg/habit"

type CategoryRate struct {
	CategoryID    string  `json:"category_id"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	Complete      int     `json:"complete"`
	Partial       int     `json:"partial"`
	Incomplete    int     `json:"incomplete"`
	NotApplicable int     `json:"not_applicable"`
	Total         int     `json:"total"`
	Rate          float64 `json:"rate"`
}

// CategoryRates computes, per category, complete/(complete+partial+incomplete)
// over every log of the category's habits. The result follows the order of
// categories. Logs whose habit is unknown are skipped.
func CategoryRates(categories []habit.Category, habits []habit.Habit, logs []habit.HabitLog) []CategoryRate {
	if len(categories) == 0 {
		return nil
	}

	pos := make(map[string]int, len(categories))
	out := make([]CategoryRate, len(categories))
	for i, c := range categories {
		pos[c.ID] = i
		out[i] = CategoryRate{CategoryID: c.ID, Name: c.Name, Color: c.Color}
	}

	categoryOf := make(map[string]string, len(habits))
	for _, h := range habits {
		categoryOf[h.ID] = h.CategoryID
	}

	for _, l := range logs {
		cid, ok := categoryOf[l.HabitID]
		if !ok {
			continue
		}
		i, ok := pos[cid]
		if !ok {
			continue
		}
		cr := &out[i]
		switch l.Status {
		case habit.StatusComplete:
			cr.Complete++
		case habit.StatusPartial:
			cr.Partial++
		case habit.StatusNotApplicable:
			cr.NotApplicable++
		default:
			cr.Incomplete++
		}
	}

	for i := range out {
		out[i].Total = out[i].Complete + out[i].Partial + out[i].Incomplete
		out[i].Rate = rate(out[i].Complete, out[i].Total)
	}
	return out
}
