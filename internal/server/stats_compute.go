package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Emes13/habittrax/pkg/habit"
)

// maxRangeDays bounds the ranges the stats and log endpoints will scan.
const maxRangeDays = 731

// dateParam reads a YYYY-MM-DD query parameter. Only an absent parameter
// falls back to today; a malformed one is an error.
func (s *Server) dateParam(r *http.Request, name string) (habit.Date, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return s.today(), nil
	}
	return parseDateField(name, v)
}

func parseDateField(name, v string) (habit.Date, error) {
	d, err := habit.ParseDate(v)
	if err != nil {
		return habit.Date{}, &habit.ValidationError{Field: name, Value: v, Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}

func hasRange(q url.Values) bool {
	return q.Get("start_date") != "" || q.Get("end_date") != ""
}

// rangeParams reads start_date and end_date. With neither present the range
// is the last days days ending today.
func (s *Server) rangeParams(r *http.Request, days int) (start, end habit.Date, err error) {
	q := r.URL.Query()
	if !hasRange(q) {
		end = s.today()
		return end.AddDays(-(days - 1)), end, nil
	}

	if q.Get("start_date") == "" {
		return start, end, &habit.ValidationError{Field: "start_date", Reason: "is required with end_date"}
	}
	if q.Get("end_date") == "" {
		return start, end, &habit.ValidationError{Field: "end_date", Reason: "is required with start_date"}
	}
	if start, err = parseDateField("start_date", q.Get("start_date")); err != nil {
		return start, end, err
	}
	if end, err = parseDateField("end_date", q.Get("end_date")); err != nil {
		return start, end, err
	}
	if end.Before(start) {
		return start, end, &habit.ValidationError{Field: "end_date", Value: end.String(), Reason: "must not be before start_date"}
	}
	if start.DaysUntil(end) >= maxRangeDays {
		return start, end, &habit.ValidationError{Field: "end_date", Value: end.String(), Reason: fmt.Sprintf("range exceeds %d days", maxRangeDays)}
	}
	return start, end, nil
}

// loadRange fetches a user's habits together with their logs in [start, end].
func (s *Server) loadRange(ctx context.Context, userID string, start, end habit.Date) ([]habit.Habit, []habit.HabitLog, error) {
	habits, err := s.store.ListHabits(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list habits: %w", err)
	}
	logs, err := s.store.LogsByRange(ctx, userID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("logs from %s to %s: %w", start, end, err)
	}
	return habits, logs, nil
}
