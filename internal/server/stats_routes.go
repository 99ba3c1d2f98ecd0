package server

import (
	"net/http"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/stats"
	"github.com/Emes13/habittrax/pkg/habit"
)

func (s *Server) getDailyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	d, err := s.dateParam(r, "date")
	if err != nil {
		writeStoreError(w, err, "Invalid date", "user_id", userID)
		return
	}

	habits, logs, err := s.loadRange(r.Context(), userID, d, d)
	if err != nil {
		writeStoreError(w, err, "Failed to load daily stats", "user_id", userID, "date", d.String())
		return
	}
	respond(w, http.StatusOK, stats.Daily(habits, logs, d))
}

func (s *Server) getCategoryStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	start, end, err := s.rangeParams(r, 30)
	if err != nil {
		writeStoreError(w, err, "Invalid range", "user_id", userID)
		return
	}

	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, err, "Failed to list categories", "user_id", userID)
		return
	}
	habits, logs, err := s.loadRange(r.Context(), userID, start, end)
	if err != nil {
		writeStoreError(w, err, "Failed to load category stats", "user_id", userID)
		return
	}

	rates := stats.CategoryRates(categories, habits, logs)
	if rates == nil {
		rates = []stats.CategoryRate{}
	}
	respond(w, http.StatusOK, CategoryStatsResponse{Start: start, End: end, Categories: rates})
}

func (s *Server) getTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	bucket, err := stats.ParseBucket(r.URL.Query().Get("bucket"))
	if err != nil {
		writeStoreError(w, err, "Invalid bucket", "user_id", userID)
		return
	}
	start, end, err := s.rangeParams(r, 7)
	if err != nil {
		writeStoreError(w, err, "Invalid range", "user_id", userID)
		return
	}

	habits, logs, err := s.loadRange(r.Context(), userID, start, end)
	if err != nil {
		writeStoreError(w, err, "Failed to load trend", "user_id", userID)
		return
	}

	points := stats.Trend(habits, logs, start, end, bucket)
	logger.Debug("Computed trend", "user_id", userID, "bucket", bucket, "points", len(points))
	respond(w, http.StatusOK, TrendResponse{Bucket: bucket, Points: points})
}

func (s *Server) getWeekCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	start, err := s.dateParam(r, "start")
	if err != nil {
		writeStoreError(w, err, "Invalid week start", "user_id", userID)
		return
	}

	week := habit.WeekOf(start)
	habits, logs, err := s.loadRange(r.Context(), userID, week.Start, week.End)
	if err != nil {
		writeStoreError(w, err, "Failed to load week", "user_id", userID)
		return
	}

	respond(w, http.StatusOK, WeekCalendarResponse{
		Week:     week,
		Previous: habit.PreviousWeek(week.Start).Start,
		Next:     habit.NextWeek(week.Start).Start,
		Days:     stats.WeekCalendar(habits, logs, week, s.today()),
	})
}
