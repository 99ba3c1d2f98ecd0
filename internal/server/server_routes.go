package server

import (
	"net/http"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/recurrence"
	"github.com/Emes13/habittrax/internal/stats"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/Emes13/habittrax/pkg/versioninfo"
	"github.com/go-chi/chi/v5"
)

func respond(w http.ResponseWriter, code int, v any) {
	if err := writeJSON(w, code, v); err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}

// requireUser resolves the caller, answering 401 when there is none.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, versioninfo.VersionInfo{
		Version:   versioninfo.Version,
		BuildDate: versioninfo.BuildDate,
	})
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	logger.Debug("Listing habits", "user_id", userID)

	habits, err := s.store.ListHabits(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err, "Failed to list habits", "user_id", userID)
		return
	}
	UpdateHabitsForUser(userID, len(habits))

	resp := HabitListResponse{Habits: habits}
	if r.URL.Query().Get("date") != "" {
		d, err := s.dateParam(r, "date")
		if err != nil {
			writeStoreError(w, err, "Invalid date", "user_id", userID)
			return
		}
		resp.Date = &d
		resp.Habits = recurrence.Active(habits, d)
	}
	if resp.Habits == nil {
		resp.Habits = []habit.Habit{}
	}
	respond(w, http.StatusOK, resp)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req HabitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeStoreError(w, err, "Invalid habit", "user_id", userID)
		return
	}

	h, err := s.store.PutHabit(r.Context(), req.habit(userID, ""))
	if err != nil {
		writeStoreError(w, err, "Failed to create habit", "user_id", userID)
		return
	}
	logger.Info("Created habit", "user_id", userID, "habit_id", h.ID, "frequency", h.Frequency)
	respond(w, http.StatusCreated, h)
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habit_id")

	h, err := s.store.GetHabit(r.Context(), userID, habitID)
	if err != nil {
		writeStoreError(w, err, "Failed to get habit", "user_id", userID, "habit_id", habitID)
		return
	}
	respond(w, http.StatusOK, h)
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habit_id")
	var req HabitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeStoreError(w, err, "Invalid habit", "user_id", userID, "habit_id", habitID)
		return
	}

	h, err := s.store.PutHabit(r.Context(), req.habit(userID, habitID))
	if err != nil {
		writeStoreError(w, err, "Failed to update habit", "user_id", userID, "habit_id", habitID)
		return
	}
	respond(w, http.StatusOK, h)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habit_id")

	if err := s.store.DeleteHabit(r.Context(), userID, habitID); err != nil {
		writeStoreError(w, err, "Failed to delete habit", "user_id", userID, "habit_id", habitID)
		return
	}
	logger.Info("Deleted habit", "user_id", userID, "habit_id", habitID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHabitLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habit_id")

	if _, err := s.store.GetHabit(r.Context(), userID, habitID); err != nil {
		writeStoreError(w, err, "Failed to get habit", "user_id", userID, "habit_id", habitID)
		return
	}
	logs, err := s.store.LogsByHabit(r.Context(), userID, habitID)
	if err != nil {
		writeStoreError(w, err, "Failed to list habit logs", "user_id", userID, "habit_id", habitID)
		return
	}
	if logs == nil {
		logs = []habit.HabitLog{}
	}
	respond(w, http.StatusOK, HabitLogsResponse{HabitID: habitID, Logs: logs})
}

func (s *Server) getHabitSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habit_id")
	logger.Debug("Getting habit summary", "habit_id", habitID, "user_id", userID)

	today, err := s.dateParam(r, "date")
	if err != nil {
		writeStoreError(w, err, "Invalid date", "user_id", userID)
		return
	}
	h, err := s.store.GetHabit(r.Context(), userID, habitID)
	if err != nil {
		writeStoreError(w, err, "Failed to get habit", "user_id", userID, "habit_id", habitID)
		return
	}
	logs, err := s.store.LogsByHabit(r.Context(), userID, habitID)
	if err != nil {
		writeStoreError(w, err, "Failed to list habit logs", "user_id", userID, "habit_id", habitID)
		return
	}

	respond(w, http.StatusOK, HabitSummaryResponse{
		HabitID:      habitID,
		HabitSummary: stats.Summary(h, logs, today, s.streakMode),
	})
}

func (s *Server) toggleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, r, "toggle", false)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, r, "set", true)
}

// writeStatus stores a status through the shared upsert and answers with the
// committed log so clients can reconcile optimistic updates.
func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, op string, requireStatus bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	habitID := chi.URLParam(r, "habit_id")

	var req StatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeStoreError(w, err, "Invalid status request", "user_id", userID, "habit_id", habitID)
		return
	}
	d, status, err := req.parse()
	if err == nil && requireStatus && status == nil {
		err = &habit.ValidationError{Field: "status", Reason: "is required"}
	}
	if err != nil {
		writeStoreError(w, err, "Invalid status request", "user_id", userID, "habit_id", habitID)
		return
	}

	log, err := s.store.SetStatus(r.Context(), userID, habitID, d, status)
	if err != nil {
		writeStoreError(w, err, "Failed to write status", "user_id", userID, "habit_id", habitID, "date", d.String())
		return
	}

	RecordStatusWrite(op, string(log.Status))
	logger.Info("Recorded habit status", "user_id", userID, "habit_id", habitID, "date", d.String(), "status", log.Status)
	respond(w, http.StatusOK, log)
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var (
		logs []habit.HabitLog
		err  error
	)
	if hasRange(r.URL.Query()) {
		var start, end habit.Date
		if start, end, err = s.rangeParams(r, 1); err != nil {
			writeStoreError(w, err, "Invalid range", "user_id", userID)
			return
		}
		logs, err = s.store.LogsByRange(r.Context(), userID, start, end)
	} else {
		var d habit.Date
		if d, err = s.dateParam(r, "date"); err != nil {
			writeStoreError(w, err, "Invalid date", "user_id", userID)
			return
		}
		logs, err = s.store.LogsByDate(r.Context(), userID, d)
	}
	if err != nil {
		writeStoreError(w, err, "Failed to list logs", "user_id", userID)
		return
	}
	if logs == nil {
		logs = []habit.HabitLog{}
	}
	respond(w, http.StatusOK, LogListResponse{Logs: logs})
}
