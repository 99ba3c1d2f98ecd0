package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Emes13/habittrax/internal/config"
	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/internal/streak"
	"github.com/Emes13/habittrax/pkg/habit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type Server struct {
	cfg           *config.Config
	store         storage.Store
	authProviders map[string]*AuthProvider
	loc           *time.Location
	streakMode    streak.Mode
	now           func() time.Time
}

func New(cfg *config.Config, store storage.Store) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	mode, err := streak.ParseMode(cfg.StreakMode)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		store:      store,
		loc:        loc,
		streakMode: mode,
		now:        time.Now,
	}

	if cfg.AuthEnabled {
		providers, err := ConfigureOIDCProviders(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure auth: %w", err)
		}
		s.authProviders = providers
	}

	logger.Info("Server configured", "auth_enabled", cfg.AuthEnabled, "timezone", loc.String(), "streak_mode", mode)
	return s, nil
}

// today is the current date in the configured timezone.
func (s *Server) today() habit.Date {
	return habit.DateOf(s.now().In(s.loc))
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	if c := s.cfg.CORS; len(c.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   c.AllowedOrigins,
			AllowedMethods:   c.AllowedMethods,
			AllowedHeaders:   c.AllowedHeaders,
			AllowCredentials: c.AllowCredentials,
		}).Handler)
	}

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.AuthEnabled {
			r.Use(s.authMiddleware)
			r.Use(s.userAwareMetricsMiddleware)
		}

		r.Route("/api", func(r chi.Router) {
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.listCategories)
				r.Post("/", s.createCategory)
				r.Put("/{category_id}", s.updateCategory)
				r.Delete("/{category_id}", s.deleteCategory)
			})
			r.Route("/habits", func(r chi.Router) {
				r.Get("/", s.listHabits)
				r.Post("/", s.createHabit)
				r.Get("/{habit_id}", s.getHabit)
				r.Put("/{habit_id}", s.updateHabit)
				r.Delete("/{habit_id}", s.deleteHabit)
				r.Get("/{habit_id}/logs", s.getHabitLogs)
				r.Get("/{habit_id}/summary", s.getHabitSummary)
				r.Post("/{habit_id}/toggle", s.toggleStatus)
				r.Put("/{habit_id}/status", s.setStatus)
			})
			r.Get("/habit-logs", s.listLogs)
			r.Route("/stats", func(r chi.Router) {
				r.Get("/daily", s.getDailyStats)
				r.Get("/categories", s.getCategoryStats)
				r.Get("/trend", s.getTrend)
			})
			r.Get("/calendar/week", s.getWeekCalendar)
		})

		r.Route("/auth/api_keys", func(r chi.Router) {
			r.Post("/", s.generateAPIKey)
			r.Get("/", s.listAPIKeys)
			r.Delete("/{key_hash}", s.deleteAPIKey)
		})
	})
	return r
}
