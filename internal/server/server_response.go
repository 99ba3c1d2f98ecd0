package server

import (
	"github.com/Emes13/habittrax/internal/stats"
	"github.com/Emes13/habittrax/pkg/habit"
)

type CategoryListResponse struct {
	Categories []habit.Category `json:"categories"`
}

type HabitListResponse struct {
	Date   *habit.Date   `json:"date,omitempty"`
	Habits []habit.Habit `json:"habits"`
}

type HabitLogsResponse struct {
	HabitID string           `json:"habit_id"`
	Logs    []habit.HabitLog `json:"logs"`
}

type LogListResponse struct {
	Logs []habit.HabitLog `json:"logs"`
}

type HabitSummaryResponse struct {
	HabitID      string             `json:"habit_id"`
	HabitSummary habit.HabitSummary `json:"habit_summary"`
}

type CategoryStatsResponse struct {
	Start      habit.Date           `json:"start"`
	End        habit.Date           `json:"end"`
	Categories []stats.CategoryRate `json:"categories"`
}

type TrendResponse struct {
	Bucket stats.Bucket       `json:"bucket"`
	Points []stats.TrendPoint `json:"points"`
}

type WeekCalendarResponse struct {
	Week     habit.Week   `json:"week"`
	Previous habit.Date   `json:"previous"`
	Next     habit.Date   `json:"next"`
	Days     [7]stats.Day `json:"days"`
}

type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

type APIKeyInfo struct {
	Hash    string `json:"hash"`
	Display string `json:"display"`
}

type APIKeyListResponse struct {
	Keys []APIKeyInfo `json:"keys"`
}

type errorResponse struct {
	Error string `json:"error"`
}
