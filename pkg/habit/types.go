package habit

import "time"

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

type ReminderTime string

const (
	ReminderNone      ReminderTime = "none"
	ReminderAnytime   ReminderTime = "anytime"
	ReminderMorning   ReminderTime = "morning"
	ReminderAfternoon ReminderTime = "afternoon"
	ReminderEvening   ReminderTime = "evening"
)

// Hour returns the local hour after which a reminder for r is due. Slots
// without a fixed hour return false.
func (r ReminderTime) Hour() (int, bool) {
	switch r {
	case ReminderMorning:
		return 8, true
	case ReminderAfternoon:
		return 13, true
	case ReminderEvening:
		return 19, true
	}
	return 0, false
}

const DefaultCategoryColor = "#6366f1"

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultCategories are created when a store holds no categories.
var DefaultCategories = []Category{
	{Name: "Health", Color: "#3b82f6"},
	{Name: "Productivity", Color: "#10b981"},
	{Name: "Learning", Color: "#8b5cf6"},
	{Name: "Wellness", Color: "#22c55e"},
}

// Habit is a user's recurring activity. StartDay is only read for weekly
// habits and DaysOfWeek only for custom ones; both use Monday=0.
type Habit struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	CategoryID   string       `json:"category_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Frequency    Frequency    `json:"frequency"`
	StartDay     *int         `json:"start_day,omitempty"`
	DaysOfWeek   []int        `json:"days_of_week,omitempty"`
	ReminderTime ReminderTime `json:"reminder_time,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// HabitLog is the status of one habit for one user on one date. The triple
// (HabitID, UserID, Date) identifies a log.
type HabitLog struct {
	ID      string `json:"id"`
	HabitID string `json:"habit_id"`
	UserID  string `json:"user_id"`
	Date    Date   `json:"date"`
	Status  Status `json:"status"`
}

type HabitSummary struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	FirstLogged   Date   `json:"first_logged"`
	LastCompleted Date   `json:"last_completed"`
	TotalDaysDone int    `json:"total_days_done"`
	BestMonth     int    `json:"best_month"`
	ThisMonth     int    `json:"this_month"`
}
