// Package remind finds habits whose reminder slot has passed today without
// the habit being done, and hands them to a Notifier.
package remind

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/recurrence"
	"github.com/Emes13/habittrax/pkg/habit"
)

// Due is a habit whose reminder should fire.
type Due struct {
	HabitID string             `json:"habit_id"`
	Name    string             `json:"name"`
	Slot    habit.ReminderTime `json:"slot"`
	Hour    int                `json:"hour"`
	Status  habit.Status       `json:"status"`
}

type Notifier interface {
	Notify(ctx context.Context, date habit.Date, due []Due) error
}

// DueAt returns the habits active on now's date whose slot hour has been
// reached and which are neither complete nor not_applicable. now should be
// in the user's timezone.
func DueAt(habits []habit.Habit, logs []habit.HabitLog, now time.Time) []Due {
	today := habit.DateOf(now)
	statuses := make(map[string]habit.Status, len(logs))
	for _, l := range logs {
		if l.Date == today {
			statuses[l.HabitID] = l.Status
		}
	}

	var out []Due
	for _, h := range recurrence.Active(habits, today) {
		hour, ok := h.ReminderTime.Hour()
		if !ok || now.Hour() < hour {
			continue
		}
		st, logged := statuses[h.ID]
		if !logged {
			st = habit.StatusIncomplete
		}
		if st == habit.StatusComplete || st == habit.StatusNotApplicable {
			continue
		}
		out = append(out, Due{HabitID: h.ID, Name: h.Name, Slot: h.ReminderTime, Hour: hour, Status: st})
	}
	return out
}

// Checker sends each due reminder at most once per day.
type Checker struct {
	Querier  Querier
	Notifier Notifier
	Location *time.Location
	Now      func() time.Time

	mu   sync.Mutex
	sent map[habit.Date]map[string]struct{}
}

func (c *Checker) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Check queries today's habits and logs and notifies about reminders not yet
// sent today. It returns the reminders it sent.
func (c *Checker) Check(ctx context.Context) ([]Due, error) {
	now := c.now()
	today := habit.DateOf(now)

	habits, err := c.Querier.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	logs, err := c.Querier.LogsByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for %s: %w", today, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent == nil {
		c.sent = map[habit.Date]map[string]struct{}{}
	}
	// only today's entries matter
	for d := range c.sent {
		if d != today {
			delete(c.sent, d)
		}
	}
	sentToday := c.sent[today]
	if sentToday == nil {
		sentToday = map[string]struct{}{}
		c.sent[today] = sentToday
	}

	var fresh []Due
	for _, d := range DueAt(habits, logs, now) {
		if _, done := sentToday[d.HabitID]; !done {
			fresh = append(fresh, d)
		}
	}
	if len(fresh) == 0 {
		logger.Debug("No reminders due", "date", today)
		return nil, nil
	}

	if err := c.Notifier.Notify(ctx, today, fresh); err != nil {
		return nil, fmt.Errorf("failed to send reminders: %w", err)
	}
	for _, d := range fresh {
		sentToday[d.HabitID] = struct{}{}
	}
	logger.Info("Sent reminders", "date", today, "count", len(fresh))
	return fresh, nil
}

// Run calls Check every interval until ctx is done. Check errors are logged
// and do not stop the loop.
func (c *Checker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := c.Check(ctx); err != nil {
			logger.Error("Reminder check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
