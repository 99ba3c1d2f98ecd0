// Package fixture loads demo habits and a week of history into a store.
package fixture

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

type demoHabit struct {
	name        string
	description string
	category    string
	reminder    habit.ReminderTime
}

var demoHabits = []demoHabit{
	{"Drink 2L of water", "Stay hydrated throughout the day", "Health", habit.ReminderAnytime},
	{"Read for 30 minutes", "Read non-fiction books to learn new skills", "Learning", habit.ReminderEvening},
	{"Meditate for 10 minutes", "Practice mindfulness and reduce stress", "Wellness", habit.ReminderMorning},
	{"Practice coding", "Work on personal projects to improve skills", "Learning", habit.ReminderAfternoon},
}

type Options struct {
	UserID string
	Today  habit.Date
	// Days of history to generate, ending at Today.
	Days int
	// Seed makes the generated history reproducible.
	Seed uint64
}

type Result struct {
	HabitsCreated int
	LogsWritten   int
}

// Seed creates the demo habits for opts.UserID, reusing any that already
// exist by name, and marks a random subset of the last opts.Days days
// complete. Older days are more likely to be complete.
func Seed(ctx context.Context, st storage.Store, opts Options) (Result, error) {
	var res Result
	if opts.Days <= 0 {
		opts.Days = 7
	}

	categories, err := st.ListCategories(ctx)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return res, fmt.Errorf("no categories available")
	}
	categoryID := func(name string) string {
		for _, c := range categories {
			if c.Name == name {
				return c.ID
			}
		}
		return categories[0].ID
	}

	existing, err := st.ListHabits(ctx, opts.UserID)
	if err != nil {
		return res, fmt.Errorf("list habits: %w", err)
	}
	byName := make(map[string]habit.Habit, len(existing))
	for _, h := range existing {
		byName[h.Name] = h
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1|1))
	complete := habit.StatusComplete
	for _, dh := range demoHabits {
		h, ok := byName[dh.name]
		if !ok {
			h, err = st.PutHabit(ctx, habit.Habit{
				UserID:       opts.UserID,
				CategoryID:   categoryID(dh.category),
				Name:         dh.name,
				Description:  dh.description,
				Frequency:    habit.FrequencyDaily,
				ReminderTime: dh.reminder,
			})
			if err != nil {
				return res, fmt.Errorf("create habit %q: %w", dh.name, err)
			}
			res.HabitsCreated++
		}

		for i := range opts.Days {
			if rng.Float64() >= 0.7-float64(i)*0.05 {
				continue
			}
			d := opts.Today.AddDays(-i)
			if _, err := st.SetStatus(ctx, opts.UserID, h.ID, d, &complete); err != nil {
				return res, fmt.Errorf("log %q on %s: %w", dh.name, d, err)
			}
			res.LogsWritten++
		}
	}

	logger.Info("Seeded demo data", "user_id", opts.UserID, "habits_created", res.HabitsCreated, "logs_written", res.LogsWritten)
	return res, nil
}
