// Package storagetest is a conformance suite run by every storage.Store
// implementation.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

// Opener returns a fresh, empty store. The suite closes it.
type Opener func(t *testing.T) storage.Store

// Run exercises s against the storage.Store contract.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(*testing.T, storage.Store)
	}{
		{"DefaultCategories", testDefaultCategories},
		{"CategoryCRUD", testCategoryCRUD},
		{"CategoryInUse", testCategoryInUse},
		{"HabitCRUD", testHabitCRUD},
		{"HabitUnknownCategory", testHabitUnknownCategory},
		{"UserIsolation", testUserIsolation},
		{"DeleteHabitCascades", testDeleteHabitCascades},
		{"SetStatusUpsert", testSetStatusUpsert},
		{"SetStatusToggleCycle", testSetStatusToggleCycle},
		{"SetStatusMissingHabit", testSetStatusMissingHabit},
		{"SetStatusConcurrent", testSetStatusConcurrent},
		{"LogsByRange", testLogsByRange},
		{"APIKeys", testAPIKeys},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() {
				if err := s.Close(); err != nil {
					t.Errorf("failed to close store: %v", err)
				}
			})
			tt.fn(t, s)
		})
	}
}

var day = habit.NewDate(2024, time.March, 4)

func firstCategory(t *testing.T, s storage.Store) habit.Category {
	t.Helper()
	cats, err := s.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("expected default categories")
	}
	return cats[0]
}

func mustHabit(t *testing.T, s storage.Store, userID, name string) habit.Habit {
	t.Helper()
	h, err := s.PutHabit(context.Background(), habit.Habit{
		UserID:     userID,
		CategoryID: firstCategory(t, s).ID,
		Name:       name,
		Frequency:  habit.FrequencyDaily,
	})
	if err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}
	return h
}

func status(s habit.Status) *habit.Status { return &s }

func testDefaultCategories(t *testing.T, s storage.Store) {
	cats, err := s.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != len(habit.DefaultCategories) {
		t.Fatalf("got %d categories, want %d", len(cats), len(habit.DefaultCategories))
	}
	names := map[string]bool{}
	for _, c := range cats {
		if c.ID == "" {
			t.Errorf("category %q has no id", c.Name)
		}
		names[c.Name] = true
	}
	for _, want := range habit.DefaultCategories {
		if !names[want.Name] {
			t.Errorf("missing default category %q", want.Name)
		}
	}
}

func testCategoryCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c, err := s.PutCategory(ctx, habit.Category{Name: "Music", Color: "#FF0000"})
	if err != nil {
		t.Fatalf("PutCategory failed: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected id to be assigned")
	}

	c.Color = "#00FF00"
	if _, err := s.PutCategory(ctx, c); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := s.GetCategory(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if got != c {
		t.Fatalf("got %+v, want %+v", got, c)
	}

	if _, err := s.PutCategory(ctx, habit.Category{Name: "Music"}); !errors.Is(err, storage.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := s.PutCategory(ctx, habit.Category{ID: "missing", Name: "X"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	if err := s.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := s.GetCategory(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteCategory(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func testCategoryInUse(t *testing.T, s storage.Store) {
	h := mustHabit(t, s, "u1", "Run")
	err := s.DeleteCategory(context.Background(), h.CategoryID)
	if !errors.Is(err, storage.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
}

func testHabitCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()
	cat := firstCategory(t, s)
	start := 2
	h, err := s.PutHabit(ctx, habit.Habit{
		UserID:       "u1",
		CategoryID:   cat.ID,
		Name:         "Guitar",
		Description:  "scales",
		Frequency:    habit.FrequencyWeekly,
		StartDay:     &start,
		ReminderTime: habit.ReminderEvening,
	})
	if err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}
	if h.ID == "" || h.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", h)
	}

	got, err := s.GetHabit(ctx, "u1", h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Guitar" || got.StartDay == nil || *got.StartDay != 2 || got.ReminderTime != habit.ReminderEvening {
		t.Fatalf("unexpected habit %+v", got)
	}

	got.Frequency = habit.FrequencyCustom
	got.StartDay = nil
	got.DaysOfWeek = []int{0, 3}
	got.CreatedAt = time.Time{}
	updated, err := s.PutHabit(ctx, got)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.CreatedAt.Equal(h.CreatedAt) {
		t.Fatalf("created_at changed from %v to %v", h.CreatedAt, updated.CreatedAt)
	}
	got, err = s.GetHabit(ctx, "u1", h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Frequency != habit.FrequencyCustom || len(got.DaysOfWeek) != 2 || got.DaysOfWeek[1] != 3 {
		t.Fatalf("update not stored: %+v", got)
	}

	second := mustHabit(t, s, "u1", "Read")
	list, err := s.ListHabits(ctx, "u1")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d habits, want 2", len(list))
	}

	if err := s.DeleteHabit(ctx, "u1", second.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if _, err := s.GetHabit(ctx, "u1", second.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteHabit(ctx, "u1", second.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := s.PutHabit(ctx, habit.Habit{ID: "missing", UserID: "u1", CategoryID: cat.ID, Name: "X"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing habit, got %v", err)
	}
}

func testHabitUnknownCategory(t *testing.T, s storage.Store) {
	_, err := s.PutHabit(context.Background(), habit.Habit{UserID: "u1", CategoryID: "nope", Name: "X", Frequency: habit.FrequencyDaily})
	var verr *habit.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category_id" {
		t.Fatalf("expected category_id validation error, got %v", err)
	}
}

func testUserIsolation(t *testing.T, s storage.Store) {
	ctx := context.Background()
	h := mustHabit(t, s, "alice", "Run")
	if _, err := s.SetStatus(ctx, "alice", h.ID, day, status(habit.StatusComplete)); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	list, err := s.ListHabits(ctx, "bob")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob sees %d habits", len(list))
	}
	if _, err := s.GetHabit(ctx, "bob", h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("bob can read alice's habit: %v", err)
	}
	if _, err := s.SetStatus(ctx, "bob", h.ID, day, nil); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("bob can log alice's habit: %v", err)
	}
	logs, err := s.LogsByDate(ctx, "bob", day)
	if err != nil {
		t.Fatalf("LogsByDate failed: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("bob sees %d logs", len(logs))
	}
}

func testDeleteHabitCascades(t *testing.T, s storage.Store) {
	ctx := context.Background()
	keep := mustHabit(t, s, "u1", "Keep")
	drop := mustHabit(t, s, "u1", "Drop")
	for i := range 3 {
		d := day.AddDays(i)
		for _, id := range []string{keep.ID, drop.ID} {
			if _, err := s.SetStatus(ctx, "u1", id, d, status(habit.StatusComplete)); err != nil {
				t.Fatalf("SetStatus failed: %v", err)
			}
		}
	}

	if err := s.DeleteHabit(ctx, "u1", drop.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	logs, err := s.LogsByRange(ctx, "u1", day, day.AddDays(2))
	if err != nil {
		t.Fatalf("LogsByRange failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3", len(logs))
	}
	for _, l := range logs {
		if l.HabitID != keep.ID {
			t.Fatalf("log for deleted habit survived: %+v", l)
		}
	}
	dropped, err := s.LogsByHabit(ctx, "u1", drop.ID)
	if err != nil {
		t.Fatalf("LogsByHabit failed: %v", err)
	}
	if len(dropped) != 0 {
		t.Fatalf("got %d logs for deleted habit", len(dropped))
	}
}

func testSetStatusUpsert(t *testing.T, s storage.Store) {
	ctx := context.Background()
	h := mustHabit(t, s, "u1", "Run")

	first, err := s.SetStatus(ctx, "u1", h.ID, day, status(habit.StatusPartial))
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	second, err := s.SetStatus(ctx, "u1", h.ID, day, status(habit.StatusNotApplicable))
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("log id changed from %s to %s", first.ID, second.ID)
	}
	if second.Status != habit.StatusNotApplicable || second.Date != day || second.HabitID != h.ID || second.UserID != "u1" {
		t.Fatalf("unexpected log %+v", second)
	}

	logs, err := s.LogsByDate(ctx, "u1", day)
	if err != nil {
		t.Fatalf("LogsByDate failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != habit.StatusNotApplicable {
		t.Fatalf("want exactly one not_applicable log, got %+v", logs)
	}
}

func testSetStatusToggleCycle(t *testing.T, s storage.Store) {
	ctx := context.Background()
	h := mustHabit(t, s, "u1", "Run")

	want := []habit.Status{habit.StatusComplete, habit.StatusIncomplete, habit.StatusComplete}
	for i, w := range want {
		l, err := s.SetStatus(ctx, "u1", h.ID, day, nil)
		if err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		if l.Status != w {
			t.Fatalf("toggle %d: got %s, want %s", i, l.Status, w)
		}
	}

	if _, err := s.SetStatus(ctx, "u1", h.ID, day, status(habit.StatusPartial)); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	l, err := s.SetStatus(ctx, "u1", h.ID, day, nil)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if l.Status != habit.StatusComplete {
		t.Fatalf("partial toggled to %s, want complete", l.Status)
	}
}

func testSetStatusMissingHabit(t *testing.T, s storage.Store) {
	_, err := s.SetStatus(context.Background(), "u1", "missing", day, nil)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testSetStatusConcurrent(t *testing.T, s storage.Store) {
	ctx := context.Background()
	h := mustHabit(t, s, "u1", "Run")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := habit.StatusComplete
			if i%2 == 0 {
				st = habit.StatusPartial
			}
			if _, err := s.SetStatus(ctx, "u1", h.ID, day, &st); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent SetStatus failed: %v", err)
	}

	logs, err := s.LogsByHabit(ctx, "u1", h.ID)
	if err != nil {
		t.Fatalf("LogsByHabit failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d rows, want 1", len(logs))
	}
}

func testLogsByRange(t *testing.T, s storage.Store) {
	ctx := context.Background()
	h := mustHabit(t, s, "u1", "Run")
	for i := -2; i <= 8; i++ {
		if _, err := s.SetStatus(ctx, "u1", h.ID, day.AddDays(i), status(habit.StatusComplete)); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
	}

	logs, err := s.LogsByRange(ctx, "u1", day, day.AddDays(6))
	if err != nil {
		t.Fatalf("LogsByRange failed: %v", err)
	}
	if len(logs) != 7 {
		t.Fatalf("got %d logs, want 7", len(logs))
	}
	for i, l := range logs {
		if l.Date != day.AddDays(i) {
			t.Fatalf("log %d has date %s, want %s", i, l.Date, day.AddDays(i))
		}
	}

	logs, err = s.LogsByRange(ctx, "u1", day.AddDays(6), day)
	if err != nil {
		t.Fatalf("LogsByRange failed: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("reversed range returned %d logs", len(logs))
	}

	all, err := s.LogsByHabit(ctx, "u1", h.ID)
	if err != nil {
		t.Fatalf("LogsByHabit failed: %v", err)
	}
	if len(all) != 11 {
		t.Fatalf("got %d logs, want 11", len(all))
	}
}

func testAPIKeys(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if _, found, err := s.GetAPIKey(ctx, "nonexistent-key"); err != nil || found {
		t.Fatalf("GetAPIKey(nonexistent) = %v, %v", found, err)
	}

	for hash, user := range map[string]string{"key1": "user1", "key2": "user1", "key3": "user2"} {
		if err := s.PutAPIKey(ctx, hash, user); err != nil {
			t.Fatalf("PutAPIKey failed: %v", err)
		}
	}

	userID, found, err := s.GetAPIKey(ctx, "key1")
	if err != nil || !found || userID != "user1" {
		t.Fatalf("GetAPIKey(key1) = %q, %v, %v", userID, found, err)
	}

	hashes, err := s.ListAPIKeyHashes(ctx, "user1")
	if err != nil {
		t.Fatalf("ListAPIKeyHashes failed: %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("expected 2 hashes for user1, got %d", len(hashes))
	}

	if err := s.DeleteAPIKey(ctx, "key1"); err != nil {
		t.Fatalf("DeleteAPIKey failed: %v", err)
	}
	if _, found, err := s.GetAPIKey(ctx, "key1"); err != nil || found {
		t.Fatalf("key1 still present after delete: %v, %v", found, err)
	}
}
