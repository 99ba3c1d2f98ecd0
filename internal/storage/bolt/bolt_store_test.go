package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/internal/storage/storagetest"
	"github.com/Emes13/habittrax/pkg/habit"
)

func newTestStore(t *testing.T) (*Store, func()) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return store, cleanup
}

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := Open(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to open test store: %v", err)
		}
		return s
	})
}

func TestReopenKeepsDataAndDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	cats, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	h, err := store.PutHabit(ctx, habit.Habit{UserID: "u1", CategoryID: cats[0].ID, Name: "Run", Frequency: habit.FrequencyDaily})
	if err != nil {
		t.Fatalf("PutHabit failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	again, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(again) != len(cats) {
		t.Fatalf("got %d categories after reopen, want %d", len(again), len(cats))
	}
	if _, err := store.GetHabit(ctx, "u1", h.ID); err != nil {
		t.Fatalf("GetHabit after reopen failed: %v", err)
	}
}

func TestLogKeyOrdersByDate(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	cats, _ := store.ListCategories(ctx)
	a, _ := store.PutHabit(ctx, habit.Habit{UserID: "u1", CategoryID: cats[0].ID, Name: "A", Frequency: habit.FrequencyDaily})
	b, _ := store.PutHabit(ctx, habit.Habit{UserID: "u1", CategoryID: cats[0].ID, Name: "B", Frequency: habit.FrequencyDaily})

	d, _ := habit.ParseDate("2024-12-31")
	next := d.AddDays(1)
	for _, id := range []string{a.ID, b.ID} {
		if _, err := store.SetStatus(ctx, "u1", id, next, nil); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		if _, err := store.SetStatus(ctx, "u1", id, d, nil); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
	}

	logs, err := store.LogsByDate(ctx, "u1", d)
	if err != nil {
		t.Fatalf("LogsByDate failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs on %s, want 2", len(logs), d)
	}
	for _, l := range logs {
		if l.Date != d {
			t.Fatalf("log on wrong date: %+v", l)
		}
	}
}

func TestEmptyUserReadsDoNotCreateBuckets(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	habits, err := store.ListHabits(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 0 {
		t.Fatalf("expected empty list, got %d items", len(habits))
	}
}
