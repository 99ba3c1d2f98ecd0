package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

const habitColumns = `id, user_id, category_id, name, description, frequency, start_day, days_of_week, reminder_time, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (habit.Habit, error) {
	var h habit.Habit
	var startDay sql.NullInt64
	var days, createdAt string
	if err := row.Scan(&h.ID, &h.UserID, &h.CategoryID, &h.Name, &h.Description, &h.Frequency,
		&startDay, &days, &h.ReminderTime, &createdAt); err != nil {
		return h, err
	}
	if startDay.Valid {
		d := int(startDay.Int64)
		h.StartDay = &d
	}
	if err := json.Unmarshal([]byte(days), &h.DaysOfWeek); err != nil {
		return h, fmt.Errorf("failed to parse days_of_week for habit %s: %w", h.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return h, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.CreatedAt = t
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context, userID string) ([]habit.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []habit.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) GetHabit(ctx context.Context, userID, id string) (habit.Habit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	h, err := scanHabit(row)
	return h, notFound(err, "habit", id)
}

func (s *Store) PutHabit(ctx context.Context, h habit.Habit) (habit.Habit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return h, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM categories WHERE id = ?`, h.CategoryID).Scan(&n); err != nil {
		return h, err
	}
	if n == 0 {
		return h, &habit.ValidationError{Field: "category_id", Value: h.CategoryID, Reason: "unknown category"}
	}

	days, err := json.Marshal(h.DaysOfWeek)
	if err != nil {
		return h, err
	}
	if h.DaysOfWeek == nil {
		days = []byte("[]")
	}
	var startDay sql.NullInt64
	if h.StartDay != nil {
		startDay = sql.NullInt64{Int64: int64(*h.StartDay), Valid: true}
	}

	if h.ID == "" {
		h.ID = storage.NewID()
		h.CreatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habits (`+habitColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.UserID, h.CategoryID, h.Name, h.Description, h.Frequency,
			startDay, string(days), h.ReminderTime, h.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return h, err
		}
		return h, tx.Commit()
	}

	var createdAt string
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM habits WHERE id = ? AND user_id = ?`, h.ID, h.UserID).Scan(&createdAt)
	if err != nil {
		return h, notFound(err, "habit", h.ID)
	}
	if h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return h, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE habits SET category_id = ?, name = ?, description = ?, frequency = ?,
			start_day = ?, days_of_week = ?, reminder_time = ?
		WHERE id = ? AND user_id = ?`,
		h.CategoryID, h.Name, h.Description, h.Frequency,
		startDay, string(days), h.ReminderTime, h.ID, h.UserID)
	if err != nil {
		return h, err
	}
	return h, tx.Commit()
}

// DeleteHabit relies on ON DELETE CASCADE to remove the habit's logs.
func (s *Store) DeleteHabit(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res, "habit", id)
}
