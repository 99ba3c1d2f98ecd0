package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

func (s *Store) queryLogs(ctx context.Context, query string, args ...any) ([]habit.HabitLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []habit.HabitLog
	for rows.Next() {
		var l habit.HabitLog
		var date string
		if err := rows.Scan(&l.ID, &l.HabitID, &l.UserID, &date, &l.Status); err != nil {
			return nil, err
		}
		if l.Date, err = habit.ParseDate(date); err != nil {
			return nil, fmt.Errorf("failed to parse date for log %s: %w", l.ID, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) LogsByDate(ctx context.Context, userID string, d habit.Date) ([]habit.HabitLog, error) {
	return s.queryLogs(ctx, `
		SELECT id, habit_id, user_id, date, status FROM habit_logs
		WHERE user_id = ? AND date = ? ORDER BY habit_id`, userID, d.String())
}

// LogsByRange relies on YYYY-MM-DD strings sorting chronologically.
func (s *Store) LogsByRange(ctx context.Context, userID string, start, end habit.Date) ([]habit.HabitLog, error) {
	return s.queryLogs(ctx, `
		SELECT id, habit_id, user_id, date, status FROM habit_logs
		WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date, habit_id`,
		userID, start.String(), end.String())
}

func (s *Store) LogsByHabit(ctx context.Context, userID, habitID string) ([]habit.HabitLog, error) {
	return s.queryLogs(ctx, `
		SELECT id, habit_id, user_id, date, status FROM habit_logs
		WHERE user_id = ? AND habit_id = ? ORDER BY date`, userID, habitID)
}

// SetStatus writes an explicit status with a single upsert. A toggle reads
// the current status inside the same transaction before upserting.
func (s *Store) SetStatus(ctx context.Context, userID, habitID string, d habit.Date, status *habit.Status) (habit.HabitLog, error) {
	out := habit.HabitLog{HabitID: habitID, UserID: userID, Date: d}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM habits WHERE id = ? AND user_id = ?`, habitID, userID).Scan(&n); err != nil {
		return out, err
	}
	if n == 0 {
		return out, fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	var existing *habit.Status
	if status == nil {
		var cur habit.Status
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM habit_logs WHERE habit_id = ? AND user_id = ? AND date = ?`,
			habitID, userID, d.String()).Scan(&cur)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return out, err
		default:
			existing = &cur
		}
	}
	out.Status = habit.ResolveStatus(existing, status)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO habit_logs (id, habit_id, user_id, date, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, user_id, date) DO UPDATE SET
			status = excluded.status
		RETURNING id`,
		storage.NewID(), habitID, userID, d.String(), out.Status).Scan(&out.ID)
	if err != nil {
		return out, err
	}
	return out, tx.Commit()
}
