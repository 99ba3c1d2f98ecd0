package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

func (s *Store) ListCategories(ctx context.Context) ([]habit.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []habit.Category
	for rows.Next() {
		var c habit.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (habit.Category, error) {
	var c habit.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name, color FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color)
	return c, notFound(err, "category", id)
}

func (s *Store) PutCategory(ctx context.Context, c habit.Category) (habit.Category, error) {
	if c.ID == "" {
		c.ID = storage.NewID()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO categories (id, name, color) VALUES (?, ?, ?)`, c.ID, c.Name, c.Color)
		return c, categoryErr(err, c)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ?`, c.Name, c.Color, c.ID)
	if err != nil {
		return c, categoryErr(err, c)
	}
	return c, requireRow(res, "category", c.ID)
}

func categoryErr(err error, c habit.Category) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("category %q: %w", c.Name, storage.ErrDuplicateName)
	}
	return err
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var inUse int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM habits WHERE category_id = ?`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("category %s: %w", id, storage.ErrCategoryInUse)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res, "category", id); err != nil {
		return err
	}
	return tx.Commit()
}
