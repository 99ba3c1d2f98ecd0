package sqlite

import (
	"context"
	"database/sql"
)

func (s *Store) PutAPIKey(ctx context.Context, keyHash, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (key_hash, user_id) VALUES (?, ?)
		ON CONFLICT(key_hash) DO UPDATE SET user_id = excluded.user_id`, keyHash, userID)
	return err
}

func (s *Store) GetAPIKey(ctx context.Context, keyHash string) (string, bool, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

func (s *Store) ListAPIKeyHashes(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key_hash FROM api_keys WHERE user_id = ? ORDER BY key_hash`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAPIKey(ctx context.Context, keyHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE key_hash = ?`, keyHash)
	return err
}
