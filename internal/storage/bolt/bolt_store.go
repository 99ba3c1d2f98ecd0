package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
	"go.etcd.io/bbolt"
)

const (
	usersBucket      = "users"
	categoriesBucket = "categories"
	apiKeysBucket    = "api_keys"
	habitsBucket     = "habits"
	logsBucket       = "logs"
	defaultUserID    = "default"
)

type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path and seeds the default
// categories into an empty database.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{usersBucket, categoriesBucket, apiKeysBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		cats := tx.Bucket([]byte(categoriesBucket))
		if cats.Stats().KeyN > 0 {
			return nil
		}
		for _, c := range habit.DefaultCategories {
			c.ID = storage.NewID()
			if err := putJSON(cats, c.ID, c); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func putJSON(b *bbolt.Bucket, key string, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), val)
}

// userBucket returns the named sub-bucket of the user, creating it in
// writable transactions. In read-only transactions a missing bucket is nil.
func userBucket(tx *bbolt.Tx, userID, name string) (*bbolt.Bucket, error) {
	if userID == "" {
		userID = defaultUserID
	}
	users := tx.Bucket([]byte(usersBucket))
	if !tx.Writable() {
		u := users.Bucket([]byte(userID))
		if u == nil {
			return nil, nil
		}
		return u.Bucket([]byte(name)), nil
	}
	u, err := users.CreateBucketIfNotExists([]byte(userID))
	if err != nil {
		return nil, err
	}
	return u.CreateBucketIfNotExists([]byte(name))
}

// Category operations

func (s *Store) ListCategories(_ context.Context) ([]habit.Category, error) {
	var out []habit.Category
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(categoriesBucket)).ForEach(func(_, v []byte) error {
			var c habit.Category
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	slices.SortFunc(out, func(a, b habit.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

func (s *Store) GetCategory(_ context.Context, id string) (habit.Category, error) {
	var c habit.Category
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(categoriesBucket)).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("category %s: %w", id, storage.ErrNotFound)
		}
		return json.Unmarshal(v, &c)
	})
	return c, err
}

func (s *Store) PutCategory(_ context.Context, c habit.Category) (habit.Category, error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(categoriesBucket))
		if c.ID == "" {
			c.ID = storage.NewID()
		} else if b.Get([]byte(c.ID)) == nil {
			return fmt.Errorf("category %s: %w", c.ID, storage.ErrNotFound)
		}
		if err := b.ForEach(func(k, v []byte) error {
			var other habit.Category
			if err := json.Unmarshal(v, &other); err != nil {
				return err
			}
			if string(k) != c.ID && strings.EqualFold(other.Name, c.Name) {
				return fmt.Errorf("category %q: %w", c.Name, storage.ErrDuplicateName)
			}
			return nil
		}); err != nil {
			return err
		}
		return putJSON(b, c.ID, c)
	})
	return c, err
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(categoriesBucket))
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("category %s: %w", id, storage.ErrNotFound)
		}
		users := tx.Bucket([]byte(usersBucket))
		if err := users.ForEachBucket(func(uid []byte) error {
			hb := users.Bucket(uid).Bucket([]byte(habitsBucket))
			if hb == nil {
				return nil
			}
			return hb.ForEach(func(_, v []byte) error {
				var h habit.Habit
				if err := json.Unmarshal(v, &h); err != nil {
					return err
				}
				if h.CategoryID == id {
					return fmt.Errorf("category %s: %w", id, storage.ErrCategoryInUse)
				}
				return nil
			})
		}); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

// Habit operations

func (s *Store) ListHabits(_ context.Context, userID string) ([]habit.Habit, error) {
	var out []habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := userBucket(tx, userID, habitsBucket)
		if err != nil || b == nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var h habit.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	slices.SortFunc(out, func(a, b habit.Habit) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, err
}

func (s *Store) GetHabit(_ context.Context, userID, id string) (habit.Habit, error) {
	var h habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		found, err := getHabit(tx, userID, id, &h)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
	return h, err
}

func getHabit(tx *bbolt.Tx, userID, id string, h *habit.Habit) (bool, error) {
	b, err := userBucket(tx, userID, habitsBucket)
	if err != nil || b == nil {
		return false, err
	}
	v := b.Get([]byte(id))
	if v == nil {
		return false, nil
	}
	return true, json.Unmarshal(v, h)
}

func (s *Store) PutHabit(_ context.Context, h habit.Habit) (habit.Habit, error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(categoriesBucket)).Get([]byte(h.CategoryID)) == nil {
			return &habit.ValidationError{Field: "category_id", Value: h.CategoryID, Reason: "unknown category"}
		}
		b, err := userBucket(tx, h.UserID, habitsBucket)
		if err != nil {
			return err
		}
		if h.ID == "" {
			h.ID = storage.NewID()
			h.CreatedAt = time.Now().UTC()
		} else {
			var old habit.Habit
			found, err := getHabit(tx, h.UserID, h.ID, &old)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("habit %s: %w", h.ID, storage.ErrNotFound)
			}
			h.CreatedAt = old.CreatedAt
		}
		return putJSON(b, h.ID, h)
	})
	return h, err
}

func (s *Store) DeleteHabit(_ context.Context, userID, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		hb, err := userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if hb.Get([]byte(id)) == nil {
			return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
		}
		if err := hb.Delete([]byte(id)); err != nil {
			return err
		}

		lb, err := userBucket(tx, userID, logsBucket)
		if err != nil {
			return err
		}
		suffix := []byte("/" + id)
		var keys [][]byte
		if err := lb.ForEach(func(k, _ []byte) error {
			if bytes.HasSuffix(k, suffix) {
				keys = append(keys, bytes.Clone(k))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range keys {
			if err := lb.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Log operations. Logs are keyed "<YYYY-MM-DD>/<habitID>" so a cursor seek
// on a date prefix walks a date range in order.

func logKey(d habit.Date, habitID string) []byte {
	return []byte(d.String() + "/" + habitID)
}

func (s *Store) scanLogs(userID string, start, end habit.Date, keep func(habit.HabitLog) bool) ([]habit.HabitLog, error) {
	var out []habit.HabitLog
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := userBucket(tx, userID, logsBucket)
		if err != nil || b == nil {
			return err
		}
		c := b.Cursor()
		k, v := c.First()
		if !start.IsZero() {
			k, v = c.Seek([]byte(start.String()))
		}
		last := []byte(end.String() + "/\xff")
		for ; k != nil; k, v = c.Next() {
			if !end.IsZero() && bytes.Compare(k, last) > 0 {
				break
			}
			var l habit.HabitLog
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			if keep == nil || keep(l) {
				out = append(out, l)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) LogsByDate(_ context.Context, userID string, d habit.Date) ([]habit.HabitLog, error) {
	return s.scanLogs(userID, d, d, nil)
}

func (s *Store) LogsByRange(_ context.Context, userID string, start, end habit.Date) ([]habit.HabitLog, error) {
	if end.Before(start) {
		return nil, nil
	}
	return s.scanLogs(userID, start, end, nil)
}

func (s *Store) LogsByHabit(_ context.Context, userID, habitID string) ([]habit.HabitLog, error) {
	return s.scanLogs(userID, habit.Date{}, habit.Date{}, func(l habit.HabitLog) bool {
		return l.HabitID == habitID
	})
}

func (s *Store) SetStatus(_ context.Context, userID, habitID string, d habit.Date, status *habit.Status) (habit.HabitLog, error) {
	var out habit.HabitLog
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var h habit.Habit
		found, err := getHabit(tx, userID, habitID, &h)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
		}

		b, err := userBucket(tx, userID, logsBucket)
		if err != nil {
			return err
		}
		key := logKey(d, habitID)
		var existing *habit.Status
		out = habit.HabitLog{HabitID: habitID, UserID: userID, Date: d}
		if v := b.Get(key); v != nil {
			if err := json.Unmarshal(v, &out); err != nil {
				return err
			}
			existing = &out.Status
		} else {
			out.ID = storage.NewID()
		}
		out.Status = habit.ResolveStatus(existing, status)
		return putJSON(b, string(key), out)
	})
	return out, err
}

// API key operations

func (s *Store) PutAPIKey(_ context.Context, keyHash, userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).Put([]byte(keyHash), []byte(userID))
	})
}

func (s *Store) GetAPIKey(_ context.Context, keyHash string) (string, bool, error) {
	var userID string
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(apiKeysBucket)).Get([]byte(keyHash)); v != nil {
			userID = string(v)
		}
		return nil
	})
	return userID, userID != "", err
}

func (s *Store) ListAPIKeyHashes(_ context.Context, userID string) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).ForEach(func(k, v []byte) error {
			if string(v) == userID {
				out = append(out, string(k))
			}
			return nil
		})
	})
	return out, err
}

func (s *Store) DeleteAPIKey(_ context.Context, keyHash string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeysBucket)).Delete([]byte(keyHash))
	})
}

var _ storage.Store = (*Store)(nil)
