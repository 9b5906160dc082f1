package database

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
)

// Entry is one row of the whitelist.
type Entry struct {
	UserID   int64
	Username string
}

// Whitelist holds users admitted with /allow on top of the config lists.
type Whitelist struct {
	db *sql.DB
}

func NewWhitelist(db *sql.DB) *Whitelist {
	return &Whitelist{db: db}
}

// Add inserts or renames a user.
func (w *Whitelist) Add(ctx context.Context, userID int64, username string) error {
	_, err := w.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO whitelist (user_id, username) VALUES (?, ?)`, userID, username)
	if err != nil {
		return errors.Wrap(err, "додавання у whitelist")
	}
	return nil
}

// Remove deletes by username and reports whether a row was there.
func (w *Whitelist) Remove(ctx context.Context, username string) (bool, error) {
	res, err := w.db.ExecContext(ctx, `DELETE FROM whitelist WHERE username = ?`, username)
	if err != nil {
		return false, errors.Wrap(err, "не вдалося видалити користувача з вайтлисту")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

func (w *Whitelist) Contains(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := w.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM whitelist WHERE user_id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "помилка перевірки whitelist")
	}
	return exists, nil
}

func (w *Whitelist) Empty(ctx context.Context) (bool, error) {
	var exists bool
	if err := w.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM whitelist)`).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "помилка перевірки whitelist")
	}
	return !exists, nil
}

// List returns all entries ordered by user id.
func (w *Whitelist) List(ctx context.Context) ([]Entry, error) {
	rows, err := w.db.QueryContext(ctx, `SELECT user_id, username FROM whitelist ORDER BY user_id`)
	if err != nil {
		return nil, errors.Wrap(err, "помилка запиту до БД")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.Username); err != nil {
			return nil, errors.Wrap(err, "scan whitelist")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
