package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrLeaseLost is returned when a lease was taken over after it expired.
var ErrLeaseLost = errors.New("processing lease lost")

// Flags is the per-user "file is being processed" flag, stored as a lease:
// a row with an owner token and an expiry. An expired row counts as free,
// so a crashed job cannot lock its user out forever.
type Flags struct {
	db  *sql.DB
	now func() time.Time
}

func NewFlags(db *sql.DB) *Flags {
	return &Flags{db: db, now: time.Now}
}

// Acquire takes the lease for userID. ok is false when somebody holds an
// unexpired lease.
func (f *Flags) Acquire(ctx context.Context, userID int64, ttl time.Duration) (token string, ok bool, err error) {
	now := f.now()
	token = uuid.NewString()
	res, err := f.db.ExecContext(ctx, `
		INSERT INTO processing_flags (user_id, token, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at
		WHERE processing_flags.expires_at <= ?`,
		userID, token, now.Add(ttl).UnixMilli(), now.UnixMilli())
	if err != nil {
		return "", false, errors.Wrap(err, "acquire processing flag")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, errors.Wrap(err, "acquire processing flag")
	}
	if n == 0 {
		return "", false, nil
	}
	return token, true, nil
}

func (f *Flags) Extend(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	res, err := f.db.ExecContext(ctx,
		`UPDATE processing_flags SET expires_at = ? WHERE user_id = ? AND token = ?`,
		f.now().Add(ttl).UnixMilli(), userID, token)
	if err != nil {
		return errors.Wrap(err, "extend processing flag")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrLeaseLost
	}
	return nil
}

// Release clears the flag if token still owns it.
func (f *Flags) Release(ctx context.Context, userID int64, token string) error {
	_, err := f.db.ExecContext(ctx,
		`DELETE FROM processing_flags WHERE user_id = ? AND token = ?`, userID, token)
	if err != nil {
		return errors.Wrap(err, "release processing flag")
	}
	return nil
}

func (f *Flags) Processing(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := f.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM processing_flags WHERE user_id = ? AND expires_at > ?)`,
		userID, f.now().UnixMilli()).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "read processing flag")
	}
	return exists, nil
}

// Reset drops the flag whoever owns it. Used by the /unlock admin command.
func (f *Flags) Reset(ctx context.Context, userID int64) error {
	_, err := f.db.ExecContext(ctx, `DELETE FROM processing_flags WHERE user_id = ?`, userID)
	if err != nil {
		return errors.Wrap(err, "reset processing flag")
	}
	return nil
}
