package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags(t *testing.T) (*Flags, *time.Time) {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFlags(db)
	f.now = func() time.Time { return now }
	return f, &now
}

func TestFlags_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlags(t)

	token, ok, err := f.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	busy, err := f.Processing(ctx, 42)
	require.NoError(t, err)
	assert.True(t, busy)

	_, ok, err = f.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while the lease is live")

	_, ok, err = f.Acquire(ctx, 43, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other users are independent")

	require.NoError(t, f.Release(ctx, 42, "someone-else"))
	busy, err = f.Processing(ctx, 42)
	require.NoError(t, err)
	assert.True(t, busy, "release with a foreign token is a no-op")

	require.NoError(t, f.Release(ctx, 42, token))
	busy, err = f.Processing(ctx, 42)
	require.NoError(t, err)
	assert.False(t, busy)

	_, ok, err = f.Acquire(ctx, 42, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFlags_Expiry(t *testing.T) {
	ctx := context.Background()
	f, now := newTestFlags(t)

	oldToken, ok, err := f.Acquire(ctx, 7, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	*now = now.Add(2 * time.Minute)
	busy, err := f.Processing(ctx, 7)
	require.NoError(t, err)
	assert.False(t, busy, "expired lease counts as free")

	newToken, ok, err := f.Acquire(ctx, 7, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, oldToken, newToken)

	assert.ErrorIs(t, f.Extend(ctx, 7, oldToken, time.Minute), ErrLeaseLost)
	require.NoError(t, f.Release(ctx, 7, oldToken))
	busy, err = f.Processing(ctx, 7)
	require.NoError(t, err)
	assert.True(t, busy, "stale owner cannot release the new lease")
}

func TestFlags_Extend(t *testing.T) {
	ctx := context.Background()
	f, now := newTestFlags(t)

	token, ok, err := f.Acquire(ctx, 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	*now = now.Add(50 * time.Second)
	require.NoError(t, f.Extend(ctx, 1, token, time.Minute))

	*now = now.Add(50 * time.Second)
	busy, err := f.Processing(ctx, 1)
	require.NoError(t, err)
	assert.True(t, busy, "extended lease is still live")
}

func TestFlags_Reset(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlags(t)

	_, ok, err := f.Acquire(ctx, 5, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.Reset(ctx, 5))
	busy, err := f.Processing(ctx, 5)
	require.NoError(t, err)
	assert.False(t, busy)
	require.NoError(t, f.Reset(ctx, 5), "reset of a free user is fine")
}
