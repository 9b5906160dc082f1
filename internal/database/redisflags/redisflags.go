// Package redisflags keeps processing leases in Redis, for deployments that
// run more than one bot process against the same users.
package redisflags

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/Geergon/ytapi-goTelegramBot/internal/database"
)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type Flags struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client) *Flags {
	return &Flags{client: client, prefix: "ytapi:processing:"}
}

// NewClient mirrors the options used for the rest of our Redis clients.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (f *Flags) key(userID int64) string {
	return fmt.Sprintf("%s%d", f.prefix, userID)
}

func (f *Flags) Acquire(ctx context.Context, userID int64, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := f.client.SetNX(ctx, f.key(userID), token, ttl).Result()
	if err != nil {
		return "", false, errors.Wrap(err, "redis setnx")
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (f *Flags) Extend(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	n, err := extendScript.Run(ctx, f.client, []string{f.key(userID)}, token, ttl.Milliseconds()).Int()
	if err != nil {
		return errors.Wrap(err, "redis extend")
	}
	if n == 0 {
		return database.ErrLeaseLost
	}
	return nil
}

func (f *Flags) Release(ctx context.Context, userID int64, token string) error {
	if err := releaseScript.Run(ctx, f.client, []string{f.key(userID)}, token).Err(); err != nil {
		return errors.Wrap(err, "redis release")
	}
	return nil
}

func (f *Flags) Processing(ctx context.Context, userID int64) (bool, error) {
	n, err := f.client.Exists(ctx, f.key(userID)).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis exists")
	}
	return n > 0, nil
}

func (f *Flags) Reset(ctx context.Context, userID int64) error {
	if err := f.client.Del(ctx, f.key(userID)).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}
