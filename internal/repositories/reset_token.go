package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
)

// ErrResetTokenNotFound is returned when no unconsumed reset token
// exists for the user, either because none was issued or it expired.
var ErrResetTokenNotFound = errors.New("reset token not found or expired")

// ResetTokenCacheRepository stores single-use password reset tokens in
// Redis with a TTL matching the token lifetime.
type ResetTokenCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

func NewResetTokenCacheRepository(client *redis.Client, expiration time.Duration) *ResetTokenCacheRepository {
	return &ResetTokenCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func resetTokenKey(userID string) string {
	return fmt.Sprintf("reset_token:%s", userID)
}

// Save stores the issued token for the user, replacing any earlier one.
func (r *ResetTokenCacheRepository) Save(ctx context.Context, userID, token string) error {
	key := resetTokenKey(userID)
	err := r.client.Set(ctx, key, token, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}

// Consume atomically fetches and deletes the stored token for the user,
// making every issued reset token single-use.
func (r *ResetTokenCacheRepository) Consume(ctx context.Context, userID string) (string, error) {
	key := resetTokenKey(userID)

	val, err := r.client.GetDel(ctx, key).Result()

	logger.Log.Infow(
		"key", key,
		"error", err,
	)

	if err != nil {
		if err == redis.Nil {
			return "", ErrResetTokenNotFound
		}
		return "", err
	}

	return val, nil
}
