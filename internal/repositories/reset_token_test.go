package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestResetTokenCacheRepository(t *testing.T) {
	ctx := context.Background()

	// Start Redis container
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewResetTokenCacheRepository(rdb, 2*time.Second)

	t.Run("Save and Consume", func(t *testing.T) {
		err := repo.Save(ctx, "alice", "tok123")
		assert.NoError(t, err)

		got, err := repo.Consume(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, "tok123", got)
	})

	t.Run("Consume is single-use", func(t *testing.T) {
		err := repo.Save(ctx, "bob", "tok456")
		assert.NoError(t, err)

		_, err = repo.Consume(ctx, "bob")
		assert.NoError(t, err)

		_, err = repo.Consume(ctx, "bob")
		assert.ErrorIs(t, err, ErrResetTokenNotFound)
	})

	t.Run("Save replaces earlier token", func(t *testing.T) {
		assert.NoError(t, repo.Save(ctx, "carol", "old"))
		assert.NoError(t, repo.Save(ctx, "carol", "new"))

		got, err := repo.Consume(ctx, "carol")
		assert.NoError(t, err)
		assert.Equal(t, "new", got)
	})

	t.Run("Token expires", func(t *testing.T) {
		err := repo.Save(ctx, "dave", "tok789")
		assert.NoError(t, err)

		// Wait for expiration (2s)
		time.Sleep(3 * time.Second)

		_, err = repo.Consume(ctx, "dave")
		assert.ErrorIs(t, err, ErrResetTokenNotFound)
	})
}
