package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"hr-faq-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	repo := NewSessionRepository(client, time.Minute)
	ctx := context.Background()
	id := "test-" + uuid.NewString()

	in := &store.Session{
		ID:               id,
		Mode:             store.ModeAwaitingIDForDepartment,
		TargetDepartment: &store.DepartmentRef{ID: 2, Name: "IT", Head: "Omar Khaled"},
		UpdatedAt:        time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, in))

	ttl, err := client.TTL(ctx, keyPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	got, found, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in.Mode, got.Mode)
	assert.Equal(t, in.TargetDepartment, got.TargetDepartment)
	assert.True(t, in.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, id))
	_, found, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionRepository_CorruptPayload(t *testing.T) {
	client := newTestClient(t)
	repo := NewSessionRepository(client, time.Minute)
	ctx := context.Background()
	id := "test-" + uuid.NewString()

	require.NoError(t, client.Set(ctx, keyPrefix+id, "{not json", time.Minute).Err())
	t.Cleanup(func() { client.Del(ctx, keyPrefix+id) })

	_, _, err := repo.Get(ctx, id)
	assert.Error(t, err)
}
