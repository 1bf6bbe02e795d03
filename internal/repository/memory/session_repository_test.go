package memory

import (
	"context"
	"testing"
	"time"

	"hr-faq-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute, time.Minute)

	_, found, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	in := &store.Session{
		ID:      "s1",
		Mode:    store.ModeAwaitingEmployeeID,
		Purpose: store.PurposeVacation,
	}
	require.NoError(t, repo.Save(ctx, in))

	// mutating the caller's copy must not leak into the store
	in.Mode = store.ModeIdle

	got, found, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, store.ModeAwaitingEmployeeID, got.Mode)
	assert.Equal(t, store.PurposeVacation, got.Purpose)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, found, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionRepository_Expires(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20*time.Millisecond, time.Minute)

	require.NoError(t, repo.Save(ctx, &store.Session{ID: "s2", Mode: store.ModeAwaitingDepartmentName}))

	assert.Eventually(t, func() bool {
		_, found, _ := repo.Get(ctx, "s2")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestSessionRepository_SaveRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(200*time.Millisecond, time.Minute)

	s := &store.Session{ID: "s3", Mode: store.ModeAwaitingEmployeeID}
	require.NoError(t, repo.Save(ctx, s))
	time.Sleep(120 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, s))
	time.Sleep(120 * time.Millisecond)

	_, found, err := repo.Get(ctx, "s3")
	require.NoError(t, err)
	assert.True(t, found)
}
