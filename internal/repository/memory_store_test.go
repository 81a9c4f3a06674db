package repository

import (
	"context"
	"exam_tracker_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPendingImportStore(t *testing.T) {
	store := NewMemoryPendingImportStore()
	ctx := context.Background()

	bundle := &model.ImportBundle{ID: "imp-1"}
	require.NoError(t, store.Save(ctx, bundle, time.Minute))

	got, err := store.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Same(t, bundle, got)

	taken, err := store.Take(ctx, "imp-1")
	require.NoError(t, err)
	assert.Same(t, bundle, taken)

	// 只能取走一次
	taken, err = store.Take(ctx, "imp-1")
	require.NoError(t, err)
	assert.Nil(t, taken)
	got, err = store.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryPendingImportStoreExpiry(t *testing.T) {
	store := NewMemoryPendingImportStore()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.ImportBundle{ID: "imp-1"}, time.Minute))

	now = now.Add(59 * time.Second)
	got, err := store.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Second)
	got, err = store.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryNotificationFeed(t *testing.T) {
	feed := NewMemoryNotificationFeed()
	ctx := context.Background()

	for i := 0; i < notificationKeep+5; i++ {
		require.NoError(t, feed.Push(ctx, model.Notification{Message: string(rune('a' + i%26))}))
	}

	all, err := feed.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, all, notificationKeep)

	latest, err := feed.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, string(rune('a'+(notificationKeep+4)%26)), latest[0].Message)
}
