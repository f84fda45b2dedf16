package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/spool"
	"github.com/taskforge/backend/repository/memory"
)

func TestSweep(t *testing.T) {
	mem := memory.NewStore()
	store := openSpool(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 3, 0, 0, 0, time.UTC)

	sweeper := NewRetentionSweeper(mem.History(), store, nil, RetentionConfig{
		RetentionDays:  30,
		SpoolRetention: 24 * time.Hour,
	})
	sweeper.now = func() time.Time { return now }

	for _, ts := range []time.Time{
		now.AddDate(0, 0, -60),
		now.AddDate(0, 0, -31),
		now.AddDate(0, 0, -5),
	} {
		e := domain.TaskHistory{TaskID: "t1", ChangedBy: "alice", Field: domain.FieldStatus, Timestamp: ts}
		require.NoError(t, mem.History().Append(ctx, &e))
	}

	require.NoError(t, store.Enqueue(spool.Item{ID: "stale", SpooledAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Enqueue(spool.Item{ID: "fresh", SpooledAt: now.Add(-time.Hour)}))

	require.NoError(t, sweeper.Sweep(ctx))

	remaining, err := mem.History().ListByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].Timestamp.Equal(now.AddDate(0, 0, -5)))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ID)
}
