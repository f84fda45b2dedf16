package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/spool"
	"github.com/taskforge/backend/repository/memory"
)

type stubHealth struct {
	online bool
}

func (s *stubHealth) IsOnline() bool { return s.online }

// flakyHistory fails Append a configured number of times before delegating.
type flakyHistory struct {
	inner    *memory.HistoryRepo
	failures int
}

func (f *flakyHistory) Append(ctx context.Context, entry *domain.TaskHistory) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("primary store unavailable")
	}
	return f.inner.Append(ctx, entry)
}

func (f *flakyHistory) ListByTask(ctx context.Context, taskID string) ([]domain.TaskHistory, error) {
	return f.inner.ListByTask(ctx, taskID)
}

func (f *flakyHistory) ListByUser(ctx context.Context, userID string) ([]domain.TaskHistory, error) {
	return f.inner.ListByUser(ctx, userID)
}

func (f *flakyHistory) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.inner.DeleteOlderThan(ctx, cutoff)
}

func openSpool(t *testing.T) *spool.Store {
	t.Helper()
	store, err := spool.Open(filepath.Join(t.TempDir(), "spool.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func entry(taskID string) domain.TaskHistory {
	return domain.TaskHistory{TaskID: taskID, ChangedBy: "alice", Field: domain.FieldStatus, OldValue: "TODO", NewValue: "IN_PROGRESS"}
}

func TestRecord_OnlineAppendsDirectly(t *testing.T) {
	mem := memory.NewStore()
	store := openSpool(t)
	spooler := NewHistorySpooler(store, &stubHealth{online: true}, mem.History(), nil, SpoolerConfig{})
	ctx := context.Background()

	require.NoError(t, spooler.Record(ctx, entry("t1")))

	history, err := mem.History().ListByTask(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 0, spooler.Size())
}

func TestRecord_OfflineSpools(t *testing.T) {
	mem := memory.NewStore()
	store := openSpool(t)
	health := &stubHealth{online: false}
	spooler := NewHistorySpooler(store, health, mem.History(), nil, SpoolerConfig{})
	ctx := context.Background()

	require.NoError(t, spooler.Record(ctx, entry("t1")))
	require.NoError(t, spooler.Record(ctx, entry("t2")))

	history, err := mem.History().ListByTask(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 2, spooler.Size())

	// Back online, a drain flushes the backlog.
	health.online = true
	require.NoError(t, spooler.Drain(ctx))

	assert.Equal(t, 0, spooler.Size())
	for _, taskID := range []string{"t1", "t2"} {
		history, err := mem.History().ListByTask(ctx, taskID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	}
}

func TestDrain_SkippedWhileOffline(t *testing.T) {
	mem := memory.NewStore()
	store := openSpool(t)
	spooler := NewHistorySpooler(store, &stubHealth{online: false}, mem.History(), nil, SpoolerConfig{})
	ctx := context.Background()

	require.NoError(t, spooler.Record(ctx, entry("t1")))
	require.NoError(t, spooler.Drain(ctx))
	assert.Equal(t, 1, spooler.Size())
}

func TestDrain_DropsAtMaxRetries(t *testing.T) {
	mem := memory.NewStore()
	store := openSpool(t)
	history := &flakyHistory{inner: mem.History(), failures: 10}
	spooler := NewHistorySpooler(store, &stubHealth{online: true}, history, nil, SpoolerConfig{MaxRetries: 2})
	ctx := context.Background()

	// Online but the primary append fails, so Record falls back to the spool.
	require.NoError(t, spooler.Record(ctx, entry("t1")))
	assert.Equal(t, 1, spooler.Size())

	// First drain fails and requeues, second hits the retry cap and drops.
	require.NoError(t, spooler.Drain(ctx))
	assert.Equal(t, 1, spooler.Size())
	require.NoError(t, spooler.Drain(ctx))
	assert.Equal(t, 0, spooler.Size())

	history2, err := mem.History().ListByTask(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, history2)
}
