package tag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

func TestCreate(t *testing.T) {
	uc := New(memory.NewStore().Tags(), nil)
	ctx := context.Background()

	created, err := uc.Create(ctx, "  urgent  ")
	require.NoError(t, err)
	assert.Equal(t, "urgent", created.Name)
	assert.NotEmpty(t, created.ID)

	_, err = uc.Create(ctx, "   ")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	// Names collide case-insensitively.
	_, err = uc.Create(ctx, "URGENT")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))
}

func TestRename(t *testing.T) {
	uc := New(memory.NewStore().Tags(), nil)
	ctx := context.Background()

	urgent, err := uc.Create(ctx, "urgent")
	require.NoError(t, err)
	_, err = uc.Create(ctx, "backlog")
	require.NoError(t, err)

	// Renaming to its own name is a no-op.
	same, err := uc.Rename(ctx, urgent.ID, "urgent")
	require.NoError(t, err)
	assert.Equal(t, urgent.Version, same.Version)

	_, err = uc.Rename(ctx, urgent.ID, "Backlog")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))

	renamed, err := uc.Rename(ctx, urgent.ID, "blocker")
	require.NoError(t, err)
	assert.Equal(t, "blocker", renamed.Name)
}

func TestDelete(t *testing.T) {
	uc := New(memory.NewStore().Tags(), nil)
	ctx := context.Background()

	created, err := uc.Create(ctx, "temp")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))

	err = uc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
