package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

func TestCreate(t *testing.T) {
	uc := New(memory.NewStore().Users(), nil)
	ctx := context.Background()

	created, err := uc.Create(ctx, CreateInput{Name: "Alice", Email: " alice@example.com "})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", created.Email)

	_, err = uc.Create(ctx, CreateInput{Name: "Nobody"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	// Emails collide case-insensitively.
	_, err = uc.Create(ctx, CreateInput{Name: "Imposter", Email: "ALICE@example.com"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))
}

func TestUpdate(t *testing.T) {
	uc := New(memory.NewStore().Users(), nil)
	ctx := context.Background()

	alice, err := uc.Create(ctx, CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, CreateInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	// Re-casing her own address is allowed.
	own := "Alice@Example.com"
	_, err = uc.Update(ctx, alice.ID, UpdateInput{Email: &own})
	require.NoError(t, err)

	taken := "BOB@example.com"
	_, err = uc.Update(ctx, alice.ID, UpdateInput{Email: &taken})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))

	name := "Alicia"
	updated, err := uc.Update(ctx, alice.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
}

func TestGetByEmail(t *testing.T) {
	uc := New(memory.NewStore().Users(), nil)
	ctx := context.Background()

	created, err := uc.Create(ctx, CreateInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	found, err := uc.GetByEmail(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = uc.GetByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
