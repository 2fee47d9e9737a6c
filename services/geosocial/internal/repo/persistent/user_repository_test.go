package persistent

import (
	"context"
	"testing"
	"time"

	"geosocial/pkg/apperr"
	"geosocial/services/geosocial/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()

	user := &entity.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, time.Second)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "alice", Email: "a1@example.com", Password: "hash"}))

	err := repo.Create(ctx, &entity.User{Username: "alice", Email: "a2@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, time.Second)
	ctx := context.Background()
	user := createTestUser(t, db, "alice")

	bio := "hello"
	require.NoError(t, repo.Update(ctx, user.ID, entity.UserPatch{Bio: &bio}))

	updated, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", entity.UserPatch{Bio: &bio})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
