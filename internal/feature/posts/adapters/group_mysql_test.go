package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube_backend/internal/feature/posts/usecase"
)

func TestGroupRepository_FindBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	createTestGroup(t, db, "cats", "Cats")

	t.Run("success", func(t *testing.T) {
		group, err := repo.FindBySlug(context.Background(), "cats")
		require.NoError(t, err)
		assert.Equal(t, "Cats", group.Title)
		assert.Equal(t, "cats", group.Slug)
	})

	t.Run("unknown slug returns not found", func(t *testing.T) {
		_, err := repo.FindBySlug(context.Background(), "no-such-group")
		assert.ErrorIs(t, err, usecase.ErrGroupNotFound)
	})
}

func TestGroupRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	created := createTestGroup(t, db, "cats", "Cats")

	t.Run("success", func(t *testing.T) {
		group, err := repo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "cats", group.Slug)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), 999)
		assert.ErrorIs(t, err, usecase.ErrGroupNotFound)
	})
}

func TestGroupRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	createTestGroup(t, db, "zebras", "Zebras")
	createTestGroup(t, db, "cats", "Cats")
	createTestGroup(t, db, "dogs", "Dogs")

	groups, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Cats", groups[0].Title, "groups are ordered by title")
	assert.Equal(t, "Dogs", groups[1].Title)
	assert.Equal(t, "Zebras", groups[2].Title)
}
