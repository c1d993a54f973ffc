package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
)

func testCanDoItem(userID uuid.UUID) *domain.CanDoItem {
	return &domain.CanDoItem{
		UserID:        userID,
		EncryptedData: "ciphertext",
		IV:            "iv-value",
		Salt:          "salt-value",
	}
}

func TestCanDoRepo_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCanDoRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "cando@example.com")

	created, err := repo.Create(ctx, testCanDoItem(user.ID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Nil(t, created.ProjectID)

	fetched, err := repo.GetByID(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = repo.GetByID(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCanDoItemNotFound)
}

func TestCanDoRepo_List_ProjectFilter(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCanDoRepo(pool)
	projectRepo := NewProjectRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "cando-filter@example.com")

	project, err := projectRepo.Create(ctx, testProject(user.ID))
	require.NoError(t, err)

	inProject := testCanDoItem(user.ID)
	inProject.ProjectID = &project.ID
	inProjectCreated, err := repo.Create(ctx, inProject)
	require.NoError(t, err)

	_, err = repo.Create(ctx, testCanDoItem(user.ID))
	require.NoError(t, err)

	all, err := repo.List(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, user.ID, &project.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, inProjectCreated.ID, filtered[0].ID)
}

func TestCanDoRepo_Update(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCanDoRepo(pool)
	projectRepo := NewProjectRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "cando-update@example.com")

	project, err := projectRepo.Create(ctx, testProject(user.ID))
	require.NoError(t, err)

	created, err := repo.Create(ctx, testCanDoItem(user.ID))
	require.NoError(t, err)

	created.EncryptedData = "new-ciphertext"
	created.ProjectID = &project.ID
	created.DisplayOrder = 3

	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "new-ciphertext", updated.EncryptedData)
	require.NotNil(t, updated.ProjectID)
	assert.Equal(t, project.ID, *updated.ProjectID)
	assert.Equal(t, 3, updated.DisplayOrder)
}

func TestCanDoRepo_Delete(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCanDoRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "cando-delete@example.com")

	created, err := repo.Create(ctx, testCanDoItem(user.ID))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, user.ID, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, created.ID), domain.ErrCanDoItemNotFound)
}

func TestCanDoRepo_ProjectDeleteNullsReference(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCanDoRepo(pool)
	projectRepo := NewProjectRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "cando-orphan@example.com")

	project, err := projectRepo.Create(ctx, testProject(user.ID))
	require.NoError(t, err)

	item := testCanDoItem(user.ID)
	item.ProjectID = &project.ID
	created, err := repo.Create(ctx, item)
	require.NoError(t, err)

	require.NoError(t, projectRepo.Delete(ctx, user.ID, project.ID))

	// Items outlive their project; the reference goes null.
	fetched, err := repo.GetByID(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.ProjectID)
}
