package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
)

func TestCalendarRepo_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCalendarRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "calendar@example.com")

	created, err := repo.Create(ctx, &domain.Calendar{
		UserID:        user.ID,
		EncryptedData: "ciphertext",
		IV:            "iv-value",
		Salt:          "salt-value",
		IsDefault:     true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsDefault)

	calendars, err := repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, calendars, 1)

	created.EncryptedData = "new-ciphertext"
	created.IsDefault = false
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "new-ciphertext", updated.EncryptedData)
	assert.False(t, updated.IsDefault)

	require.NoError(t, repo.Delete(ctx, user.ID, created.ID))
	_, err = repo.GetByID(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrCalendarNotFound)
}

func TestCalendarRepo_ScopedToUser(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCalendarRepo(pool)
	ctx := context.Background()
	owner := createTestUser(t, "cal-owner@example.com")
	other := createTestUser(t, "cal-other@example.com")

	created, err := repo.Create(ctx, &domain.Calendar{
		UserID:        owner.ID,
		EncryptedData: "ciphertext",
		IV:            "iv",
		Salt:          "salt",
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrCalendarNotFound)

	err = repo.Delete(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrCalendarNotFound)

	calendars, err := repo.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, calendars)
}

func TestCalendarEventRepo_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCalendarEventRepo(pool)
	ctx := context.Background()
	user := createTestUser(t, "event@example.com")

	created, err := repo.Create(ctx, &domain.CalendarEvent{
		UserID:        user.ID,
		EncryptedData: "ciphertext",
		IV:            "iv-value",
		Salt:          "salt-value",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	events, err := repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	created.EncryptedData = "new-ciphertext"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "new-ciphertext", updated.EncryptedData)

	require.NoError(t, repo.Delete(ctx, user.ID, created.ID))
	_, err = repo.GetByID(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrCalendarEventNotFound)
}

func TestCalendarEventRepo_UpdateOtherUsersEvent(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCalendarEventRepo(pool)
	ctx := context.Background()
	owner := createTestUser(t, "event-owner@example.com")
	other := createTestUser(t, "event-other@example.com")

	created, err := repo.Create(ctx, &domain.CalendarEvent{
		UserID:        owner.ID,
		EncryptedData: "ciphertext",
		IV:            "iv",
		Salt:          "salt",
	})
	require.NoError(t, err)

	created.UserID = other.ID
	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, domain.ErrCalendarEventNotFound)
}
