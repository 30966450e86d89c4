package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndLookup(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)

	created := createTestUser(t, users, "alice")

	byID, err := users.ByID(created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := users.ByUsername("alice", false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := users.ByEmail("alice@example.com", false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.ByUsername("nobody", false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDuplicateDetection(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)

	first := createTestUser(t, users, "alice")

	dup := *first
	dup.ID = "other-id"
	dup.Email = "fresh@example.com"
	err := users.Create(&dup)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	dup2 := *first
	dup2.ID = "another-id"
	dup2.Username = "fresh"
	err = users.Create(&dup2)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserSoftDelete(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	user := createTestUser(t, users, "alice")

	require.NoError(t, users.SoftDelete(user.ID))

	// Default lookups skip soft-deleted rows.
	_, err := users.ByID(user.ID, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.ByUsername("alice", false)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Explicitly asking for deleted rows still finds them.
	deleted, err := users.ByID(user.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted())
}

func TestUserUpdatePasswordHash(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	user := createTestUser(t, users, "alice")

	resetAt := time.Now()
	require.NoError(t, users.UpdatePasswordHash(user.ID, "new-hash", &resetAt))

	got, err := users.ByID(user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	require.NotNil(t, got.LastPasswordResetAt)

	require.ErrorIs(t, users.UpdatePasswordHash("missing", "x", nil), ErrUserNotFound)
}

func TestHabitSoftDeleteAndRestore(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	habits := NewHabitRepository(database)
	user := createTestUser(t, users, "alice")

	habit := createTestHabit(t, habits, user.ID, "Read")
	other := createTestHabit(t, habits, user.ID, "Run")

	require.NoError(t, habits.SoftDelete(user.ID, habit.ID))

	active, err := habits.Habits(user.ID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, other.ID, active[0].ID)

	all, err := habits.Habits(user.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, habits.Restore(user.ID, habit.ID))
	restored, err := habits.ByID(user.ID, habit.ID, false)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
}
