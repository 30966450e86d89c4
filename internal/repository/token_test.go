package repository

import (
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecoveryToken(t *testing.T, tokens TokenRepository, userID, code string, expiresAt time.Time) *model.Token {
	t.Helper()

	token := &model.Token{
		UserID:    userID,
		Type:      model.TokenTypeRecoveryCode,
		Token:     code,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, tokens.Create(token))
	return token
}

func TestTokenConsumeIsSingleUse(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)
	user := createTestUser(t, users, "alice")

	createRecoveryToken(t, tokens, user.ID, "123456", time.Now().Add(15*time.Minute))

	consumed, err := tokens.Consume(user.ID, model.TokenTypeRecoveryCode, "123456")
	require.NoError(t, err)
	assert.NotNil(t, consumed.UsedAt)

	_, err = tokens.Consume(user.ID, model.TokenTypeRecoveryCode, "123456")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenConsumeRejectsExpired(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)
	user := createTestUser(t, users, "alice")

	createRecoveryToken(t, tokens, user.ID, "123456", time.Now().Add(-time.Minute))

	_, err := tokens.Consume(user.ID, model.TokenTypeRecoveryCode, "123456")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenConsumeScopedToUserAndType(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)
	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")

	createRecoveryToken(t, tokens, alice.ID, "123456", time.Now().Add(15*time.Minute))

	// Someone else's code does not consume for this user.
	_, err := tokens.Consume(bob.ID, model.TokenTypeRecoveryCode, "123456")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = tokens.Consume(alice.ID, "other_type", "123456")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = tokens.Consume(alice.ID, model.TokenTypeRecoveryCode, "123456")
	assert.NoError(t, err)
}

func TestTokenDeleteByUserAndType(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)
	user := createTestUser(t, users, "alice")

	createRecoveryToken(t, tokens, user.ID, "111111", time.Now().Add(15*time.Minute))
	createRecoveryToken(t, tokens, user.ID, "222222", time.Now().Add(15*time.Minute))

	require.NoError(t, tokens.DeleteByUserAndType(user.ID, model.TokenTypeRecoveryCode))

	_, err := tokens.Consume(user.ID, model.TokenTypeRecoveryCode, "111111")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = tokens.Consume(user.ID, model.TokenTypeRecoveryCode, "222222")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenCleanupExpired(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	tokens := NewTokenRepository(database)
	user := createTestUser(t, users, "alice")

	createRecoveryToken(t, tokens, user.ID, "111111", time.Now().Add(-2*time.Hour))
	createRecoveryToken(t, tokens, user.ID, "222222", time.Now().Add(15*time.Minute))

	deleted, err := tokens.CleanupExpired(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = tokens.Consume(user.ID, model.TokenTypeRecoveryCode, "222222")
	assert.NoError(t, err)
}
