package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("alice_2-b.c"))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("emoji🎯"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("a-long-enough-secret"))

	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("password12345"))
	assert.Error(t, ValidatePassword(string(make([]byte, 80))))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("@example.com"))
}
