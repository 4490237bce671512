package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "user_1", "A1234567890123456789"}
	for _, u := range valid {
		assert.True(t, ValidateUsername(u), u)
	}

	invalid := []string{"", "ab", "user name", "user-name", "user@x", "aaaaaaaaaaaaaaaaaaaaa"}
	for _, u := range invalid {
		assert.False(t, ValidateUsername(u), u)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("alice@example.com"))
	assert.True(t, ValidateEmail("a.b+c@sub.example.co"))

	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail("alice@"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
}

func TestValidateRating(t *testing.T) {
	assert.True(t, ValidateRating(0))
	assert.True(t, ValidateRating(10))
	assert.True(t, ValidateRating(7.5))
	assert.False(t, ValidateRating(-0.1))
	assert.False(t, ValidateRating(10.1))
}

func TestGenerateInviteCode(t *testing.T) {
	code := GenerateInviteCode()
	assert.Len(t, code, 6)
	assert.Regexp(t, "^[0-9A-F]{6}$", code)
}
