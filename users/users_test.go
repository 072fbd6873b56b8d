package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akulov/reservd/users"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	require.True(t, users.CheckPasswordHash("password123", hash))
	require.False(t, users.CheckPasswordHash("password124", hash))
	require.False(t, users.CheckPasswordHash("password123", "not-a-hash"))
}

func TestValidateNewUser(t *testing.T) {
	require.NoError(t, users.ValidateNewUser("a", "p", "user"))
	require.Error(t, users.ValidateNewUser("", "p", "user"))
	require.Error(t, users.ValidateNewUser("a", "", "user"))
	require.Error(t, users.ValidateNewUser("a", "p", ""))
}
