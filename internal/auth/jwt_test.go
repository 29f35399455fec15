package auth

import (
	"testing"
	"time"

	"github.com/mlutsenko/brewbook-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	Init("test-secret")
	user := models.User{ID: "u1", Username: "bob", Email: "bob@example.com"}

	token, err := GenerateJWT(user, false)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, "bob@example.com", claims.Email)
}

func TestRememberExtendsLifetime(t *testing.T) {
	Init("test-secret")
	user := models.User{ID: "u1", Username: "bob", Email: "bob@example.com"}

	short, err := GenerateJWT(user, false)
	require.NoError(t, err)
	long, err := GenerateJWT(user, true)
	require.NoError(t, err)

	shortClaims, err := ValidateJWT(short)
	require.NoError(t, err)
	longClaims, err := ValidateJWT(long)
	require.NoError(t, err)

	assert.True(t, longClaims.ExpiresAt.After(shortClaims.ExpiresAt.Add(24*time.Hour)),
		"remember-me token must far outlive the default session")
}

func TestValidateJWT_WrongKey(t *testing.T) {
	Init("test-secret")
	token, err := GenerateJWT(models.User{ID: "u1"}, false)
	require.NoError(t, err)

	Init("other-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
