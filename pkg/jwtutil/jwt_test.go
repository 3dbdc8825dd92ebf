package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "secret", ExpirationHours: 1})

	token, err := j.GenerateToken(42, "a@b.com", "Asha", "user")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateToken_WrongKey(t *testing.T) {
	token, err := NewJWTUtil(&JWTConfig{SigningKey: "one", ExpirationHours: 1}).GenerateToken(1, "x@y.z", "", "")
	require.NoError(t, err)

	_, err = NewJWTUtil(&JWTConfig{SigningKey: "two", ExpirationHours: 1}).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "secret", ExpirationHours: -1})
	token, err := j.GenerateToken(1, "x@y.z", "", "")
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	j := NewJWTUtil(nil)
	_, err := j.GenerateToken(1, "", "", "")
	assert.Error(t, err)
	_, err = j.ValidateToken("abc")
	assert.Error(t, err)
}
