package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := NewTokenVerifier("secret", "https://auth.example.com", "authenticated")

	token, err := v.SignToken("user-1", "a@example.com", time.Minute)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier("secret", "", "authenticated")

	expired, err := v.SignToken("user-1", "", -time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(expired)
	assert.Error(t, err)

	other := NewTokenVerifier("other-secret", "", "authenticated")
	forged, err := other.SignToken("user-1", "", time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateToken(forged)
	assert.Error(t, err)

	wrongAud := NewTokenVerifier("secret", "", "service_role")
	tok, err := wrongAud.SignToken("user-1", "", time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateToken(tok)
	assert.Error(t, err)

	_, err = NewTokenVerifier("", "", "").ValidateToken(tok)
	assert.Error(t, err)
}
