package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	token, err := verifier.Issue("dewi", "manager", time.Hour)
	require.NoError(t, err)

	actor, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "dewi", actor.Username)
	assert.Equal(t, "manager", actor.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	token, err := verifier.Issue("dewi", "staff", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenVerifier(testSecret)
	verifier := NewTokenVerifier("ffffffffffffffffffffffffffffffff")

	token, err := issuer.Issue("dewi", "staff", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	_, err := verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}
