package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("owner-1", time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.UserID)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("owner-1", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignIssuer(t *testing.T) {
	claims := jwtlib.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
