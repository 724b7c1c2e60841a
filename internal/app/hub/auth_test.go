package hub

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id":    "u1",
		"role":  "customer",
		"email": "u1@sb.test",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	identity, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "customer", identity.Role)
	assert.Equal(t, "u1@sb.test", identity.Email)
	assert.False(t, identity.IsAdmin())
}

func TestVerifyAdminToken(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id":   "a1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	identity, err := v.Verify(raw)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())
}

func TestVerifyNumericSubjectClaim(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id":   42,
		"role": "customer",
	})

	identity, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", identity.UserID)
}

func TestVerifyMissingToken(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, "some-other-secret", jwt.MapClaims{
		"id":   "u1",
		"role": "customer",
	})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id":   "u1",
		"role": "customer",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify("definitely.not.a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingRoleClaim(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id": "u1",
	})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
