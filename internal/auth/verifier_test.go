package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"storefront/internal/auth"
)

const testJWTSecret = "test-secret"

func signedToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return raw
}

func TestAuthenticated_ValidToken(t *testing.T) {
	v := auth.NewVerifier(testJWTSecret)
	raw := signedToken(t, testJWTSecret, time.Hour)

	assert.True(t, v.Authenticated(raw))
}

func TestAuthenticated_ExpiredToken(t *testing.T) {
	v := auth.NewVerifier(testJWTSecret)
	raw := signedToken(t, testJWTSecret, -time.Hour)

	assert.False(t, v.Authenticated(raw))
}

func TestAuthenticated_WrongSecret(t *testing.T) {
	v := auth.NewVerifier(testJWTSecret)
	raw := signedToken(t, "another-secret", time.Hour)

	assert.False(t, v.Authenticated(raw))
}

func TestAuthenticated_WrongSigningMethod(t *testing.T) {
	v := auth.NewVerifier(testJWTSecret)

	// alg=none は拒否
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	assert.False(t, v.Authenticated(raw))
}

func TestAuthenticated_EmptyAndGarbage(t *testing.T) {
	v := auth.NewVerifier(testJWTSecret)

	assert.False(t, v.Authenticated(""))
	assert.False(t, v.Authenticated("not.a.jwt"))
}
