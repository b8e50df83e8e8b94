package services_test

import (
	"testing"
	"time"

	"pedidos/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func newTestTokenService(secret string) *services.TokenService {
	return services.NewTokenService(services.TokenConfig{
		Secret:     secret,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	tokens := newTestTokenService("test_jwt_secret")

	tokenString, err := tokens.IssueAccess(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	userID, err := tokens.Validate(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	refreshString, err := tokens.IssueRefresh(42)
	assert.NoError(t, err)

	// Refresh tokens pass through the same validation path.
	userID, err = tokens.Validate(refreshString)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	tokens := newTestTokenService("test_jwt_secret")

	tokenString, err := tokens.Issue(42, -time.Minute)
	assert.NoError(t, err)

	_, err = tokens.Validate(tokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issued := newTestTokenService("secret_one")
	validating := newTestTokenService("secret_two")

	tokenString, err := issued.IssueAccess(42)
	assert.NoError(t, err)

	_, err = validating.Validate(tokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenService_GarbageToken(t *testing.T) {
	tokens := newTestTokenService("test_jwt_secret")

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.Validate(tokenString)
		assert.ErrorIs(t, err, services.ErrInvalidToken, "token=%q", tokenString)
	}
}

func TestTokenService_MissingSubject(t *testing.T) {
	secret := "test_jwt_secret"
	tokens := newTestTokenService(secret)

	// A well-signed, unexpired token with no sub claim is still invalid.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)

	_, err = tokens.Validate(tokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Same for a sub that is not a user ID.
	token = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-number",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err = token.SignedString([]byte(secret))
	assert.NoError(t, err)

	_, err = tokens.Validate(tokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
