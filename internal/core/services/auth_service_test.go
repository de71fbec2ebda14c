package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/comitanigiacomo/cadence-engine/internal/core/services"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret", "cadence-test", time.Hour)
	svc := services.NewAuthService(string(hash), tokens)

	t.Run("Success: correct password yields a valid token", func(t *testing.T) {
		token, err := svc.Login("correct horse")

		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.NoError(t, tokens.ValidateToken(token))
	})

	t.Run("Fail: wrong password", func(t *testing.T) {
		_, err := svc.Login("battery staple")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestTokenService_Validate(t *testing.T) {
	tokens := services.NewTokenService("test-secret", "cadence-test", time.Hour)

	t.Run("Fail: garbage token", func(t *testing.T) {
		assert.Error(t, tokens.ValidateToken("not.a.token"))
	})

	t.Run("Fail: token signed with a different secret", func(t *testing.T) {
		other := services.NewTokenService("other-secret", "cadence-test", time.Hour)
		token, err := other.GenerateToken()
		require.NoError(t, err)

		assert.Error(t, tokens.ValidateToken(token))
	})

	t.Run("Fail: wrong issuer", func(t *testing.T) {
		other := services.NewTokenService("test-secret", "someone-else", time.Hour)
		token, err := other.GenerateToken()
		require.NoError(t, err)

		assert.Error(t, tokens.ValidateToken(token))
	})

	t.Run("Fail: expired token", func(t *testing.T) {
		expired := services.NewTokenService("test-secret", "cadence-test", -time.Minute)
		token, err := expired.GenerateToken()
		require.NoError(t, err)

		assert.Error(t, tokens.ValidateToken(token))
	})
}
