package services

import (
	"testing"
	"time"

	"rentdesk/config"
	"rentdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(t *testing.T) *TokenService {
	t.Helper()
	return NewTokenService(config.Config{
		AuthTokenSecret:      "test-secret",
		AuthTokenExpiryHours: 1,
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	service := testTokenService(t)
	userID := uuid.New()

	token, err := service.Issue(userID, models.RoleLandlord)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.RoleLandlord, claims.Role)
}

func TestTokenService_Verify_RejectsGarbage(t *testing.T) {
	service := testTokenService(t)

	_, err := service.Verify("not-a-token")
	assert.Error(t, err)
}

func TestTokenService_Verify_RejectsWrongSecret(t *testing.T) {
	issuer := testTokenService(t)
	verifier := NewTokenService(config.Config{
		AuthTokenSecret:      "different-secret",
		AuthTokenExpiryHours: 1,
	})

	token, err := issuer.Issue(uuid.New(), models.RoleTenant)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_Verify_RejectsExpired(t *testing.T) {
	service := testTokenService(t)
	service.expiry = -time.Hour

	token, err := service.Issue(uuid.New(), models.RoleTenant)
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.Error(t, err)
}

func TestCredentialService_HashAndVerify(t *testing.T) {
	service := NewCredentialService()

	hash, err := service.HashPassword("hunter2!")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2!", hash)

	assert.True(t, service.VerifyPassword(hash, "hunter2!"))
	assert.False(t, service.VerifyPassword(hash, "wrong"))
}

func TestCredentialService_HashPassword_RequiresPassword(t *testing.T) {
	service := NewCredentialService()

	_, err := service.HashPassword("")
	assert.Error(t, err)
}
