package auth

import (
	"testing"
	"time"

	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	user := &model.User{
		ID:       uuid.New(),
		Username: "budi",
		Role:     model.RoleCustomer,
	}

	token, err := manager.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "budi", claims.Username)
	assert.Equal(t, model.RoleCustomer, claims.Role)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(&model.User{ID: uuid.New(), Username: "budi", Role: model.RoleStaff})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue(&model.User{ID: uuid.New(), Username: "budi", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Verify("not-a-token")
	assert.Error(t, err)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	require.NotEqual(t, "admin123", hash)

	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
}
