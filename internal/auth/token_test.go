package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := domain.AuthUser{ID: "u-1", Username: "operator", Role: domain.AuthRoleAdmin}

	token, expiresAt, err := tm.GenerateToken("sess-1", user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "operator", claims.Username)
	assert.Equal(t, domain.AuthRoleAdmin, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", time.Hour)
	token, _, err := tm.GenerateToken("sess-1", domain.AuthUser{ID: "u-1", Username: "op", Role: domain.AuthRoleAdmin})
	require.NoError(t, err)

	other := NewTokenManager("secret-b", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}
