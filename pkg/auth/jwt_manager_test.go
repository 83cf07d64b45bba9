package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemchat/backend/pkg/auth"
)

func TestJWTManager_GenerateVerifyRoundtrip(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("7700900123", "44")
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "7700900123", claims.Subject)
	assert.Equal(t, "44", claims.Country)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	token, err := auth.NewJWTManager("secret-a", time.Hour).Generate("1234567", "1")
	require.NoError(t, err)

	_, err = auth.NewJWTManager("secret-b", time.Hour).Verify(token)

	assert.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)

	_, err := manager.Verify("not.a.token")

	assert.Error(t, err)
}

func TestJWTManager_Expiry(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("1234567", "1")
	require.NoError(t, err)

	exp, err := manager.Expiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
}

func TestExtractTokenFromHeader(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")

	token, err := auth.ExtractTokenFromHeader(req)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	req.Header.Set("Authorization", "abc123")
	_, err = auth.ExtractTokenFromHeader(req)
	assert.Error(t, err)

	req.Header.Del("Authorization")
	_, err = auth.ExtractTokenFromHeader(req)
	assert.Error(t, err)
}
