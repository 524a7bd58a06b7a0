package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	svc, err := NewAuthService(privPEM, pubPEM, time.Minute, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.GenerateTokenPair("user-1")
	require.NoError(t, err)

	access, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.Empty(t, access.ID)

	refresh, err := svc.ValidateToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.NotEmpty(t, refresh.ID)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := svc.GenerateTokenPair("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	pair, err := newTestService(t).GenerateTokenPair("user-1")
	require.NoError(t, err)

	_, err = newTestService(t).ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	generated, err := GeneratePassword(0)
	require.NoError(t, err)
	assert.Len(t, generated, 24)
}

func TestContextIdentity(t *testing.T) {
	_, ok := ContextIdentity.CurrentUser(context.Background())
	assert.False(t, ok)

	ctx := WithUserID(context.Background(), "user-1")
	userID, ok := ContextIdentity.CurrentUser(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	_, ok = UserIDFromContext(WithUserID(context.Background(), ""))
	assert.False(t, ok)
}
