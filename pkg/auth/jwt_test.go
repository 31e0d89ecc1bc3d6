package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken(42, "Ada")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	valid, _, err := tm.GenerateToken(1, "Ada")
	require.NoError(t, err)

	expired, _, err := NewTokenManager("test-secret", -time.Minute).GenerateToken(1, "Ada")
	require.NoError(t, err)

	otherKey, _, err := NewTokenManager("other-secret", time.Hour).GenerateToken(1, "Ada")
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Type: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "projecttracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expired, wantErr: ErrExpiredToken},
		{name: "wrong key", token: otherKey},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered", token: valid + "x"},
		{name: "missing user", token: noUser, wantErr: ErrInvalidClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.ValidateToken(tt.token)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTokenManager_EmptySecret(t *testing.T) {
	_, _, err := NewTokenManager("", time.Hour).GenerateToken(1, "Ada")
	assert.ErrorIs(t, err, ErrInvalidSigningKey)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)
}
