package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housersapp/housers/internal/common"
)

var testSecret = []byte("test-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

func TestParseToken_Valid(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	freezeNow(t, base)
	id := uuid.NewString()

	tok := sign(t, jwt.SigningMethodHS256, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(base.Add(time.Hour)),
		},
		Email: "ann@example.com",
	})

	claims, err := ParseToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)

	// unverified mode reads the same claims
	claims, err = ParseToken(tok, nil)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
}

func TestParseToken_Expired(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := sign(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(base.Add(time.Minute)),
	})
	freezeNow(t, base.Add(time.Hour))

	_, err := ParseToken(tok, testSecret)
	assert.ErrorIs(t, err, common.ErrSessionExpired)

	_, err = ParseToken(tok, nil)
	assert.ErrorIs(t, err, common.ErrSessionExpired)
}

func TestParseToken_Rejects(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	freezeNow(t, base)
	valid := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(base.Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), valid)},
		{"wrong alg", sign(t, jwt.SigningMethodHS512, testSecret, valid)},
		{"missing exp", sign(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: valid.Subject})},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, testSecret)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrUnauthorized), "got %v", err)
		})
	}
}

func TestUserIDFromToken(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	freezeNow(t, base)
	exp := jwt.NewNumericDate(base.Add(time.Hour))

	id := uuid.NewString()
	got, err := UserIDFromToken(sign(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: id, ExpiresAt: exp}), testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = UserIDFromToken(sign(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: "bob", ExpiresAt: exp}), testSecret)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
