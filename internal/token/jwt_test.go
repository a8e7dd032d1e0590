package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tasktracker-server/internal/model"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	u := uuid.New()

	tok, err := j.Issue(u)
	require.NoError(t, err)

	got, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestNewJWT_DefaultTTL(t *testing.T) {
	j := NewJWT("secret", 0)
	assert.Equal(t, DefaultTTL, j.ttl)
}

func TestJWT_Expiry(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt

	j := NewJWT("secret", time.Hour)
	j.now = func() time.Time { return clock }

	tok, err := j.Issue(uuid.New())
	require.NoError(t, err)

	clock = issuedAt.Add(59 * time.Minute)
	_, err = j.Parse(tok)
	require.NoError(t, err)

	clock = issuedAt.Add(61 * time.Minute)
	_, err = j.Parse(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_Parse_Rejects(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	valid, err := j.Issue(uuid.New())
	require.NoError(t, err)

	other, err := NewJWT("other-secret", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tamperedPayload, err := j.Issue(uuid.New())
	require.NoError(t, err)
	tampered := parts[0] + "." + strings.Split(tamperedPayload, ".")[1] + "." + parts[2]

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: uuid.New()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.New(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "truncated", token: valid[:len(valid)-5]},
		{name: "wrong secret", token: other},
		{name: "tampered payload", token: tampered},
		{name: "missing expiry", token: noExpiry},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Parse(tt.token)
			require.ErrorIs(t, err, model.ErrInvalidToken)
			assert.Equal(t, uuid.Nil, got)
		})
	}
}
