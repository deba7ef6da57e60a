package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/cache"
)

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("super-secret", 0)
	assert.Equal(t, DefaultTokenExpiry, svc.Expiry())

	tok, err := svc.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	svc := NewJWTService("secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := svc.Issue(1)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTService("right-secret", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewJWTService("wrong-secret", time.Hour).Validate(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService("secret", time.Hour).Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenStore_WithoutRedis(t *testing.T) {
	t.Parallel()

	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "id", time.Minute))
	assert.False(t, store.IsRevoked(ctx, "id"))
}

func TestTokenStore_UnreachableRedis(t *testing.T) {
	t.Parallel()

	client := cache.New("127.0.0.1:1", "", 0)
	defer client.Close()
	store := NewTokenStore(client)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, store.Revoke(ctx, "id", time.Minute))
	assert.False(t, store.IsRevoked(ctx, "id"))
	assert.NoError(t, store.Revoke(ctx, "id", 0))
}
