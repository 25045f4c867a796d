package jwtservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notedeck/internal/auth/adapters/services"
	domain "notedeck/internal/auth/domain/services"
	"notedeck/pkg/logger"
)

const testSecretKey = "test-secret-key-12345" //nolint:gosec

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(ctx, "user-1", "testuser")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ParseAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	token, issued, err := svc.GenerateRefreshToken(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.TokenID)

	claims, err := svc.ParseRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, issued.TokenID, claims.TokenID)
}

func TestRefreshTokenIDsAreUnique(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	_, first, err := svc.GenerateRefreshToken(ctx, "user-1")
	require.NoError(t, err)
	_, second, err := svc.GenerateRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.TokenID, second.TokenID)
}

func TestParseExpiredToken(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, -time.Minute, -time.Minute)

	accessToken, _, err := svc.GenerateAccessToken(ctx, "user-1", "testuser")
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(ctx, accessToken)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)

	refreshToken, _, err := svc.GenerateRefreshToken(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(ctx, refreshToken)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestParseTamperedToken(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	token, _, err := svc.GenerateAccessToken(ctx, "user-1", "testuser")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ParseAccessToken(ctx, tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseTokenSignedWithOtherKey(t *testing.T) {
	ctx := testContext(t)
	issuer := services.NewJWT("another-secret-key", 15*time.Minute, 7*24*time.Hour)
	verifier := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	token, _, err := issuer.GenerateAccessToken(ctx, "user-1", "testuser")
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	_, err := svc.ParseAccessToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.ParseRefreshToken(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	ctx := testContext(t)
	svc := services.NewJWT(testSecretKey, 15*time.Minute, 7*24*time.Hour)

	// У access токена нет jti, поэтому он не годится как refresh.
	accessToken, _, err := svc.GenerateAccessToken(ctx, "user-1", "testuser")
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
