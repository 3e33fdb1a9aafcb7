package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars!!",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "lms-backend-test",
		MaxRefreshCount:        3,
	})
}

func testTokenInput() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "learner@example.com",
		Role:     "learner",
	}
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	service := newTestJWTService()
	input := testTokenInput()

	pair, err := service.GenerateTokenPair(input)
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.Before(pair.RefreshTokenExpiresAt))

	claims, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.Equal(t, input.Role, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	refreshClaims, err := service.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
	assert.Empty(t, refreshClaims.Email)
	assert.Equal(t, 0, refreshClaims.RefreshCount)
}

func TestJWTService_ValidateAccessToken_WrongType(t *testing.T) {
	service := newTestJWTService()

	pair, err := service.GenerateTokenPair(testTokenInput())
	require.NoError(t, err)

	// Refresh token is signed with a different secret, so it fails
	// signature validation before the type check
	_, err = service.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = service.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_ValidateAccessToken_SharedSecretTypeCheck(t *testing.T) {
	// With a single shared secret the type claim is the only guard
	service := NewJWTService(config.JWTConfig{
		Secret:                 "shared-secret-at-least-32-chars-long!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "lms-backend-test",
		MaxRefreshCount:        3,
	})

	pair, err := service.GenerateTokenPair(testTokenInput())
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	service := NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars!!",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "lms-backend-test",
	})

	pair, err := service.GenerateTokenPair(testTokenInput())
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateAccessToken_Tampered(t *testing.T) {
	service := newTestJWTService()

	pair, err := service.GenerateTokenPair(testTokenInput())
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-4] + "xxxx"
	_, err = service.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	service := newTestJWTService()
	input := testTokenInput()

	pair, err := service.GenerateTokenPair(input)
	require.NoError(t, err)

	newPair, err := service.RefreshTokenPair(pair.RefreshToken, input.Email, input.Role)
	require.NoError(t, err)
	require.NotNil(t, newPair)

	claims, err := service.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)

	refreshClaims, err := service.ValidateRefreshToken(newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)
}

func TestJWTService_RefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	service := newTestJWTService()
	input := testTokenInput()

	pair, err := service.GenerateTokenPair(input)
	require.NoError(t, err)

	refreshToken := pair.RefreshToken
	for i := 0; i < 3; i++ {
		newPair, err := service.RefreshTokenPair(refreshToken, input.Email, input.Role)
		require.NoError(t, err)
		refreshToken = newPair.RefreshToken
	}

	_, err = service.RefreshTokenPair(refreshToken, input.Email, input.Role)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestJWTService_RefreshTokenPair_InvalidToken(t *testing.T) {
	service := newTestJWTService()

	_, err := service.RefreshTokenPair("garbage", "x@example.com", "learner")
	assert.Error(t, err)
}

func TestClaims_Helpers(t *testing.T) {
	service := newTestJWTService()
	input := testTokenInput()

	pair, err := service.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	tenantID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	revoked, err := blacklist.IsRevoked(ctx, "unknown-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpiredEntry(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.Revoke(ctx, "jti-expired", -time.Second))

	revoked, err := blacklist.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}
