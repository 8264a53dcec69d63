package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxdecl/internal/config"
	"taxdecl/internal/service"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "taxdecl-test"}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())
	userID := uuid.New()

	token, err := svc.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestAuthService_SubjectOnlyToken(t *testing.T) {
	cfg := testJWTConfig()
	svc := service.NewAuthService(cfg)
	userID := uuid.New()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{"access"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestAuthService_RejectsInvalidTokens(t *testing.T) {
	cfg := testJWTConfig()
	svc := service.NewAuthService(cfg)

	expired, err := svc.IssueToken(uuid.New(), -time.Minute)
	require.NoError(t, err)

	wrongSecret, err := service.NewAuthService(config.JWTConfig{Secret: "other"}).IssueToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Audience:  jwt.ClaimStrings{"refresh"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Audience:  jwt.ClaimStrings{"access"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"expired":      expired,
		"wrong secret": wrongSecret,
		"refresh":      refresh,
		"bad subject":  badSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}
