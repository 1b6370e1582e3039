package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/config"
)

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	cfg := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: expirationHours,
	}
	return NewJWTService(cfg)
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	assert.Len(t, parts, 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_GenerateToken_RequiresSecret(t *testing.T) {
	service := NewJWTService(&config.JWTConfig{ExpirationHours: 1})

	_, err := service.GenerateToken(uuid.New())
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_InvalidSignature(t *testing.T) {
	service1 := setupTestJWTService(t, 24)
	service2 := setupTestJWTService(t, 24)
	service2.config.Secret = "different-secret-key-for-jwt-signing-minimum-32-bytes"

	token, err := service1.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := service2.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "signature")
}

func TestJWTService_ValidateToken_MalformedToken(t *testing.T) {
	service := setupTestJWTService(t, 24)

	for _, token := range []string{"", "invalid", "invalid.token", "invalid.token.format.extra", "invalid.base64.signature"} {
		t.Run(token, func(t *testing.T) {
			claims, err := service.ValidateToken(token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := setupTestJWTService(t, 24)
	past := time.Now().Add(-2 * time.Hour)

	token := signClaims(t, jwt.SigningMethodHS256, []byte(service.config.Secret), &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(past),
			NotBefore: jwt.NewNumericDate(past),
		},
	})

	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_ValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token := signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_RequiresUserID(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token := signClaims(t, jwt.SigningMethodHS256, []byte(service.config.Secret), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	userID := uuid.New()
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)

	got, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.GetUserID())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
