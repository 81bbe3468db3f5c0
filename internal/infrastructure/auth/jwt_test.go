package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-32ch",
		Issuer:          "furniture-ledger",
		ExpirationHours: 1,
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService(testJWTConfig())
	userID := uuid.New()

	token, expiresAt, err := service.Generate(userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "furniture-ledger", claims.Issuer)

	actor, err := claims.ActorID()
	require.NoError(t, err)
	assert.Equal(t, userID, actor)
}

func TestJWTService_Validate_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ExpirationHours = -1
	service := NewJWTService(cfg)

	token, _, err := service.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	service := NewJWTService(testJWTConfig())

	token, _, err := service.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "another-secret-key-for-jwt-signing-32"
	other := NewJWTService(otherCfg)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_WrongIssuer(t *testing.T) {
	otherCfg := testJWTConfig()
	otherCfg.Issuer = "someone-else"
	other := NewJWTService(otherCfg)

	token, _, err := other.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	service := NewJWTService(testJWTConfig())
	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	service := NewJWTService(testJWTConfig())

	_, err := service.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_ActorID_Missing(t *testing.T) {
	claims := &Claims{}
	_, err := claims.ActorID()
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestClaims_ActorID_Malformed(t *testing.T) {
	claims := &Claims{UserID: "not-a-uuid"}
	_, err := claims.ActorID()
	assert.ErrorIs(t, err, ErrMissingUserID)
}
