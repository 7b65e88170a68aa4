package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "marketplace-test", ExpirationMinutes: 60}
}

func TestMintAndParseToken(t *testing.T) {
	cfg := testJWTConfig()
	subject := uuid.New()

	token, jti, err := MintToken(cfg, time.Now(), TokenPayload{Subject: subject, Role: enums.RoleVendor})
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleVendor, claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "marketplace-test", claims.Issuer)

	id, err := claims.IdentityID()
	require.NoError(t, err)
	assert.Equal(t, subject, id)
}

func TestMintTokenKeepsProvidedJTI(t *testing.T) {
	_, jti, err := MintToken(testJWTConfig(), time.Now(), TokenPayload{Subject: uuid.New(), Role: enums.RoleAdmin, JTI: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", jti)
}

func TestMintTokenValidatesInput(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	_, _, err := MintToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, TokenPayload{Subject: uuid.New(), Role: enums.RoleAdmin})
	assert.Error(t, err)
	_, _, err = MintToken(cfg, now, TokenPayload{Role: enums.RoleAdmin})
	assert.Error(t, err)
	_, _, err = MintToken(cfg, now, TokenPayload{Subject: uuid.New(), Role: "root"})
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := MintToken(cfg, time.Now().Add(-2*time.Hour), TokenPayload{Subject: uuid.New(), Role: enums.RoleCustomer})
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := MintToken(cfg, time.Now(), TokenPayload{Subject: uuid.New(), Role: enums.RoleDelivery})
	require.NoError(t, err)

	other := cfg
	other.Secret = "another"
	_, err = ParseToken(other, token)
	assert.Error(t, err)

	other = cfg
	other.Issuer = "someone-else"
	_, err = ParseToken(other, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := Claims{
		Role: enums.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			ID:        "jti",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.Error(t, err)
}
