package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintToken issues a signed HS256 JWT for payload valid for cfg.TTL().
// It returns the token and the jti it carries.
func MintToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, string, error) {
	if cfg.Secret == "" {
		return "", "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.TTL() <= 0 {
		return "", "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if payload.Subject == uuid.Nil {
		return "", "", fmt.Errorf("token subject is required")
	}
	if !payload.Role.IsValid() {
		return "", "", fmt.Errorf("invalid role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := Claims{
		Role: payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, jti, nil
}

// ParseToken validates signature, issuer and expiry and returns the claims.
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", claims.Role)
	}
	if strings.TrimSpace(claims.ID) == "" {
		return nil, fmt.Errorf("token jti is required")
	}
	return claims, nil
}
