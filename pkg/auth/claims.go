package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// TokenPayload is what a caller supplies when minting a bearer token.
type TokenPayload struct {
	Subject uuid.UUID
	Role    enums.Role
	JTI     string
}

// Claims is the typed JWT carried by every authenticated request. The
// registered subject holds the identity id and ID holds the session jti.
type Claims struct {
	Role enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// IdentityID parses the subject claim.
func (c *Claims) IdentityID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
