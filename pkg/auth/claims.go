package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// JTI links the access token to its refresh session; when empty a new
// identifier is generated at mint time.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.SystemRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID        `json:"user_id"`
	Email  string           `json:"email"`
	Role   enums.SystemRole `json:"role"`
	jwt.RegisteredClaims
}
