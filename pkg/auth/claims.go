package auth

import (
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Role is empty for users that have not selected an account type yet.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.AccountType
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID         `json:"user_id"`
	Role   enums.AccountType `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NeedsAccountType reports whether the bearer still has to pick BUYER or VENDOR.
func (c *AccessTokenClaims) NeedsAccountType() bool {
	return c.Role == ""
}
