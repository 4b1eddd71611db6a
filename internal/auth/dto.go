package auth

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
// RequiresAccountType is set for users that still have to pick BUYER or VENDOR.
type LoginResponse struct {
	AccessToken         string         `json:"accessToken"`
	RefreshToken        string         `json:"refreshToken"`
	User                *users.UserDTO `json:"user"`
	RequiresAccountType bool           `json:"requiresAccountType"`
}

// RefreshInput identifies the session being rotated.
type RefreshInput struct {
	UserID       uuid.UUID
	AccessID     string
	RefreshToken string
}
