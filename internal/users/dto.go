package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID          `json:"id"`
	Email       string             `json:"email"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Phone       *string            `json:"phone,omitempty"`
	AccountType *enums.AccountType `json:"accountType"`
	IsActive    bool               `json:"isActive"`
	LastLoginAt *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	AccountType  *enums.AccountType
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		AccountType: u.AccountType,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToModel builds an active user. An empty PasswordHash leaves the column null
// so externally authenticated users cannot log in with a password.
func (c CreateUserDTO) ToModel() *models.User {
	user := &models.User{
		Email:       strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName:   strings.TrimSpace(c.FirstName),
		LastName:    strings.TrimSpace(c.LastName),
		Phone:       c.Phone,
		AccountType: c.AccountType,
		IsActive:    true,
	}
	if c.PasswordHash != "" {
		hash := c.PasswordHash
		user.PasswordHash = &hash
	}
	return user
}
