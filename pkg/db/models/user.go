package models

import (
	"time"

	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity. AccountType stays nil for
// users created through an external identity provider until they pick one.
type User struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string             `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash *string            `gorm:"column:password_hash"`
	FirstName    string             `gorm:"column:first_name;not null"`
	LastName     string             `gorm:"column:last_name;not null"`
	Phone        *string            `gorm:"column:phone"`
	AccountType  *enums.AccountType `gorm:"column:account_type;type:account_type"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key client side so inserts behave the same on every dialect.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasAccountType reports whether the user completed account-type selection.
func (u *User) HasAccountType() bool {
	return u != nil && u.AccountType != nil && u.AccountType.IsValid()
}
