package enums

import (
	"fmt"
	"strings"
)

// AccountType is the marketplace role carried on users and in access tokens.
type AccountType string

const (
	AccountTypeBuyer  AccountType = "BUYER"
	AccountTypeVendor AccountType = "VENDOR"
	AccountTypeAdmin  AccountType = "ADMIN"
)

var validAccountTypes = []AccountType{
	AccountTypeBuyer,
	AccountTypeVendor,
	AccountTypeAdmin,
}

// String implements fmt.Stringer.
func (a AccountType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountType.
func (a AccountType) IsValid() bool {
	for _, candidate := range validAccountTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// SelfService reports whether users may pick this type themselves during signup.
func (a AccountType) SelfService() bool {
	return a == AccountTypeBuyer || a == AccountTypeVendor
}

// ParseAccountType converts raw input into an AccountType, ignoring case.
func ParseAccountType(value string) (AccountType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validAccountTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account type %q", value)
}
