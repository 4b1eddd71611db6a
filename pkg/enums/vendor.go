package enums

import (
	"fmt"
	"strings"
)

// VendorType is the business category a vendor declares in onboarding step 1.
type VendorType string

const (
	VendorTypeManufacturer VendorType = "MANUFACTURER"
	VendorTypeWholesaler   VendorType = "WHOLESALER"
	VendorTypeRetailer     VendorType = "RETAILER"
)

var validVendorTypes = []VendorType{
	VendorTypeManufacturer,
	VendorTypeWholesaler,
	VendorTypeRetailer,
}

func (v VendorType) String() string {
	return string(v)
}

func (v VendorType) IsValid() bool {
	for _, candidate := range validVendorTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVendorType trims and upper-cases the input before matching.
func ParseVendorType(value string) (VendorType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validVendorTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor type %q", value)
}

// VendorTypes returns the accepted vendor types in display order.
func VendorTypes() []VendorType {
	out := make([]VendorType, len(validVendorTypes))
	copy(out, validVendorTypes)
	return out
}

// VerificationType selects which evidence branch a vendor submitted.
type VerificationType string

const (
	VerificationTypeGST    VerificationType = "gst"
	VerificationTypeManual VerificationType = "manual"
)

var validVerificationTypes = []VerificationType{
	VerificationTypeGST,
	VerificationTypeManual,
}

func (v VerificationType) String() string {
	return string(v)
}

func (v VerificationType) IsValid() bool {
	for _, candidate := range validVerificationTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

func ParseVerificationType(value string) (VerificationType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validVerificationTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification type %q", value)
}

// VerificationStatus is the persisted review state. A NULL column means never submitted.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusRejected VerificationStatus = "rejected"
)

var validVerificationStatuses = []VerificationStatus{
	VerificationStatusPending,
	VerificationStatusVerified,
	VerificationStatusRejected,
}

func (v VerificationStatus) String() string {
	return string(v)
}

func (v VerificationStatus) IsValid() bool {
	for _, candidate := range validVerificationStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

func ParseVerificationStatus(value string) (VerificationStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validVerificationStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", value)
}

// IDType is the identity document used by the manual verification branch.
type IDType string

const (
	IDTypeAadhaar IDType = "aadhaar"
	IDTypePAN     IDType = "pan"
)

var validIDTypes = []IDType{
	IDTypeAadhaar,
	IDTypePAN,
}

func (i IDType) String() string {
	return string(i)
}

func (i IDType) IsValid() bool {
	for _, candidate := range validIDTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

func ParseIDType(value string) (IDType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validIDTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid id type %q", value)
}
