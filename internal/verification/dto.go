package verification

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/internal/vendors"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

// DecisionInput is the admin verdict on a submitted profile.
type DecisionInput struct {
	Verified        bool
	RejectionReason string
}

// AccountStatus is the admin-controlled activity state of a vendor account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusBlocked AccountStatus = "blocked"
)

// RejectionDetails is the admin view of a vendor's rejection.
type RejectionDetails struct {
	VendorID           uuid.UUID                 `json:"vendorId"`
	BusinessName       *string                   `json:"businessName"`
	VerificationStatus *enums.VerificationStatus `json:"verificationStatus"`
	vendors.RejectionInfo
	Owner *vendors.OwnerDTO `json:"owner,omitempty"`
}

// Stats groups vendors by declared type and by verification outcome.
type Stats struct {
	VendorTypes       []vendors.TypeCount         `json:"vendorTypes"`
	VerificationStats []vendors.VerificationCount `json:"verificationStats"`
}

// RejectionStats is the review overview shown on the admin dashboard.
type RejectionStats struct {
	vendors.RejectionCounts
	WindowDays  int       `json:"windowDays"`
	GeneratedAt time.Time `json:"generatedAt"`
}
