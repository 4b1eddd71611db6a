package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

// OwnerDTO is the subset of the owning user shown alongside a vendor profile.
type OwnerDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"isActive"`
}

// RejectionInfo summarizes the rejection state of a profile.
type RejectionInfo struct {
	IsRejected      bool       `json:"isRejected"`
	RejectionReason *string    `json:"rejectionReason"`
	RejectedAt      *time.Time `json:"rejectedAt"`
	CanResubmit     bool       `json:"canResubmit"`
}

// VendorDTO exposes the vendor profile in API responses.
type VendorDTO struct {
	ID                      uuid.UUID                 `json:"id"`
	UserID                  uuid.UUID                 `json:"userId"`
	VendorType              *enums.VendorType         `json:"vendorType"`
	BusinessName            *string                   `json:"businessName"`
	BusinessAddress1        *string                   `json:"businessAddress1"`
	BusinessAddress2        *string                   `json:"businessAddress2"`
	City                    *string                   `json:"city"`
	State                   *string                   `json:"state"`
	PostalCode              *string                   `json:"postalCode"`
	BusinessLogo            *string                   `json:"businessLogo"`
	VerificationType        *enums.VerificationType   `json:"verificationType"`
	GSTNumber               *string                   `json:"gstNumber"`
	GSTDocument             *string                   `json:"gstDocument"`
	IDType                  *enums.IDType             `json:"idType"`
	IDNumber                *string                   `json:"idNumber"`
	OtherDocuments          []string                  `json:"otherDocuments"`
	ProfileStep             int                       `json:"profileStep"`
	Verified                bool                      `json:"verified"`
	VerificationStatus      *enums.VerificationStatus `json:"verificationStatus"`
	VerificationStatusLabel string                    `json:"verificationStatusLabel"`
	RejectionReason         *string                   `json:"rejectionReason"`
	RejectedAt              *time.Time                `json:"rejectedAt"`
	RejectionInfo           RejectionInfo             `json:"rejectionInfo"`
	IsActive                bool                      `json:"isActive"`
	User                    *OwnerDTO                 `json:"user,omitempty"`
	CreatedAt               time.Time                 `json:"createdAt"`
	UpdatedAt               time.Time                 `json:"updatedAt"`
}

// ProfileResult is returned by every onboarding handler and the profile read.
type ProfileResult struct {
	Vendor     VendorDTO  `json:"vendor"`
	Completion Completion `json:"completion"`
}

// StatusView is the verification status projection for the vendor dashboard.
type StatusView struct {
	Verified                bool                      `json:"verified"`
	VerificationStatus      *enums.VerificationStatus `json:"verificationStatus"`
	VerificationStatusLabel string                    `json:"verificationStatusLabel"`
	ProfileStep             int                       `json:"profileStep"`
	VerificationType        *enums.VerificationType   `json:"verificationType"`
	RejectionInfo           RejectionInfo             `json:"rejectionInfo"`
	NextSteps               []string                  `json:"nextSteps"`
}

// ResubmissionStatus reports whether a vendor may resubmit after rejection.
type ResubmissionStatus struct {
	CanResubmit     bool       `json:"canResubmit"`
	IsRejected      bool       `json:"isRejected"`
	RejectedAt      *time.Time `json:"rejectedAt"`
	RejectionReason *string    `json:"rejectionReason"`
}

// FromModel maps the persisted vendor into a DTO.
func FromModel(m *models.Vendor) VendorDTO {
	if m == nil {
		return VendorDTO{}
	}
	dto := VendorDTO{
		ID:                      m.ID,
		UserID:                  m.UserID,
		VendorType:              m.VendorType,
		BusinessName:            m.BusinessName,
		BusinessAddress1:        m.BusinessAddress1,
		BusinessAddress2:        m.BusinessAddress2,
		City:                    m.City,
		State:                   m.State,
		PostalCode:              m.PostalCode,
		BusinessLogo:            m.BusinessLogo,
		VerificationType:        m.VerificationType,
		GSTNumber:               m.GSTNumber,
		GSTDocument:             m.GSTDocument,
		IDType:                  m.IDType,
		IDNumber:                m.IDNumber,
		OtherDocuments:          append([]string{}, m.OtherDocuments...),
		ProfileStep:             m.ProfileStep,
		Verified:                m.Verified,
		VerificationStatus:      m.VerificationStatus,
		VerificationStatusLabel: StatusLabel(m),
		RejectionReason:         m.RejectionReason,
		RejectedAt:              m.RejectedAt,
		RejectionInfo:           RejectionInfoOf(m),
		IsActive:                m.IsActive,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.User != nil {
		dto.User = &OwnerDTO{
			ID:        m.User.ID,
			Email:     m.User.Email,
			FirstName: m.User.FirstName,
			LastName:  m.User.LastName,
			IsActive:  m.User.IsActive,
		}
	}
	return dto
}

// RejectionInfoOf projects the rejection fields of a vendor.
func RejectionInfoOf(m *models.Vendor) RejectionInfo {
	rejected := m.Status() == enums.VerificationStatusRejected
	return RejectionInfo{
		IsRejected:      rejected,
		RejectionReason: m.RejectionReason,
		RejectedAt:      m.RejectedAt,
		CanResubmit:     rejected,
	}
}

// ResultOf pairs a vendor DTO with its completion evaluation.
func ResultOf(m *models.Vendor) *ProfileResult {
	return &ProfileResult{Vendor: FromModel(m), Completion: EvaluateCompletion(m)}
}

// StatusViewOf builds the status projection for a vendor.
func StatusViewOf(m *models.Vendor) *StatusView {
	return &StatusView{
		Verified:                m.Verified,
		VerificationStatus:      m.VerificationStatus,
		VerificationStatusLabel: StatusLabel(m),
		ProfileStep:             m.ProfileStep,
		VerificationType:        m.VerificationType,
		RejectionInfo:           RejectionInfoOf(m),
		NextSteps:               NextSteps(m),
	}
}
