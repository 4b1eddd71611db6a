package models

import (
	"time"

	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Vendor is the onboarding and verification profile owned by a VENDOR user.
type Vendor struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	VendorType       *enums.VendorType `gorm:"column:vendor_type;type:vendor_type"`
	BusinessName     *string           `gorm:"column:business_name"`
	BusinessAddress1 *string           `gorm:"column:business_address1"`
	BusinessAddress2 *string           `gorm:"column:business_address2"`
	City             *string           `gorm:"column:city"`
	State            *string           `gorm:"column:state"`
	PostalCode       *string           `gorm:"column:postal_code"`
	BusinessLogo     *string           `gorm:"column:business_logo"`

	VerificationType *enums.VerificationType `gorm:"column:verification_type;type:verification_type"`
	GSTNumber        *string                 `gorm:"column:gst_number"`
	GSTDocument      *string                 `gorm:"column:gst_document"`
	IDType           *enums.IDType           `gorm:"column:id_type;type:id_type"`
	IDNumber         *string                 `gorm:"column:id_number"`
	OtherDocuments   pq.StringArray          `gorm:"column:other_documents;type:text[];not null;default:'{}'"`

	ProfileStep        int                       `gorm:"column:profile_step;not null;default:1"`
	Verified           bool                      `gorm:"column:verified;not null;default:false"`
	VerificationStatus *enums.VerificationStatus `gorm:"column:verification_status;type:verification_status"`
	RejectionReason    *string                   `gorm:"column:rejection_reason"`
	RejectedAt         *time.Time                `gorm:"column:rejected_at"`
	IsActive           bool                      `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
}

func (Vendor) TableName() string { return "vendors" }

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.OtherDocuments == nil {
		v.OtherDocuments = pq.StringArray{}
	}
	if v.ProfileStep == 0 {
		v.ProfileStep = 1
	}
	return nil
}

// NewVendor returns the empty profile created alongside a VENDOR user.
func NewVendor(userID uuid.UUID) *Vendor {
	return &Vendor{
		UserID:         userID,
		ProfileStep:    1,
		IsActive:       true,
		OtherDocuments: pq.StringArray{},
	}
}

// Status returns the persisted review state, or the empty string when never submitted.
func (v *Vendor) Status() enums.VerificationStatus {
	if v == nil || v.VerificationStatus == nil {
		return ""
	}
	return *v.VerificationStatus
}
