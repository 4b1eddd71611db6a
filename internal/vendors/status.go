package vendors

import (
	"fmt"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

const (
	LabelPending          = "Pending Verification"
	LabelGSTVerified      = "GST Verified"
	LabelManuallyVerified = "Manually Verified"
	LabelVerified         = "Verified"
	LabelRejected         = "Rejected"
)

// StatusLabel maps the verification fields to the human-readable label shown to vendors and admins.
func StatusLabel(v *models.Vendor) string {
	if v == nil {
		return LabelPending
	}
	if v.Status() == enums.VerificationStatusRejected {
		return LabelRejected
	}
	if !v.Verified {
		return LabelPending
	}
	if v.VerificationType != nil {
		switch *v.VerificationType {
		case enums.VerificationTypeGST:
			return LabelGSTVerified
		case enums.VerificationTypeManual:
			return LabelManuallyVerified
		}
	}
	return LabelVerified
}

// NextSteps returns ordered guidance for the vendor's current review state.
func NextSteps(v *models.Vendor) []string {
	if v == nil {
		return []string{"Complete profile step 1", "Submit all required documents", "Wait for admin verification"}
	}
	switch {
	case v.Status() == enums.VerificationStatusRejected:
		return []string{
			"Review the rejection reason provided by the admin",
			"Update your profile information to address the issues",
			"Resubmit your verification documents",
			"Wait for admin review",
		}
	case v.Status() == enums.VerificationStatusPending:
		return []string{
			"Your verification is currently under review",
			"Please wait for admin approval",
			"You will be notified of the decision via email",
		}
	case v.Verified && v.Status() == enums.VerificationStatusVerified:
		return []string{
			"Your account is fully verified",
			"You can now list products and manage your business",
			"Keep your profile information up to date",
		}
	default:
		return []string{
			fmt.Sprintf("Complete profile step %d", v.ProfileStep),
			"Submit all required documents",
			"Wait for admin verification",
		}
	}
}
