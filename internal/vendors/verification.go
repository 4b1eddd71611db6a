package vendors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/lib/pq"
)

var (
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Step3Input carries the verification branch selection and its identifiers.
type Step3Input struct {
	VerificationType string `json:"verificationType"`
	GSTNumber        string `json:"gstNumber,omitempty"`
	IDType           string `json:"idType,omitempty"`
	IDNumber         string `json:"idNumber,omitempty"`
}

// VerificationSubmission is one of GSTSubmission or ManualSubmission.
// Applying a submission writes its own branch and clears the other.
type VerificationSubmission interface {
	Type() enums.VerificationType
	apply(v *models.Vendor)
}

// GSTSubmission verifies the vendor through a GST registration.
type GSTSubmission struct {
	Number string
	// Document is nil when no new certificate was uploaded; the stored one is kept.
	Document *string
}

// ManualSubmission verifies the vendor through an identity document.
type ManualSubmission struct {
	IDType   enums.IDType
	IDNumber string
	// OtherDocuments replaces the stored list only when non-nil.
	OtherDocuments []string
}

func (GSTSubmission) Type() enums.VerificationType { return enums.VerificationTypeGST }

func (ManualSubmission) Type() enums.VerificationType { return enums.VerificationTypeManual }

func (s GSTSubmission) apply(v *models.Vendor) {
	vt := enums.VerificationTypeGST
	v.VerificationType = &vt
	v.GSTNumber = stringPtr(s.Number)
	if s.Document != nil {
		v.GSTDocument = stringPtr(*s.Document)
	}
	v.IDType = nil
	v.IDNumber = nil
	v.OtherDocuments = pq.StringArray{}
}

func (s ManualSubmission) apply(v *models.Vendor) {
	vt := enums.VerificationTypeManual
	idType := s.IDType
	v.VerificationType = &vt
	v.IDType = &idType
	v.IDNumber = stringPtr(s.IDNumber)
	if s.OtherDocuments != nil {
		v.OtherDocuments = append(pq.StringArray{}, s.OtherDocuments...)
	} else if v.OtherDocuments == nil {
		v.OtherDocuments = pq.StringArray{}
	}
	v.GSTNumber = nil
	v.GSTDocument = nil
}

// ParseSubmission normalizes and validates step 3 input into a typed submission.
func ParseSubmission(in Step3Input) (VerificationSubmission, error) {
	if strings.TrimSpace(in.VerificationType) == "" {
		return nil, pkgerrors.Field("verificationType", "verification type is required")
	}
	vt, err := enums.ParseVerificationType(in.VerificationType)
	if err != nil {
		return nil, pkgerrors.Field("verificationType", `invalid verification type, must be "gst" or "manual"`)
	}

	if vt == enums.VerificationTypeGST {
		number := strings.ToUpper(strings.TrimSpace(in.GSTNumber))
		if number == "" {
			return nil, pkgerrors.Field("gstNumber", "GST number is required for GST verification")
		}
		if !gstinPattern.MatchString(number) {
			return nil, pkgerrors.Field("gstNumber", "invalid GST number format")
		}
		return GSTSubmission{Number: number}, nil
	}

	rawType := strings.TrimSpace(in.IDType)
	rawNumber := strings.TrimSpace(in.IDNumber)
	if rawType == "" {
		return nil, pkgerrors.Field("idType", "ID type is required for manual verification")
	}
	if rawNumber == "" {
		return nil, pkgerrors.Field("idNumber", "ID number is required for manual verification")
	}
	idType, err := enums.ParseIDType(rawType)
	if err != nil {
		return nil, pkgerrors.Field("idType", `invalid ID type, must be "aadhaar" or "pan"`)
	}
	number, err := normalizeIDNumber(idType, rawNumber)
	if err != nil {
		return nil, err
	}
	return ManualSubmission{IDType: idType, IDNumber: number}, nil
}

func normalizeIDNumber(idType enums.IDType, raw string) (string, error) {
	switch idType {
	case enums.IDTypeAadhaar:
		number := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, raw)
		if !aadhaarPattern.MatchString(number) {
			return "", pkgerrors.Field("idNumber", "invalid Aadhaar format, should be 12 digits")
		}
		return number, nil
	case enums.IDTypePAN:
		number := strings.ToUpper(raw)
		if !panPattern.MatchString(number) {
			return "", pkgerrors.Field("idNumber", "invalid PAN format, should be like ABCDE1234F")
		}
		return number, nil
	default:
		return "", pkgerrors.Field("idType", `invalid ID type, must be "aadhaar" or "pan"`)
	}
}
