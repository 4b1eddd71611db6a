package vendors

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

// Step1Input selects the vendor's business category.
type Step1Input struct {
	VendorType string `json:"vendorType"`
}

// Step2Input carries the business identity and address fields.
type Step2Input struct {
	BusinessName     string `json:"businessName"`
	BusinessAddress1 string `json:"businessAddress1"`
	BusinessAddress2 string `json:"businessAddress2"`
	City             string `json:"city"`
	State            string `json:"state"`
	PostalCode       string `json:"postalCode"`
}

// step2Rules holds the checks for each Step2Input field, keyed by its json
// name. Profile updates run the same rules on the fields they carry.
var step2Rules = map[string]fieldRule{
	"businessName":     {min: 2, max: 100, short: "business name must be at least 2 characters", long: "business name too long"},
	"businessAddress1": {min: 5, max: 200, short: "business address must be at least 5 characters", long: "address too long"},
	"businessAddress2": {max: 200, long: "address too long"},
	"city":             {min: 2, max: 50, short: "city must be at least 2 characters", long: "city name too long"},
	"state":            {min: 2, max: 50, short: "state must be at least 2 characters", long: "state name too long"},
	"postalCode":       {pattern: regexp.MustCompile(`^\d{6}$`), mismatch: "postal code must be exactly 6 digits"},
}

type fieldRule struct {
	min, max    int
	short, long string
	pattern     *regexp.Regexp
	mismatch    string
}

type businessInfo struct {
	name     string
	address1 string
	address2 string
	city     string
	state    string
	postal   string
}

func parseVendorType(raw string) (enums.VendorType, error) {
	vendorType, err := enums.ParseVendorType(raw)
	if err != nil {
		return "", pkgerrors.Field("vendorType", "invalid vendor type, must be MANUFACTURER, WHOLESALER, or RETAILER")
	}
	return vendorType, nil
}

func parseBusinessInfo(in Step2Input) (businessInfo, error) {
	info := businessInfo{
		name:     strings.TrimSpace(in.BusinessName),
		address1: strings.TrimSpace(in.BusinessAddress1),
		address2: strings.TrimSpace(in.BusinessAddress2),
		city:     strings.TrimSpace(in.City),
		state:    strings.TrimSpace(in.State),
		postal:   strings.TrimSpace(in.PostalCode),
	}

	for _, f := range []struct{ field, value string }{
		{"businessName", info.name},
		{"businessAddress1", info.address1},
		{"businessAddress2", info.address2},
		{"city", info.city},
		{"state", info.state},
		{"postalCode", info.postal},
	} {
		if err := checkBusinessField(f.field, f.value); err != nil {
			return businessInfo{}, err
		}
	}
	return info, nil
}

// checkBusinessField validates one trimmed step 2 field.
func checkBusinessField(field, value string) error {
	rule, ok := step2Rules[field]
	if !ok {
		return pkgerrors.Field(field, "unknown field")
	}
	if rule.pattern != nil {
		if !rule.pattern.MatchString(value) {
			return pkgerrors.Field(field, rule.mismatch)
		}
		return nil
	}
	n := utf8.RuneCountInString(value)
	if n < rule.min {
		return pkgerrors.Field(field, rule.short)
	}
	if n > rule.max {
		return pkgerrors.Field(field, rule.long)
	}
	return nil
}

func (b businessInfo) apply(v *models.Vendor) {
	v.BusinessName = stringPtr(b.name)
	v.BusinessAddress1 = stringPtr(b.address1)
	v.BusinessAddress2 = optionalString(b.address2)
	v.City = stringPtr(b.city)
	v.State = stringPtr(b.state)
	v.PostalCode = stringPtr(b.postal)
}

func stringPtr(value string) *string {
	return &value
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
