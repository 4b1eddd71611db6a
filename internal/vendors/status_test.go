package vendors

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

func TestStatusLabel(t *testing.T) {
	gst := enums.VerificationTypeGST
	manual := enums.VerificationTypeManual

	tests := []struct {
		name  string
		setup func(v *models.Vendor)
		want  string
	}{
		{"never submitted", func(v *models.Vendor) {}, LabelPending},
		{"pending", func(v *models.Vendor) { _ = ApplyChange(v, Change{Event: EventSubmit}) }, LabelPending},
		{"rejected", func(v *models.Vendor) {
			_ = ApplyChange(v, Change{Event: EventReject, Reason: "Missing required business documents"})
		}, LabelRejected},
		{"gst verified", func(v *models.Vendor) {
			v.VerificationType = &gst
			_ = ApplyChange(v, Change{Event: EventVerify})
		}, LabelGSTVerified},
		{"manual verified", func(v *models.Vendor) {
			v.VerificationType = &manual
			_ = ApplyChange(v, Change{Event: EventVerify})
		}, LabelManuallyVerified},
		{"verified without type", func(v *models.Vendor) { _ = ApplyChange(v, Change{Event: EventVerify}) }, LabelVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := models.NewVendor(uuid.New())
			tt.setup(v)
			if got := StatusLabel(v); got != tt.want {
				t.Fatalf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestNextSteps(t *testing.T) {
	v := models.NewVendor(uuid.New())
	v.ProfileStep = 2
	want := []string{"Complete profile step 2", "Submit all required documents", "Wait for admin verification"}
	if got := NextSteps(v); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}

	_ = ApplyChange(v, Change{Event: EventSubmit})
	if got := NextSteps(v); got[0] != "Your verification is currently under review" || len(got) != 3 {
		t.Fatalf("unexpected pending steps %v", got)
	}

	_ = ApplyChange(v, Change{Event: EventReject, Reason: "ID document illegible"})
	if got := NextSteps(v); got[0] != "Review the rejection reason provided by the admin" || len(got) != 4 {
		t.Fatalf("unexpected rejected steps %v", got)
	}

	_ = ApplyChange(v, Change{Event: EventVerify})
	if got := NextSteps(v); got[0] != "Your account is fully verified" {
		t.Fatalf("unexpected verified steps %v", got)
	}
}
