package vendors

import (
	"math"
	"strings"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

// TotalSteps is the number of onboarding wizard stages.
const TotalSteps = 3

// StepCompletion flags which onboarding stages hold the data they require.
type StepCompletion struct {
	Step1 bool `json:"step1"`
	Step2 bool `json:"step2"`
	Step3 bool `json:"step3"`
}

// Completion summarizes onboarding progress for a vendor profile.
type Completion struct {
	Steps                StepCompletion `json:"steps"`
	CompletedSteps       int            `json:"completedSteps"`
	TotalSteps           int            `json:"totalSteps"`
	CompletionPercentage int            `json:"completionPercentage"`
	IsComplete           bool           `json:"isComplete"`
	CurrentStep          int            `json:"currentStep"`
}

// EvaluateCompletion derives onboarding progress from the stored profile fields.
// It has no side effects and is safe to call after every mutation.
func EvaluateCompletion(v *models.Vendor) Completion {
	out := Completion{TotalSteps: TotalSteps, CurrentStep: 1}
	if v == nil {
		return out
	}

	out.Steps.Step1 = v.VendorType != nil && v.VendorType.IsValid()
	out.Steps.Step2 = filled(v.BusinessName) &&
		filled(v.BusinessAddress1) &&
		filled(v.City) &&
		filled(v.State) &&
		filled(v.PostalCode)
	out.Steps.Step3 = verificationComplete(v)

	for _, done := range []bool{out.Steps.Step1, out.Steps.Step2, out.Steps.Step3} {
		if done {
			out.CompletedSteps++
		}
	}
	out.CompletionPercentage = int(math.Round(float64(out.CompletedSteps) / float64(TotalSteps) * 100))
	out.IsComplete = out.CompletedSteps == TotalSteps

	switch {
	case !out.Steps.Step1:
		out.CurrentStep = 1
	case !out.Steps.Step2:
		out.CurrentStep = 2
	default:
		out.CurrentStep = 3
	}
	return out
}

func verificationComplete(v *models.Vendor) bool {
	if v.VerificationType == nil {
		return false
	}
	switch *v.VerificationType {
	case enums.VerificationTypeGST:
		return filled(v.GSTNumber)
	case enums.VerificationTypeManual:
		return v.IDType != nil && v.IDType.IsValid() && filled(v.IDNumber)
	default:
		return false
	}
}

func filled(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}
