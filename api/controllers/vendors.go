package controllers

import (
	"net/http"

	"github.com/angelmondragon/vendorhub-backend/api/responses"
	"github.com/angelmondragon/vendorhub-backend/api/validators"
	"github.com/angelmondragon/vendorhub-backend/internal/vendors"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

// decodeSubmission binds either a JSON or a multipart body into dest and
// returns any uploaded vendor files. The caller must run the returned cleanup.
func decodeSubmission(w http.ResponseWriter, r *http.Request, maxBody int64, dest any) (vendors.Files, func(), error) {
	noop := func() {}
	if !validators.IsMultipart(r) {
		return vendors.Files{}, noop, validators.DecodeJSONBody(r, dest)
	}

	form, err := validators.ParseMultipart(w, r, maxBody)
	if err != nil {
		return vendors.Files{}, noop, err
	}
	cleanup := func() { _ = form.Close() }

	if err := form.Bind(dest); err != nil {
		return vendors.Files{}, cleanup, err
	}

	var files vendors.Files
	if files.Logo, err = form.File("businessLogo"); err != nil {
		return vendors.Files{}, cleanup, err
	}
	if files.GSTDocument, err = form.File("gstDocument"); err != nil {
		return vendors.Files{}, cleanup, err
	}
	if files.OtherDocuments, err = form.Files("otherDocuments", "otherDocuments[]"); err != nil {
		return vendors.Files{}, cleanup, err
	}
	return files, cleanup, nil
}

func vendorServiceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
}

// VendorOnboardingStep1 records the vendor type.
func VendorOnboardingStep1(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendors.Step1Input
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitStep1(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VendorOnboardingStep2 records business details and an optional businessLogo upload.
func VendorOnboardingStep2(svc vendors.Service, maxBody int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendors.Step2Input
		files, cleanup, err := decodeSubmission(w, r, maxBody, &body)
		defer cleanup()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitStep2(r.Context(), userID, body, files.Logo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VendorOnboardingStep3 records the verification submission and its documents.
func VendorOnboardingStep3(svc vendors.Service, maxBody int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendors.Step3Input
		files, cleanup, err := decodeSubmission(w, r, maxBody, &body)
		defer cleanup()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitStep3(r.Context(), userID, body, files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func VendorProfile(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VendorUpdateProfile applies a partial profile update with optional uploads.
func VendorUpdateProfile(svc vendors.Service, maxBody int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendors.UpdateProfileInput
		files, cleanup, err := decodeSubmission(w, r, maxBody, &body)
		defer cleanup()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateProfile(r.Context(), userID, body, files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func VendorVerificationStatus(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.VerificationStatus(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func VendorResubmissionStatus(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CheckResubmission(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func VendorRejectionDetails(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.RejectionDetails(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VendorResubmit re-runs one onboarding step for a rejected vendor.
func VendorResubmit(svc vendors.Service, maxBody int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			vendorServiceUnavailable(w, r, logg)
			return
		}
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendors.ResubmitInput
		files, cleanup, err := decodeSubmission(w, r, maxBody, &body)
		defer cleanup()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Resubmit(r.Context(), userID, body, files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
