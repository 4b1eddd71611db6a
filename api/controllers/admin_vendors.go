package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/api/middleware"
	"github.com/angelmondragon/vendorhub-backend/api/responses"
	"github.com/angelmondragon/vendorhub-backend/api/validators"
	"github.com/angelmondragon/vendorhub-backend/internal/verification"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

type verifyVendorRequest struct {
	Verified        *bool  `json:"verified" validate:"required"`
	RejectionReason string `json:"rejectionReason"`
}

type vendorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

func verificationServiceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "verification service unavailable"))
}

// adminVendorRequest resolves the vendorId route param and tags the log context with the acting admin.
func adminVendorRequest(r *http.Request, logg *logger.Logger) (*http.Request, uuid.UUID, error) {
	vendorID, err := validators.ParseUUIDParam(r, "vendorId")
	if err != nil {
		return r, uuid.Nil, err
	}
	if logg == nil {
		return r, vendorID, nil
	}
	ctx := logg.WithVendorID(r.Context(), vendorID.String())
	if adminID := middleware.UserIDFromContext(ctx); adminID != "" {
		ctx = logg.WithField(ctx, "admin_id", adminID)
	}
	return r.WithContext(ctx), vendorID, nil
}

// AdminVerifyVendor records an admin verify or reject decision.
func AdminVerifyVendor(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		r, vendorID, err := adminVendorRequest(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body verifyVendorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Decide(r.Context(), vendorID, verification.DecisionInput{
			Verified:        *body.Verified,
			RejectionReason: body.RejectionReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"vendor": vendor})
	}
}

// AdminClearRejection returns a rejected vendor to pending review.
func AdminClearRejection(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		r, vendorID, err := adminVendorRequest(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.ClearRejection(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"vendor": vendor})
	}
}

func AdminVendorDetail(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		r, vendorID, err := adminVendorRequest(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.VendorDetail(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func AdminVendorRejectionDetails(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		r, vendorID, err := adminVendorRequest(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		details, err := svc.RejectionDetails(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// AdminSetVendorStatus blocks or unblocks a vendor and its owning user.
func AdminSetVendorStatus(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		r, vendorID, err := adminVendorRequest(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendorStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.SetStatus(r.Context(), vendorID, verification.AccountStatus(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"vendor": vendor})
	}
}

func AdminDeleteVendor(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		r, vendorID, err := adminVendorRequest(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVendor(r.Context(), vendorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminVendorStats(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func AdminVendorRejectionStats(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			verificationServiceUnavailable(w, r, logg)
			return
		}
		stats, err := svc.RejectionStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
