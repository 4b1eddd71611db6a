package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vendorhub-backend/internal/vendors"
	"github.com/angelmondragon/vendorhub-backend/internal/verification"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

type stubVerificationService struct {
	vendorID uuid.UUID
	decision verification.DecisionInput
	status   verification.AccountStatus
	deleted  bool
	cleared  bool
	err      error
}

func (s *stubVerificationService) Decide(ctx context.Context, vendorID uuid.UUID, input verification.DecisionInput) (*vendors.VendorDTO, error) {
	s.vendorID, s.decision = vendorID, input
	if s.err != nil {
		return nil, s.err
	}
	return &vendors.VendorDTO{ID: vendorID}, nil
}

func (s *stubVerificationService) ClearRejection(ctx context.Context, vendorID uuid.UUID) (*vendors.VendorDTO, error) {
	s.vendorID, s.cleared = vendorID, true
	if s.err != nil {
		return nil, s.err
	}
	return &vendors.VendorDTO{ID: vendorID}, nil
}

func (s *stubVerificationService) VendorDetail(ctx context.Context, vendorID uuid.UUID) (*vendors.ProfileResult, error) {
	s.vendorID = vendorID
	if s.err != nil {
		return nil, s.err
	}
	return &vendors.ProfileResult{Vendor: vendors.VendorDTO{ID: vendorID}}, nil
}

func (s *stubVerificationService) RejectionDetails(ctx context.Context, vendorID uuid.UUID) (*verification.RejectionDetails, error) {
	s.vendorID = vendorID
	if s.err != nil {
		return nil, s.err
	}
	return &verification.RejectionDetails{VendorID: vendorID}, nil
}

func (s *stubVerificationService) SetStatus(ctx context.Context, vendorID uuid.UUID, status verification.AccountStatus) (*vendors.VendorDTO, error) {
	s.vendorID, s.status = vendorID, status
	if s.err != nil {
		return nil, s.err
	}
	return &vendors.VendorDTO{ID: vendorID, IsActive: status == verification.AccountStatusActive}, nil
}

func (s *stubVerificationService) DeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	s.vendorID, s.deleted = vendorID, true
	return s.err
}

func (s *stubVerificationService) Stats(ctx context.Context) (*verification.Stats, error) {
	return &verification.Stats{VendorTypes: []vendors.TypeCount{{Count: 2}}}, s.err
}

func (s *stubVerificationService) RejectionStats(ctx context.Context) (*verification.RejectionStats, error) {
	return &verification.RejectionStats{
		RejectionCounts: vendors.RejectionCounts{TotalRejected: 4, RecentRejections: 1},
		WindowDays:      30,
	}, s.err
}

func adminRequest(method, body string, vendorID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/admin/v1/vendors/"+vendorID, nil)
	} else {
		req = jsonRequest(method, "/api/admin/v1/vendors/"+vendorID, body)
	}
	return withRouteParam(withUser(req, uuid.New()), "vendorId", vendorID)
}

func TestAdminVerifyVendorReject(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubVerificationService{}
	rec := httptest.NewRecorder()
	AdminVerifyVendor(svc, nil).ServeHTTP(rec, adminRequest(http.MethodPut, `{"verified":false,"rejectionReason":"Missing required business documents"}`, vendorID.String()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, vendorID, svc.vendorID)
	assert.False(t, svc.decision.Verified)
	assert.Equal(t, "Missing required business documents", svc.decision.RejectionReason)
}

func TestAdminVerifyVendorRequiresVerifiedFlag(t *testing.T) {
	svc := &stubVerificationService{}
	rec := httptest.NewRecorder()
	AdminVerifyVendor(svc, nil).ServeHTTP(rec, adminRequest(http.MethodPut, `{"rejectionReason":"whatever reason"}`, uuid.NewString()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "verified")
	assert.Equal(t, uuid.Nil, svc.vendorID)
}

func TestAdminVerifyVendorInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminVerifyVendor(&stubVerificationService{}, nil).ServeHTTP(rec, adminRequest(http.MethodPut, `{"verified":true}`, "not-a-uuid"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminVerifyVendorNotFound(t *testing.T) {
	svc := &stubVerificationService{err: pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")}
	rec := httptest.NewRecorder()
	AdminVerifyVendor(svc, nil).ServeHTTP(rec, adminRequest(http.MethodPut, `{"verified":true}`, uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminClearRejectionStateConflict(t *testing.T) {
	svc := &stubVerificationService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is not rejected")}
	rec := httptest.NewRecorder()
	AdminClearRejection(svc, nil).ServeHTTP(rec, adminRequest(http.MethodPost, "", uuid.NewString()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, svc.cleared)
}

func TestAdminSetVendorStatus(t *testing.T) {
	svc := &stubVerificationService{}
	rec := httptest.NewRecorder()
	AdminSetVendorStatus(svc, nil).ServeHTTP(rec, adminRequest(http.MethodPut, `{"status":"blocked"}`, uuid.NewString()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, verification.AccountStatusBlocked, svc.status)

	rec = httptest.NewRecorder()
	AdminSetVendorStatus(svc, nil).ServeHTTP(rec, adminRequest(http.MethodPut, `{"status":"paused"}`, uuid.NewString()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be one of active, blocked")
}

func TestAdminDeleteVendor(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubVerificationService{}
	rec := httptest.NewRecorder()
	AdminDeleteVendor(svc, nil).ServeHTTP(rec, adminRequest(http.MethodDelete, "", vendorID.String()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.deleted)
	assert.Equal(t, vendorID, svc.vendorID)
}

func TestAdminVendorReadEndpoints(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubVerificationService{}

	rec := httptest.NewRecorder()
	AdminVendorDetail(svc, nil).ServeHTTP(rec, adminRequest(http.MethodGet, "", vendorID.String()))
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	vendor, _ := data["vendor"].(map[string]any)
	assert.Equal(t, vendorID.String(), vendor["id"])

	rec = httptest.NewRecorder()
	AdminVendorRejectionDetails(svc, nil).ServeHTTP(rec, adminRequest(http.MethodGet, "", vendorID.String()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, vendorID.String(), decodeData(t, rec)["vendorId"])
}

func TestAdminVendorStatsEndpoints(t *testing.T) {
	svc := &stubVerificationService{}

	rec := httptest.NewRecorder()
	AdminVendorStats(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/vendors/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeData(t, rec), "vendorTypes")

	rec = httptest.NewRecorder()
	AdminVendorRejectionStats(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/vendors/rejection-stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(4), data["totalRejected"])
	assert.Equal(t, float64(30), data["windowDays"])
}
