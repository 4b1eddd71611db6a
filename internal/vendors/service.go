package vendors

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/internal/repo"
	"github.com/angelmondragon/vendorhub-backend/internal/uploads"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

type vendorRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
}

type fileStore interface {
	Store(ctx context.Context, vendorID uuid.UUID, kind uploads.Kind, file uploads.File) (string, error)
	Remove(ctx context.Context, refs ...string)
}

type stepObserver interface {
	ObserveStep(step, result string)
}

// Service exposes the vendor-facing onboarding and resubmission operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResult, error)
	SubmitStep1(ctx context.Context, userID uuid.UUID, input Step1Input) (*ProfileResult, error)
	SubmitStep2(ctx context.Context, userID uuid.UUID, input Step2Input, logo *uploads.File) (*ProfileResult, error)
	SubmitStep3(ctx context.Context, userID uuid.UUID, input Step3Input, files Files) (*ProfileResult, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput, files Files) (*ProfileResult, error)
	VerificationStatus(ctx context.Context, userID uuid.UUID) (*StatusView, error)
	CheckResubmission(ctx context.Context, userID uuid.UUID) (*ResubmissionStatus, error)
	RejectionDetails(ctx context.Context, userID uuid.UUID) (*RejectionInfo, error)
	Resubmit(ctx context.Context, userID uuid.UUID, input ResubmitInput, files Files) (*ProfileResult, error)
}

// Files holds the optional uploads that accompany a vendor submission.
type Files struct {
	Logo           *uploads.File
	GSTDocument    *uploads.File
	OtherDocuments []uploads.File
}

// UpdateProfileInput is a partial profile update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	VendorType             *string `json:"vendorType,omitempty"`
	BusinessName           *string `json:"businessName,omitempty"`
	BusinessAddress1       *string `json:"businessAddress1,omitempty"`
	BusinessAddress2       *string `json:"businessAddress2,omitempty"`
	City                   *string `json:"city,omitempty"`
	State                  *string `json:"state,omitempty"`
	PostalCode             *string `json:"postalCode,omitempty"`
	ResubmitAfterRejection bool    `json:"resubmitAfterRejection"`
}

// ResubmitInput selects which onboarding step a rejected vendor re-runs.
type ResubmitInput struct {
	Step int `json:"step"`
	Step1Input
	Step2Input
	Step3Input
}

// Config tunes vendor service limits.
type Config struct {
	MaxOtherDocuments int
}

type service struct {
	repo    vendorRepository
	files   fileStore
	metrics stepObserver
	logg    *logger.Logger
	cfg     Config
}

// NewService builds the vendor onboarding service.
func NewService(repo vendorRepository, files fileStore, metrics stepObserver, logg *logger.Logger, cfg Config) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	if cfg.MaxOtherDocuments <= 0 {
		cfg.MaxOtherDocuments = 5
	}
	return &service{
		repo:    repo,
		files:   files,
		metrics: metrics,
		logg:    logg,
		cfg:     cfg,
	}, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor profile")
	}
	return vendor, nil
}

// save persists the vendor. Newly stored uploads are removed when the write
// fails, and references replaced by the write are removed when it succeeds.
func (s *service) save(ctx context.Context, vendor *models.Vendor, before []string, stored []string) error {
	if err := s.repo.Update(ctx, vendor); err != nil {
		s.files.Remove(ctx, stored...)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor profile")
	}
	s.files.Remove(ctx, orphaned(before, FileRefs(vendor))...)
	return nil
}

func (s *service) observe(step string, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = strings.ToLower(string(pkgerrors.CodeOf(err)))
	}
	s.metrics.ObserveStep(step, result)
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResult, error) {
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ResultOf(vendor), nil
}

func (s *service) SubmitStep1(ctx context.Context, userID uuid.UUID, input Step1Input) (result *ProfileResult, err error) {
	defer func() { s.observe("1", err) }()

	vendorType, err := parseVendorType(input.VendorType)
	if err != nil {
		return nil, err
	}
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	vendor.VendorType = &vendorType
	vendor.ProfileStep = 2
	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor profile")
	}
	s.logStep(ctx, vendor, "vendor type saved")
	return ResultOf(vendor), nil
}

func (s *service) SubmitStep2(ctx context.Context, userID uuid.UUID, input Step2Input, logo *uploads.File) (result *ProfileResult, err error) {
	defer func() { s.observe("2", err) }()

	info, err := parseBusinessInfo(input)
	if err != nil {
		return nil, err
	}
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := FileRefs(vendor)

	var stored []string
	if logo != nil {
		ref, err := s.files.Store(ctx, vendor.ID, uploads.KindLogo, withField(*logo, "businessLogo"))
		if err != nil {
			return nil, err
		}
		stored = append(stored, ref)
		vendor.BusinessLogo = stringPtr(ref)
	}

	info.apply(vendor)
	vendor.ProfileStep = 3
	if err := s.save(ctx, vendor, before, stored); err != nil {
		return nil, err
	}
	s.logStep(ctx, vendor, "business information saved")
	return ResultOf(vendor), nil
}

func (s *service) SubmitStep3(ctx context.Context, userID uuid.UUID, input Step3Input, files Files) (result *ProfileResult, err error) {
	defer func() { s.observe("3", err) }()

	submission, err := ParseSubmission(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkDocumentSlots(submission.Type(), files); err != nil {
		return nil, err
	}
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := FileRefs(vendor)

	submission, stored, err := s.attachDocuments(ctx, vendor.ID, submission, files)
	if err != nil {
		return nil, err
	}
	submission.apply(vendor)
	if vendor.ProfileStep < 3 {
		vendor.ProfileStep = 3
	}
	if err := ApplyChange(vendor, Change{Event: EventSubmit}); err != nil {
		s.files.Remove(ctx, stored...)
		return nil, err
	}
	if err := s.save(ctx, vendor, before, stored); err != nil {
		return nil, err
	}
	s.logStep(ctx, vendor, "verification submitted for review")
	return ResultOf(vendor), nil
}

// checkDocumentSlots rejects uploads that do not belong to the chosen branch.
func (s *service) checkDocumentSlots(vt enums.VerificationType, files Files) error {
	if vt == enums.VerificationTypeGST && len(files.OtherDocuments) > 0 {
		return pkgerrors.Field("otherDocuments", "other documents are only accepted for manual verification")
	}
	if vt == enums.VerificationTypeManual && files.GSTDocument != nil {
		return pkgerrors.Field("gstDocument", "GST document is only accepted for GST verification")
	}
	if len(files.OtherDocuments) > s.cfg.MaxOtherDocuments {
		return pkgerrors.Field("otherDocuments", fmt.Sprintf("at most %d other documents are allowed", s.cfg.MaxOtherDocuments))
	}
	return nil
}

func (s *service) attachDocuments(ctx context.Context, vendorID uuid.UUID, submission VerificationSubmission, files Files) (VerificationSubmission, []string, error) {
	var stored []string
	switch sub := submission.(type) {
	case GSTSubmission:
		if files.GSTDocument != nil {
			ref, err := s.files.Store(ctx, vendorID, uploads.KindGSTDocument, withField(*files.GSTDocument, "gstDocument"))
			if err != nil {
				return nil, nil, err
			}
			stored = append(stored, ref)
			sub.Document = stringPtr(ref)
		}
		return sub, stored, nil
	case ManualSubmission:
		if len(files.OtherDocuments) > 0 {
			refs := make([]string, 0, len(files.OtherDocuments))
			for i, doc := range files.OtherDocuments {
				ref, err := s.files.Store(ctx, vendorID, uploads.KindOtherDocument, withField(doc, "otherDocuments["+strconv.Itoa(i)+"]"))
				if err != nil {
					s.files.Remove(ctx, refs...)
					return nil, nil, err
				}
				refs = append(refs, ref)
			}
			stored = append(stored, refs...)
			sub.OtherDocuments = refs
		}
		return sub, stored, nil
	default:
		return nil, nil, pkgerrors.New(pkgerrors.CodeInternal, "unknown verification submission")
	}
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput, files Files) (*ProfileResult, error) {
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.VendorType != nil {
		vendorType, err := parseVendorType(*input.VendorType)
		if err != nil {
			return nil, err
		}
		vendor.VendorType = &vendorType
	}
	for _, f := range []struct {
		field string
		value *string
		dst   **string
	}{
		{"businessName", input.BusinessName, &vendor.BusinessName},
		{"businessAddress1", input.BusinessAddress1, &vendor.BusinessAddress1},
		{"businessAddress2", input.BusinessAddress2, &vendor.BusinessAddress2},
		{"city", input.City, &vendor.City},
		{"state", input.State, &vendor.State},
		{"postalCode", input.PostalCode, &vendor.PostalCode},
	} {
		if f.value == nil {
			continue
		}
		value := strings.TrimSpace(*f.value)
		if err := checkBusinessField(f.field, value); err != nil {
			return nil, err
		}
		if f.field == "businessAddress2" {
			*f.dst = optionalString(value)
		} else {
			*f.dst = stringPtr(value)
		}
	}

	current := enums.VerificationType("")
	if vendor.VerificationType != nil {
		current = *vendor.VerificationType
	}
	if files.GSTDocument != nil && current != enums.VerificationTypeGST {
		return nil, pkgerrors.Field("gstDocument", "GST document is only accepted for GST verification")
	}
	if len(files.OtherDocuments) > 0 && current != enums.VerificationTypeManual {
		return nil, pkgerrors.Field("otherDocuments", "other documents are only accepted for manual verification")
	}
	if len(files.OtherDocuments) > s.cfg.MaxOtherDocuments {
		return nil, pkgerrors.Field("otherDocuments", fmt.Sprintf("at most %d other documents are allowed", s.cfg.MaxOtherDocuments))
	}

	before := FileRefs(vendor)
	var stored []string
	fail := func(err error) (*ProfileResult, error) {
		s.files.Remove(ctx, stored...)
		return nil, err
	}
	if files.Logo != nil {
		ref, err := s.files.Store(ctx, vendor.ID, uploads.KindLogo, withField(*files.Logo, "businessLogo"))
		if err != nil {
			return fail(err)
		}
		stored = append(stored, ref)
		vendor.BusinessLogo = stringPtr(ref)
	}
	if files.GSTDocument != nil {
		ref, err := s.files.Store(ctx, vendor.ID, uploads.KindGSTDocument, withField(*files.GSTDocument, "gstDocument"))
		if err != nil {
			return fail(err)
		}
		stored = append(stored, ref)
		vendor.GSTDocument = stringPtr(ref)
	}
	if len(files.OtherDocuments) > 0 {
		refs := make([]string, 0, len(files.OtherDocuments))
		for i, doc := range files.OtherDocuments {
			ref, err := s.files.Store(ctx, vendor.ID, uploads.KindOtherDocument, withField(doc, "otherDocuments["+strconv.Itoa(i)+"]"))
			if err != nil {
				return fail(err)
			}
			stored = append(stored, ref)
			refs = append(refs, ref)
		}
		vendor.OtherDocuments = refs
	}

	if input.ResubmitAfterRejection && StateOf(vendor) == StateRejected {
		if err := ApplyChange(vendor, Change{Event: EventSubmit}); err != nil {
			return fail(err)
		}
	}
	if err := s.save(ctx, vendor, before, stored); err != nil {
		return nil, err
	}
	s.logStep(ctx, vendor, "vendor profile updated")
	return ResultOf(vendor), nil
}

func (s *service) VerificationStatus(ctx context.Context, userID uuid.UUID) (*StatusView, error) {
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return StatusViewOf(vendor), nil
}

func (s *service) CheckResubmission(ctx context.Context, userID uuid.UUID) (*ResubmissionStatus, error) {
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	rejected := StateOf(vendor) == StateRejected
	return &ResubmissionStatus{
		CanResubmit:     rejected,
		IsRejected:      rejected,
		RejectedAt:      vendor.RejectedAt,
		RejectionReason: vendor.RejectionReason,
	}, nil
}

func (s *service) RejectionDetails(ctx context.Context, userID uuid.UUID) (*RejectionInfo, error) {
	vendor, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := RejectionInfoOf(vendor)
	if !info.IsRejected {
		info.RejectionReason = nil
		info.RejectedAt = nil
	}
	return &info, nil
}

func (s *service) Resubmit(ctx context.Context, userID uuid.UUID, input ResubmitInput, files Files) (*ProfileResult, error) {
	status, err := s.CheckResubmission(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.CanResubmit {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is not eligible for resubmission")
	}

	switch input.Step {
	case 1:
		return s.SubmitStep1(ctx, userID, input.Step1Input)
	case 2:
		return s.SubmitStep2(ctx, userID, input.Step2Input, files.Logo)
	case 3:
		return s.SubmitStep3(ctx, userID, input.Step3Input, files)
	default:
		return nil, pkgerrors.Field("step", "invalid step specified for resubmission")
	}
}

func (s *service) logStep(ctx context.Context, vendor *models.Vendor, msg string) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithVendorID(ctx, vendor.ID.String())
	logCtx = s.logg.WithField(logCtx, "profile_step", vendor.ProfileStep)
	s.logg.Info(logCtx, msg)
}

func withField(file uploads.File, field string) uploads.File {
	if file.Field == "" {
		file.Field = field
	}
	return file
}

// FileRefs lists every storage reference held by the vendor.
func FileRefs(v *models.Vendor) []string {
	var refs []string
	for _, ref := range []*string{v.BusinessLogo, v.GSTDocument} {
		if ref != nil && *ref != "" {
			refs = append(refs, *ref)
		}
	}
	return append(refs, v.OtherDocuments...)
}

// orphaned returns the references in before that are absent from after.
func orphaned(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, ref := range after {
		keep[ref] = struct{}{}
	}
	var out []string
	for _, ref := range before {
		if _, ok := keep[ref]; !ok {
			out = append(out, ref)
		}
	}
	return out
}
