package verification

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendorhub-backend/internal/notifications"
	"github.com/angelmondragon/vendorhub-backend/internal/repo"
	"github.com/angelmondragon/vendorhub-backend/internal/vendors"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

// RecentRejectionWindow bounds the "recent rejections" counter.
const RecentRejectionWindow = 30 * 24 * time.Hour

// Service is the admin side of vendor verification.
type Service interface {
	Decide(ctx context.Context, vendorID uuid.UUID, input DecisionInput) (*vendors.VendorDTO, error)
	ClearRejection(ctx context.Context, vendorID uuid.UUID) (*vendors.VendorDTO, error)
	VendorDetail(ctx context.Context, vendorID uuid.UUID) (*vendors.ProfileResult, error)
	RejectionDetails(ctx context.Context, vendorID uuid.UUID) (*RejectionDetails, error)
	SetStatus(ctx context.Context, vendorID uuid.UUID, status AccountStatus) (*vendors.VendorDTO, error)
	DeleteVendor(ctx context.Context, vendorID uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
	RejectionStats(ctx context.Context) (*RejectionStats, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type vendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Vendor, error)
	UpdateWithTx(tx *gorm.DB, vendor *models.Vendor) error
	DeleteWithTx(tx *gorm.DB, vendor *models.Vendor) error
	CountByType(ctx context.Context) ([]vendors.TypeCount, error)
	CountByVerification(ctx context.Context) ([]vendors.VerificationCount, error)
	CountRejections(ctx context.Context, since time.Time) (vendors.RejectionCounts, error)
}

type userRepository interface {
	SetActiveWithTx(tx *gorm.DB, id uuid.UUID, active bool) error
}

type notificationWriter interface {
	CreateWithTx(tx *gorm.DB, notification *models.Notification) error
}

type fileRemover interface {
	Remove(ctx context.Context, refs ...string)
}

type decisionObserver interface {
	ObserveDecision(outcome string)
}

// Config bounds the rejection reason length.
type Config struct {
	ReasonMin int
	ReasonMax int
}

// ServiceParams bundles the admin verification dependencies.
type ServiceParams struct {
	TxRunner      txRunner
	Vendors       vendorRepository
	Users         userRepository
	Notifications notificationWriter
	Files         fileRemover
	Metrics       decisionObserver
	Logger        *logger.Logger
	Config        Config
}

type service struct {
	tx            txRunner
	vendors       vendorRepository
	users         userRepository
	notifications notificationWriter
	files         fileRemover
	metrics       decisionObserver
	logg          *logger.Logger
	cfg           Config
	now           func() time.Time
}

// NewService validates dependencies and builds the admin verification service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	if params.Files == nil {
		return nil, fmt.Errorf("file store required")
	}
	cfg := params.Config
	if cfg.ReasonMin <= 0 {
		cfg.ReasonMin = 10
	}
	if cfg.ReasonMax < cfg.ReasonMin {
		cfg.ReasonMax = 500
	}
	return &service{
		tx:            params.TxRunner,
		vendors:       params.Vendors,
		users:         params.Users,
		notifications: params.Notifications,
		files:         params.Files,
		metrics:       params.Metrics,
		logg:          params.Logger,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

// Decide verifies or rejects a vendor. It is the only path that marks a
// vendor verified, and it applies whatever the current status is.
func (s *service) Decide(ctx context.Context, vendorID uuid.UUID, input DecisionInput) (*vendors.VendorDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.Field("vendorId", "vendor id is required")
	}

	change := vendors.Change{Event: vendors.EventVerify, At: s.now()}
	kind := enums.NotificationTypeVendorVerified
	outcome := "verified"
	if !input.Verified {
		reason, err := s.checkReason(input.RejectionReason)
		if err != nil {
			return nil, err
		}
		change = vendors.Change{Event: vendors.EventReject, Reason: reason, At: s.now()}
		kind = enums.NotificationTypeVendorRejected
		outcome = "rejected"
	}

	vendor, err := s.transition(ctx, vendorID, change, kind)
	if err != nil {
		return nil, err
	}
	s.record(ctx, vendor, outcome)
	dto := vendors.FromModel(vendor)
	return &dto, nil
}

// ClearRejection returns a rejected vendor to pending without a new submission.
func (s *service) ClearRejection(ctx context.Context, vendorID uuid.UUID) (*vendors.VendorDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.Field("vendorId", "vendor id is required")
	}
	vendor, err := s.transition(ctx, vendorID, vendors.Change{Event: vendors.EventClear, At: s.now()}, enums.NotificationTypeRejectionCleared)
	if err != nil {
		return nil, err
	}
	s.record(ctx, vendor, "cleared")
	dto := vendors.FromModel(vendor)
	return &dto, nil
}

func (s *service) checkReason(raw string) (string, error) {
	reason := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(reason)
	if n == 0 {
		return "", pkgerrors.Field("rejectionReason", "rejection reason is required when rejecting a vendor")
	}
	if n < s.cfg.ReasonMin || n > s.cfg.ReasonMax {
		return "", pkgerrors.Field("rejectionReason",
			fmt.Sprintf("rejection reason must be between %d and %d characters", s.cfg.ReasonMin, s.cfg.ReasonMax))
	}
	return reason, nil
}

// transition applies change and writes the vendor notification in one transaction.
func (s *service) transition(ctx context.Context, vendorID uuid.UUID, change vendors.Change, kind enums.NotificationType) (*models.Vendor, error) {
	var updated *models.Vendor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		vendor, err := s.findWithTx(tx, vendorID)
		if err != nil {
			return err
		}
		if err := vendors.ApplyChange(vendor, change); err != nil {
			return err
		}
		vendor.UpdatedAt = s.now()
		if err := s.vendors.UpdateWithTx(tx, vendor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor verification")
		}
		if err := s.notifications.CreateWithTx(tx, notifications.NewVendorNotification(vendor.UserID, kind, change.Reason)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor notification")
		}
		updated = vendor
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) findWithTx(tx *gorm.DB, vendorID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByIDWithTx(tx, vendorID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor")
	}
	return vendor, nil
}

func (s *service) find(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.Field("vendorId", "vendor id is required")
	}
	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup vendor")
	}
	return vendor, nil
}

func (s *service) record(ctx context.Context, vendor *models.Vendor, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveDecision(outcome)
	}
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithVendorID(ctx, vendor.ID.String())
	logCtx = s.logg.WithField(logCtx, "outcome", outcome)
	s.logg.Info(logCtx, "vendor verification updated")
}

func (s *service) VendorDetail(ctx context.Context, vendorID uuid.UUID) (*vendors.ProfileResult, error) {
	vendor, err := s.find(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return vendors.ResultOf(vendor), nil
}

func (s *service) RejectionDetails(ctx context.Context, vendorID uuid.UUID) (*RejectionDetails, error) {
	vendor, err := s.find(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	dto := vendors.FromModel(vendor)
	return &RejectionDetails{
		VendorID:           vendor.ID,
		BusinessName:       vendor.BusinessName,
		VerificationStatus: vendor.VerificationStatus,
		RejectionInfo:      dto.RejectionInfo,
		Owner:              dto.User,
	}, nil
}

// SetStatus blocks or reactivates the vendor and its owning user together.
func (s *service) SetStatus(ctx context.Context, vendorID uuid.UUID, status AccountStatus) (*vendors.VendorDTO, error) {
	var active bool
	switch status {
	case AccountStatusActive:
		active = true
	case AccountStatusBlocked:
		active = false
	default:
		return nil, pkgerrors.Field("status", "status must be active or blocked")
	}
	if vendorID == uuid.Nil {
		return nil, pkgerrors.Field("vendorId", "vendor id is required")
	}

	var updated *models.Vendor
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		vendor, err := s.findWithTx(tx, vendorID)
		if err != nil {
			return err
		}
		vendor.IsActive = active
		vendor.UpdatedAt = s.now()
		if err := s.vendors.UpdateWithTx(tx, vendor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor status")
		}
		if err := s.users.SetActiveWithTx(tx, vendor.UserID, active); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
		}
		if vendor.User != nil {
			vendor.User.IsActive = active
		}
		notification := notifications.NewVendorNotification(vendor.UserID, enums.NotificationTypeVendorStatus, string(status))
		if err := s.notifications.CreateWithTx(tx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor notification")
		}
		updated = vendor
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithVendorID(ctx, updated.ID.String())
		s.logg.Info(s.logg.WithField(logCtx, "status", string(status)), "vendor account status changed")
	}
	dto := vendors.FromModel(updated)
	return &dto, nil
}

// DeleteVendor removes the vendor, its user and, once committed, its stored files.
func (s *service) DeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	if vendorID == uuid.Nil {
		return pkgerrors.Field("vendorId", "vendor id is required")
	}
	var refs []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		vendor, err := s.findWithTx(tx, vendorID)
		if err != nil {
			return err
		}
		refs = vendors.FileRefs(vendor)
		if err := s.vendors.DeleteWithTx(tx, vendor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.files.Remove(ctx, refs...)
	if s.logg != nil {
		s.logg.Info(s.logg.WithVendorID(ctx, vendorID.String()), "vendor deleted")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	byType, err := s.vendors.CountByType(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count vendors by type")
	}
	byVerification, err := s.vendors.CountByVerification(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count vendors by verification")
	}
	if byType == nil {
		byType = []vendors.TypeCount{}
	}
	if byVerification == nil {
		byVerification = []vendors.VerificationCount{}
	}
	return &Stats{VendorTypes: byType, VerificationStats: byVerification}, nil
}

func (s *service) RejectionStats(ctx context.Context) (*RejectionStats, error) {
	now := s.now()
	counts, err := s.vendors.CountRejections(ctx, now.Add(-RecentRejectionWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rejections")
	}
	return &RejectionStats{
		RejectionCounts: counts,
		WindowDays:      int(RecentRejectionWindow / (24 * time.Hour)),
		GeneratedAt:     now,
	}, nil
}
