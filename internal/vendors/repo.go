package vendors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/vendorhub-backend/internal/repo"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

// Repository handles vendor persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to vendor operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// TypeCount is the number of vendors declaring one vendor type.
type TypeCount struct {
	Type  *enums.VendorType `json:"type" gorm:"column:type"`
	Count int64             `json:"count" gorm:"column:count"`
}

// VerificationCount groups vendors by verified flag and verification branch.
type VerificationCount struct {
	Verified         bool                    `json:"verified" gorm:"column:verified"`
	VerificationType *enums.VerificationType `json:"verificationType" gorm:"column:verification_type"`
	Count            int64                   `json:"count" gorm:"column:count"`
}

// RejectionCounts aggregates review outcomes across all vendors.
type RejectionCounts struct {
	TotalRejected        int64 `json:"totalRejected"`
	RecentRejections     int64 `json:"recentRejections"`
	PendingVerifications int64 `json:"pendingVerifications"`
	VerifiedVendors      int64 `json:"verifiedVendors"`
}

// Create persists a new vendor row.
func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.CreateWithTx(r.DB(ctx), vendor)
}

// CreateWithTx persists a new vendor row using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, vendor *models.Vendor) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	return tx.Omit(clause.Associations).Create(vendor).Error
}

// FindByID loads a vendor and its owning user.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return r.FindByIDWithTx(r.DB(ctx), id)
}

// FindByIDWithTx loads a vendor using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Vendor, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var vendor models.Vendor
	if err := tx.Preload("User").Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByUserID loads the vendor profile owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// Update saves every column of the vendor. The owning user row is never touched.
func (r *Repository) Update(ctx context.Context, vendor *models.Vendor) error {
	return r.UpdateWithTx(r.DB(ctx), vendor)
}

// UpdateWithTx saves the vendor using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, vendor *models.Vendor) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	return tx.Omit(clause.Associations).Save(vendor).Error
}

// DeleteWithTx removes the vendor and its owning user.
func (r *Repository) DeleteWithTx(tx *gorm.DB, vendor *models.Vendor) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	if err := tx.Where("id = ?", vendor.ID).Delete(&models.Vendor{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", vendor.UserID).Delete(&models.User{}).Error
}

// CountByType groups vendors by declared vendor type.
func (r *Repository) CountByType(ctx context.Context) ([]TypeCount, error) {
	var rows []TypeCount
	err := r.DB(ctx).
		Model(&models.Vendor{}).
		Select("vendor_type AS type, COUNT(*) AS count").
		Group("vendor_type").
		Order("vendor_type").
		Scan(&rows).Error
	return rows, err
}

// CountByVerification groups vendors by verified flag and verification branch.
func (r *Repository) CountByVerification(ctx context.Context) ([]VerificationCount, error) {
	var rows []VerificationCount
	err := r.DB(ctx).
		Model(&models.Vendor{}).
		Select("verified, verification_type, COUNT(*) AS count").
		Group("verified, verification_type").
		Order("verified, verification_type").
		Scan(&rows).Error
	return rows, err
}

// CountRejections aggregates review outcomes. Recent rejections are those at or after since.
func (r *Repository) CountRejections(ctx context.Context, since time.Time) (RejectionCounts, error) {
	var out RejectionCounts
	db := r.DB(ctx)

	if err := db.Model(&models.Vendor{}).
		Where("verification_status = ?", enums.VerificationStatusRejected).
		Count(&out.TotalRejected).Error; err != nil {
		return RejectionCounts{}, err
	}
	if err := db.Model(&models.Vendor{}).
		Where("verification_status = ? AND rejected_at >= ?", enums.VerificationStatusRejected, since.UTC()).
		Count(&out.RecentRejections).Error; err != nil {
		return RejectionCounts{}, err
	}
	if err := db.Model(&models.Vendor{}).
		Where("verification_status = ?", enums.VerificationStatusPending).
		Count(&out.PendingVerifications).Error; err != nil {
		return RejectionCounts{}, err
	}
	if err := db.Model(&models.Vendor{}).
		Where("verified = ?", true).
		Count(&out.VerifiedVendors).Error; err != nil {
		return RejectionCounts{}, err
	}
	return out, nil
}

// ListRejectedAwaitingNotice returns active vendors still rejected whose
// rejection is older than cutoff and who have no notice of the given type
// created since that rejection, oldest first.
func (r *Repository) ListRejectedAwaitingNotice(ctx context.Context, tx *gorm.DB, cutoff time.Time, notice enums.NotificationType, limit int) ([]models.Vendor, error) {
	conn, err := r.Tx(ctx, tx)
	if err != nil {
		return nil, err
	}
	query := conn.
		Where("verification_status = ? AND is_active = ? AND rejected_at < ?", enums.VerificationStatusRejected, true, cutoff.UTC()).
		Where("NOT EXISTS (SELECT 1 FROM notifications n WHERE n.user_id = vendors.user_id AND n.type = ? AND n.created_at >= vendors.rejected_at)", notice).
		Order("rejected_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.Vendor
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
