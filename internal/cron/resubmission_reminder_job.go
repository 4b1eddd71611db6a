package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendorhub-backend/internal/notifications"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

const (
	defaultReminderAfterDays = 7
	defaultReminderBatch     = 200
)

type rejectedVendorLister interface {
	ListRejectedAwaitingNotice(ctx context.Context, tx *gorm.DB, cutoff time.Time, notice enums.NotificationType, limit int) ([]models.Vendor, error)
}

type reminderStore interface {
	ExistsSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind enums.NotificationType, since time.Time) (bool, error)
	CreateWithTx(tx *gorm.DB, notification *models.Notification) error
}

type ResubmissionReminderJobParams struct {
	DB            txRunner
	Vendors       rejectedVendorLister
	Notifications reminderStore
	AfterDays     int
	BatchSize     int
}

// NewResubmissionReminderJob nudges vendors that stayed rejected past the
// grace period. Each rejection produces at most one reminder.
func NewResubmissionReminderJob(params ResubmissionReminderJobParams) (Job, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	after := params.AfterDays
	if after <= 0 {
		after = defaultReminderAfterDays
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReminderBatch
	}
	return &resubmissionReminderJob{
		db:            params.DB,
		vendors:       params.Vendors,
		notifications: params.Notifications,
		after:         time.Duration(after) * 24 * time.Hour,
		batch:         batch,
		now:           time.Now,
	}, nil
}

type resubmissionReminderJob struct {
	db            txRunner
	vendors       rejectedVendorLister
	notifications reminderStore
	after         time.Duration
	batch         int
	now           func() time.Time
}

func (j *resubmissionReminderJob) Name() string { return "resubmission-reminder" }

// Run lists overdue rejections that have not been reminded yet in one transaction and reminds each vendor in
// its own, so one failing vendor does not block the rest of the batch.
func (j *resubmissionReminderJob) Run(ctx context.Context) (int64, error) {
	now := j.now().UTC()
	var rejected []models.Vendor
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rejected, err = j.vendors.ListRejectedAwaitingNotice(ctx, tx, now.Add(-j.after), enums.NotificationTypeResubmissionReminder, j.batch)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("list rejected vendors: %w", err)
	}

	var (
		sent int64
		errs error
	)
	for i := range rejected {
		vendor := &rejected[i]
		if vendor.RejectedAt == nil {
			continue
		}
		var created bool
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			created, err = j.remind(ctx, tx, vendor, now)
			return err
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("vendor %s: %w", vendor.ID, err))
			continue
		}
		if created {
			sent++
		}
	}
	return sent, errs
}

func (j *resubmissionReminderJob) remind(ctx context.Context, tx *gorm.DB, vendor *models.Vendor, now time.Time) (bool, error) {
	reminded, err := j.notifications.ExistsSince(ctx, tx, vendor.UserID, enums.NotificationTypeResubmissionReminder, *vendor.RejectedAt)
	if err != nil {
		return false, fmt.Errorf("check reminder: %w", err)
	}
	if reminded {
		return false, nil
	}
	reason := ""
	if vendor.RejectionReason != nil {
		reason = *vendor.RejectionReason
	}
	reminder := notifications.NewVendorNotification(vendor.UserID, enums.NotificationTypeResubmissionReminder, reason)
	reminder.CreatedAt = now
	if err := j.notifications.CreateWithTx(tx, reminder); err != nil {
		return false, fmt.Errorf("create reminder: %w", err)
	}
	return true, nil
}
