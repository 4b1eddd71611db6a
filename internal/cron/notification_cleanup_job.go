package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const defaultNotificationRetentionDays = 30

type notificationPurger interface {
	DeleteReadOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type NotificationCleanupJobParams struct {
	DB            txRunner
	Notifications notificationPurger
	RetentionDays int
}

// NewNotificationCleanupJob purges read notifications once they are older than
// the retention window.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultNotificationRetentionDays
	}
	return &notificationCleanupJob{
		db:        params.DB,
		repo:      params.Notifications,
		retention: time.Duration(retention) * 24 * time.Hour,
		now:       time.Now,
	}, nil
}

type notificationCleanupJob struct {
	db        txRunner
	repo      notificationPurger
	retention time.Duration
	now       func() time.Time
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteReadOlderThan(ctx, tx, cutoff)
		deleted = rows
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("notification cleanup: %w", err)
	}
	return deleted, nil
}
