package notifications

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	"github.com/angelmondragon/vendorhub-backend/pkg/migrate"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.ApplySQLiteSchema(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	user := &models.User{Email: email, FirstName: "Ravi", LastName: "Iyer", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func seedNotifications(t *testing.T, repo Repository, userID uuid.UUID, count int) {
	t.Helper()
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		n := NewVendorNotification(userID, enums.NotificationTypeVendorStatus, fmt.Sprintf("state-%d", i))
		n.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), n))
	}
}

func TestRepositoryListPagesNewestFirst(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := seedUser(t, db, "pages@example.com")
	other := seedUser(t, db, "other@example.com")
	seedNotifications(t, repo, userID, 5)
	seedNotifications(t, repo, other, 2)

	ctx := context.Background()
	page, next, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Contains(t, page[0].Message, "state-4")
	assert.Contains(t, page[1].Message, "state-3")

	seen := len(page)
	for next != nil {
		page, next, err = repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 2, Cursor: next})
		require.NoError(t, err)
		for _, n := range page {
			assert.Equal(t, userID, n.UserID)
		}
		seen += len(page)
	}
	assert.Equal(t, 5, seen)
}

func TestRepositoryMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := seedUser(t, db, "reads@example.com")
	seedNotifications(t, repo, userID, 3)

	ctx := context.Background()
	unread, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	rows, _, err := repo.List(ctx, listNotificationsParams{UserID: userID})
	require.NoError(t, err)
	now := time.Now().UTC()

	result, err := repo.MarkRead(ctx, userID, rows[0].ID, now)
	require.NoError(t, err)
	assert.Equal(t, notificationMarkResult{Updated: true, Found: true}, result)

	result, err = repo.MarkRead(ctx, userID, rows[0].ID, now)
	require.NoError(t, err)
	assert.Equal(t, notificationMarkResult{Found: true}, result)

	result, err = repo.MarkRead(ctx, uuid.New(), rows[1].ID, now)
	require.NoError(t, err)
	assert.False(t, result.Found)

	unreadOnly, _, err := repo.List(ctx, listNotificationsParams{UserID: userID, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unreadOnly, 2)

	updated, err := repo.MarkAllRead(ctx, userID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, err = repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestRepositoryRetentionHelpers(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	userID := seedUser(t, db, "retention@example.com")
	seedNotifications(t, repo, userID, 4)

	ctx := context.Background()
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	rows, _, err := repo.List(ctx, listNotificationsParams{UserID: userID})
	require.NoError(t, err)
	// newest first: mark the two oldest as read
	for _, n := range rows[2:] {
		_, err := repo.MarkRead(ctx, userID, n.ID, base.Add(time.Hour))
		require.NoError(t, err)
	}

	_, err = repo.DeleteReadOlderThan(ctx, nil, base)
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	deleted, err := repo.DeleteReadOlderThan(ctx, db, base.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, _, err := repo.List(ctx, listNotificationsParams{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	exists, err := repo.ExistsSince(ctx, db, userID, enums.NotificationTypeVendorStatus, base)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsSince(ctx, db, userID, enums.NotificationTypeResubmissionReminder, base)
	require.NoError(t, err)
	assert.False(t, exists)
}
