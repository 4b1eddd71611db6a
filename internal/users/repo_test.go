package users

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

	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	"github.com/angelmondragon/vendorhub-backend/pkg/migrate"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
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

func TestRepositoryCreateNormalizesEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  Priya@Example.COM ",
		PasswordHash: "hash",
		FirstName:    " Priya ",
		LastName:     "Nair",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.HasAccountType())

	found, err := repo.FindByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Priya", found.FirstName)
	require.NotNil(t, found.PasswordHash)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateWithoutPassword(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	created, err := repo.Create(context.Background(), CreateUserDTO{Email: "oauth@example.com", FirstName: "O", LastName: "Auth"})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, found.PasswordHash)
}

func TestRepositoryAccountTypeAndActivity(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Email: "flags@example.com", FirstName: "F", LastName: "L"})
	require.NoError(t, err)

	require.NoError(t, repo.SetAccountType(ctx, created.ID, enums.AccountTypeVendor))
	assert.ErrorIs(t, repo.SetAccountType(ctx, uuid.New(), enums.AccountTypeVendor), gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetActiveWithTx(db, created.ID, false))
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, created.ID, now))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AccountType)
	assert.Equal(t, enums.AccountTypeVendor, *found.AccountType)
	assert.False(t, found.IsActive)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(now))

	assert.Equal(t, gorm.ErrInvalidTransaction, repo.SetActiveWithTx(nil, created.ID, true))
}

func TestFromModelNil(t *testing.T) {
	assert.Nil(t, FromModel(nil))
}
