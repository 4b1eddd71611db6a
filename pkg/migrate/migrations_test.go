package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/vendorhub-backend/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestVendorsMigrationEnforcesVerificationConsistency(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_vendors.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no vendors migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TYPE vendor_type AS ENUM ('MANUFACTURER', 'WHOLESALER', 'RETAILER')",
		"CREATE TYPE verification_status AS ENUM ('pending', 'verified', 'rejected')",
		"REFERENCES users (id) ON DELETE CASCADE",
		"CONSTRAINT vendors_verified_consistency",
		"CONSTRAINT vendors_rejected_consistency",
		"DROP TABLE IF EXISTS vendors",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestApplySQLiteSchema(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_schema?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, migrate.ApplySQLiteSchema(conn))
	// idempotent
	require.NoError(t, migrate.ApplySQLiteSchema(conn))

	for _, table := range []string{"users", "vendors", "notifications"} {
		require.True(t, conn.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Vendor Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_vendor_notes.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "add vendor notes")
	require.Error(t, err, "slug reuse must be rejected")

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestValidateDirRejectsMalformedFiles(t *testing.T) {
	cases := map[string]string{
		"20260101000000_swapped.sql":    "-- +goose Down\n-- +goose Up\n",
		"20260101000000_no_down.sql":    "-- +goose Up\nSELECT 1;\n",
		"20260101000000_unbalanced.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		"Bad-Name.sql":                  "-- +goose Up\n-- +goose Down\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
			require.Error(t, migrate.ValidateDir(dir))
		})
	}
}
