package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ctxKey struct{}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}
	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseTxRequiresTransaction(t *testing.T) {
	base := NewBase(newTestDB(t))

	if _, err := base.Tx(context.Background(), nil); !errors.Is(err, gorm.ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}

	tx := newTestDB(t)
	ctx := context.WithValue(context.Background(), ctxKey{}, "tx")
	bound, err := base.Tx(ctx, tx)
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if bound.Statement.Context != ctx {
		t.Fatalf("expected transaction bound to ctx")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("load vendor: %w", gorm.ErrRecordNotFound)) {
		t.Fatalf("expected wrapped not-found to match")
	}
	if IsNotFound(errors.New("boom")) || IsNotFound(nil) {
		t.Fatalf("unexpected match")
	}
}
