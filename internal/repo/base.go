package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Base is embedded by the domain repositories. It owns the connection and the
// helpers every repository needs for context binding and transaction handoff.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tx binds ctx to a caller-owned transaction. Repositories use it for their
// *WithTx variants so a missing transaction fails loudly instead of silently
// running outside of it.
func (b Base) Tx(ctx context.Context, tx *gorm.DB) (*gorm.DB, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	if ctx == nil {
		return tx, nil
	}
	return tx.WithContext(ctx), nil
}

// IsNotFound reports whether err is gorm's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
