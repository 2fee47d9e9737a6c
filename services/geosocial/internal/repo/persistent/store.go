package persistent

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs fn in a database transaction. Repositories called with the
// context handed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type transactor struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTransactor(db *gorm.DB, timeout time.Duration) Transactor {
	return &transactor{db: db, timeout: timeout}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translateError(err, "record not found")
}

// base is embedded by every repository. conn bounds each store access by the
// configured timeout and joins a transaction carried by ctx.
type base struct {
	db      *gorm.DB
	timeout time.Duration
}

func (b base) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := withTimeout(ctx, b.timeout)
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx), cancel
	}
	return b.db.WithContext(ctx), cancel
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
