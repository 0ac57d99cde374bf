// Package context carries request-scoped values that would otherwise need
// to be threaded through every repository call.
package context

import (
	"context"

	"gorm.io/gorm"
)

type key int

const txKey key = iota

// WithTransaction stores an open transaction on the context so that code
// further down the call chain can join it.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// Transaction returns the transaction stored on the context, if any.
func Transaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	return tx, ok
}
