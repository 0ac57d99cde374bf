package services

import (
	"context"
	"fmt"

	appContext "rentdesk/internal/context"
	"rentdesk/internal/database"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// TransactionService wraps units of work in a database transaction. The
// transaction handle is also injected into the context so repositories can
// pick it up without threading *gorm.DB through every call.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute begins a transaction, runs fn, and commits if fn returns nil.
// A non-nil error or a panic rolls the transaction back; the panic is
// converted to an error so callers get a normal failure path. A failed
// rollback re-panics, since at that point data integrity is unknown.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			err = log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))
			ts.rollback(tx, log, err, r)
		}
	}()

	ctx = appContext.WithTransaction(ctx, tx)

	if err = fn(ctx, tx); err != nil {
		ts.rollback(tx, log, err, nil)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

func (ts *TransactionService) rollback(
	tx *gorm.DB,
	log logger.Logger,
	cause error,
	panicked any,
) {
	if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
		log.Er("CRITICAL: transaction rollback failed", rollbackErr, "cause", cause)
		if panicked != nil {
			panic(fmt.Sprintf(
				"transaction rollback failed: %v (original panic: %v)",
				rollbackErr, panicked,
			))
		}
	}
}
