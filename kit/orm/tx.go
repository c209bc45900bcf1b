package orm

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type txContextKey struct{}

type txContext struct {
	tx *gorm.DB

	lock            sync.Mutex
	afterCompletion []func()
}

func (t *txContext) complete() {
	t.lock.Lock()
	hooks := t.afterCompletion
	t.afterCompletion = nil
	t.lock.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

// Transaction runs fc inside a database transaction carried by the returned
// context. Nested calls join the outer transaction. Hooks registered through
// AfterCompletion run once the outermost transaction has committed or rolled
// back, including when fc panics.
func (db *DB) Transaction(ctx context.Context, fc func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	if _, ok := ctx.Value(txContextKey{}).(*txContext); ok {
		return fc(ctx)
	}

	txCtx := new(txContext)
	defer txCtx.complete()

	return db.gormClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx.tx = tx
		return fc(context.WithValue(ctx, txContextKey{}, txCtx))
	}, opts...)
}

// AfterCompletion defers fn until the transaction carried by ctx completes.
// It reports false, without calling fn, when ctx carries no transaction.
func AfterCompletion(ctx context.Context, fn func()) bool {
	txCtx, ok := ctx.Value(txContextKey{}).(*txContext)
	if !ok {
		return false
	}
	txCtx.lock.Lock()
	defer txCtx.lock.Unlock()
	txCtx.afterCompletion = append(txCtx.afterCompletion, fn)
	return true
}

// SavePoint runs fc behind a savepoint of the transaction carried by ctx and
// rolls back to it when fc fails, so the transaction stays usable after a
// failed statement. Without a transaction in ctx it only runs fc.
func (db *DB) SavePoint(ctx context.Context, name string, fc func(ctx context.Context) error) error {
	txCtx, ok := ctx.Value(txContextKey{}).(*txContext)
	if !ok || txCtx.tx == nil {
		return fc(ctx)
	}

	if err := txCtx.tx.WithContext(ctx).SavePoint(name).Error; err != nil {
		return errors.Wrap(err, "create savepoint failed")
	}
	if err := fc(ctx); err != nil {
		if rollbackErr := txCtx.tx.WithContext(context.WithoutCancel(ctx)).RollbackTo(name).Error; rollbackErr != nil {
			return errors.Wrapf(err, "rollback to savepoint failed: %v", rollbackErr)
		}
		return err
	}
	return nil
}
