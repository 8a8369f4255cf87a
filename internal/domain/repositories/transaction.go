package repositories

import "context"

// TxFn is a unit of work executed atomically
type TxFn func(ctx context.Context) error

// TransactionManager runs units of work atomically. Repositories called with
// the ctx passed to fn participate in the same transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
