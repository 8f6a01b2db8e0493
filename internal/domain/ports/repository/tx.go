package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTx is passed where a repository call should run outside any transaction.
var NoTx Tx

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Repository methods that accept a Tx must gracefully accept nil (the
// non-transactional path); the concrete type is infra-defined (pgx.Tx for
// Postgres). Keeping the handle opaque keeps transaction types out of the
// use-case layer.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
