package repositories

import "context"

// TransactionManager runs a unit of work inside one store transaction.
// The transaction travels in the context handed to fn; repositories called
// with that context join it.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
