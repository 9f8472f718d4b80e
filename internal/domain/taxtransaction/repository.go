package taxtransaction

import (
	"context"
)

// Repository persists tax transactions. Create must reject a second record
// for the same order with an error marked ierr.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, txn *TaxTransaction) error
	Get(ctx context.Context, id string) (*TaxTransaction, error)
	GetByOrderID(ctx context.Context, orderID string) (*TaxTransaction, error)
}
