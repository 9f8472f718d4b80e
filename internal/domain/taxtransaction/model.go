package taxtransaction

import (
	"context"

	"github.com/flexprice/salestax/internal/types"
)

// TaxTransaction marks that an order has been submitted to the tax service.
// There is exactly one per order.
type TaxTransaction struct {
	ID      string `db:"id" json:"id"`
	OrderID string `db:"order_id" json:"order_id"`
	types.BaseModel
}

// New creates an unsaved record for the given order
func New(ctx context.Context, orderID string) *TaxTransaction {
	return &TaxTransaction{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_TRANSACTION),
		OrderID:   orderID,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}
