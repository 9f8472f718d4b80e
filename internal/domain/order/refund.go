package order

import (
	"github.com/shopspring/decimal"
)

// Refund is money returned against an order
type Refund struct {
	ID          string          `json:"id" validate:"required"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      *RefundReason   `json:"reason,omitempty"`
	ReturnItems []*ReturnItem   `json:"return_items,omitempty" validate:"dive"`
}

type RefundReason struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ReturnItem is one unit range of a line item being returned
type ReturnItem struct {
	ID           string          `json:"id" validate:"required"`
	LineItemID   string          `json:"line_item_id"`
	SKU          string          `json:"sku,omitempty"`
	Quantity     int             `json:"quantity"`
	PreTaxAmount decimal.Decimal `json:"pre_tax_amount"`
}

// ReasonName returns the reason name or an empty string
func (r *Refund) ReasonName() string {
	if r == nil || r.Reason == nil {
		return ""
	}
	return r.Reason.Name
}
