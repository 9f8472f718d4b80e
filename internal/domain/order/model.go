package order

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Order is a read-only snapshot of a storefront order. It is owned by the
// commerce system and only read here.
type Order struct {
	ID                string        `json:"id" validate:"required"`
	Number            string        `json:"number" validate:"required"`
	Currency          string        `json:"currency" validate:"required"`
	Email             string        `json:"email,omitempty"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
	User              *User         `json:"user,omitempty"`
	CustomerUsageType string        `json:"customer_usage_type,omitempty"`
	LineItems         []*LineItem   `json:"line_items,omitempty" validate:"dive"`
	Shipments         []*Shipment   `json:"shipments,omitempty" validate:"dive"`
	Adjustments       []*Adjustment `json:"adjustments,omitempty" validate:"dive"`
	ShipAddress       *Address      `json:"ship_address,omitempty"`
	BillAddress       *Address      `json:"bill_address,omitempty"`
}

// User is the customer account attached to an order
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email,omitempty"`
	ExemptionNumber string `json:"exemption_number,omitempty"`
	VatID           string `json:"vat_id,omitempty"`
}

// LineItem is a purchased variant. Amount is the pre-tax total before
// promotions, PromoTotal is the (negative) line level promotion amount.
type LineItem struct {
	ID         string          `json:"id" validate:"required"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	TaxCode    string          `json:"tax_code,omitempty"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	PromoTotal decimal.Decimal `json:"promo_total"`
}

// DiscountedAmount is the line amount after line level promotions
func (l *LineItem) DiscountedAmount() decimal.Decimal {
	return l.Amount.Add(l.PromoTotal)
}

// Shipment carries the shipping charge for a package
type Shipment struct {
	ID             string          `json:"id" validate:"required"`
	ShippingMethod string          `json:"shipping_method"`
	TaxCode        string          `json:"tax_code,omitempty"`
	Cost           decimal.Decimal `json:"cost"`
	PromoTotal     decimal.Decimal `json:"promo_total"`
}

// DiscountedCost is the shipping cost after shipping promotions
func (s *Shipment) DiscountedCost() decimal.Decimal {
	return s.Cost.Add(s.PromoTotal)
}

type AdjustmentSource string

const (
	AdjustmentSourcePromotion AdjustmentSource = "promotion"
	AdjustmentSourceTax       AdjustmentSource = "tax"
	AdjustmentSourceManual    AdjustmentSource = "manual"
)

// Adjustment is an order level price change
type Adjustment struct {
	ID       string           `json:"id"`
	Label    string           `json:"label,omitempty"`
	Source   AdjustmentSource `json:"source"`
	Amount   decimal.Decimal  `json:"amount"`
	Eligible bool             `json:"eligible"`
}

// Address is a postal address as stored by the storefront
type Address struct {
	ID         string `json:"id,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	StateCode  string `json:"state_code,omitempty"`
	Zipcode    string `json:"zipcode,omitempty"`
	CountryISO string `json:"country_iso,omitempty"`
}

// IsCompleted reports whether the order went through checkout
func (o *Order) IsCompleted() bool {
	return o.CompletedAt != nil && !o.CompletedAt.IsZero()
}

// EligiblePromotions returns the promotion adjustments that apply to the order
func (o *Order) EligiblePromotions() []*Adjustment {
	return lo.Filter(o.Adjustments, func(a *Adjustment, _ int) bool {
		return a != nil && a.Source == AdjustmentSourcePromotion && a.Eligible
	})
}

// PromotionTotal is the absolute sum of eligible promotion amounts
func (o *Order) PromotionTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range o.EligiblePromotions() {
		total = total.Add(a.Amount)
	}
	return total.Abs()
}

// TaxAddress is the destination used for tax, ship address first
func (o *Order) TaxAddress() *Address {
	if o.ShipAddress != nil {
		return o.ShipAddress
	}
	return o.BillAddress
}

// CustomerCode identifies the buyer: the user id when present, else the email
func (o *Order) CustomerCode() string {
	if o.User != nil && o.User.ID != "" {
		return o.User.ID
	}
	if o.User != nil && o.User.Email != "" {
		return o.User.Email
	}
	return o.Email
}
