package testutil

import (
	"time"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// NewTestOrder returns a completed order with two items, one shipment, a
// promotion and a complete ship address.
func NewTestOrder() *order.Order {
	return &order.Order{
		ID:          "ord_1",
		Number:      "R123456789",
		Currency:    "USD",
		Email:       "buyer@example.com",
		CompletedAt: lo.ToPtr(time.Date(2024, time.February, 1, 18, 0, 0, 0, time.UTC)),
		User: &order.User{
			ID:    "usr_1",
			Email: "buyer@example.com",
		},
		LineItems: []*order.LineItem{
			{
				ID:       "li_1",
				SKU:      "SKU-1",
				Name:     "Ruby Mug",
				TaxCode:  "P0000000",
				Quantity: 2,
				Amount:   decimal.RequireFromString("20.00"),
			},
			{
				ID:         "li_2",
				SKU:        "SKU-2",
				Name:       "Go Tote",
				Quantity:   1,
				Amount:     decimal.RequireFromString("15.00"),
				PromoTotal: decimal.RequireFromString("-5.00"),
			},
		},
		Shipments: []*order.Shipment{
			{
				ID:             "shp_1",
				ShippingMethod: "UPS Ground",
				Cost:           decimal.RequireFromString("5.00"),
			},
		},
		Adjustments: []*order.Adjustment{
			{
				Source:   order.AdjustmentSourcePromotion,
				Amount:   decimal.RequireFromString("-5.00"),
				Eligible: true,
			},
		},
		ShipAddress: &order.Address{
			Address1:   "915 S Jackson St",
			City:       "Montgomery",
			StateCode:  "AL",
			Zipcode:    "36104",
			CountryISO: "US",
		},
	}
}

// NewTestRefund returns a refund for one unit of the first line item
func NewTestRefund() *order.Refund {
	return &order.Refund{
		ID:      "ref_1",
		OrderID: "ord_1",
		Amount:  decimal.RequireFromString("10.00"),
		Reason:  &order.RefundReason{ID: "rr_1", Name: "Damaged"},
		ReturnItems: []*order.ReturnItem{
			{
				ID:           "ri_1",
				LineItemID:   "li_1",
				Quantity:     1,
				PreTaxAmount: decimal.RequireFromString("10.00"),
			},
		},
	}
}
