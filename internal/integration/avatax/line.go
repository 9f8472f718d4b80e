package avatax

import (
	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/types"
	"github.com/samber/lo"
)

// BuildLines maps an order to taxable lines. Return documents carry only the
// refunded lines; every other document carries item and shipping lines.
func BuildLines(o *order.Order, docType types.TaxDocumentType, refund *order.Refund) []*Line {
	if docType.IsReturn() {
		return returnLines(o, refund)
	}
	return append(itemLines(o), shippingLines(o)...)
}

func itemLines(o *order.Order) []*Line {
	discounted := len(o.EligiblePromotions()) > 0
	items := lo.Compact(o.LineItems)

	return lo.Map(items, func(li *order.LineItem, _ int) *Line {
		return &Line{
			LineNo:            li.ID + lineSuffixItem,
			ItemCode:          li.SKU,
			Qty:               li.Quantity,
			Amount:            li.DiscountedAmount(),
			OriginCode:        AddressCodeOrigin,
			DestinationCode:   AddressCodeDestination,
			Description:       truncate(li.Name, MaxDescriptionLength),
			TaxCode:           li.TaxCode,
			CustomerUsageType: o.CustomerUsageType,
			Discounted:        discounted,
		}
	})
}

func shippingLines(o *order.Order) []*Line {
	shipments := lo.Compact(o.Shipments)

	return lo.Map(shipments, func(s *order.Shipment, _ int) *Line {
		return &Line{
			LineNo:            s.ID + lineSuffixShipping,
			ItemCode:          s.ShippingMethod,
			Qty:               1,
			Amount:            s.DiscountedCost(),
			OriginCode:        AddressCodeOrigin,
			DestinationCode:   AddressCodeDestination,
			Description:       "Shipping Charge",
			TaxCode:           lo.Ternary(s.TaxCode != "", s.TaxCode, DefaultShippingTaxCode),
			CustomerUsageType: o.CustomerUsageType,
		}
	})
}

// returnLines emits one negative line per returned item, or a single refund
// line for the refunded amount when no items were returned.
func returnLines(o *order.Order, refund *order.Refund) []*Line {
	if refund == nil {
		return []*Line{}
	}

	items := lo.Compact(refund.ReturnItems)
	if len(items) == 0 {
		return []*Line{{
			LineNo:            refund.ID + lineSuffixReturn,
			ItemCode:          RefundItemCode,
			Qty:               1,
			Amount:            refund.Amount.Abs().Neg(),
			OriginCode:        AddressCodeOrigin,
			DestinationCode:   AddressCodeDestination,
			Description:       RefundItemCode,
			CustomerUsageType: o.CustomerUsageType,
		}}
	}

	lineItems := lo.SliceToMap(lo.Compact(o.LineItems), func(li *order.LineItem) (string, *order.LineItem) {
		return li.ID, li
	})

	return lo.Map(items, func(ri *order.ReturnItem, _ int) *Line {
		line := &Line{
			LineNo:            ri.ID + lineSuffixReturn,
			ItemCode:          ri.SKU,
			Qty:               ri.Quantity,
			Amount:            ri.PreTaxAmount.Abs().Neg(),
			OriginCode:        AddressCodeOrigin,
			DestinationCode:   AddressCodeDestination,
			Description:       "ReturnItem",
			CustomerUsageType: o.CustomerUsageType,
		}
		if li, ok := lineItems[ri.LineItemID]; ok {
			line.ItemCode = lo.Ternary(line.ItemCode != "", line.ItemCode, li.SKU)
			line.TaxCode = li.TaxCode
			line.Description = truncate(li.Name, MaxDescriptionLength)
		}
		return line
	})
}

// truncate cuts s to at most max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
