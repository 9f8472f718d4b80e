package avatax_test

import (
	"strings"
	"testing"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/testutil"
	"github.com/flexprice/salestax/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinesForSale(t *testing.T) {
	o := testutil.NewTestOrder()

	lines := avatax.BuildLines(o, types.TaxDocumentTypeSalesInvoice, nil)
	require.Len(t, lines, 3)

	first := lines[0]
	assert.Equal(t, "li_1-LI", first.LineNo)
	assert.Equal(t, "SKU-1", first.ItemCode)
	assert.Equal(t, 2, first.Qty)
	assert.True(t, decimal.RequireFromString("20.00").Equal(first.Amount))
	assert.Equal(t, avatax.AddressCodeOrigin, first.OriginCode)
	assert.Equal(t, avatax.AddressCodeDestination, first.DestinationCode)
	assert.Equal(t, "P0000000", first.TaxCode)
	assert.True(t, first.Discounted)

	// line level promotions reduce the amount
	assert.Equal(t, "li_2-LI", lines[1].LineNo)
	assert.True(t, decimal.RequireFromString("10.00").Equal(lines[1].Amount))

	shipping := lines[2]
	assert.Equal(t, "shp_1-FR", shipping.LineNo)
	assert.Equal(t, 1, shipping.Qty)
	assert.Equal(t, avatax.DefaultShippingTaxCode, shipping.TaxCode)
	assert.Equal(t, "Shipping Charge", shipping.Description)
	assert.False(t, shipping.Discounted)
}

func TestBuildLinesWithoutPromotionsAreNotDiscounted(t *testing.T) {
	o := testutil.NewTestOrder()
	o.Adjustments = []*order.Adjustment{
		{Source: order.AdjustmentSourcePromotion, Amount: decimal.RequireFromString("-5"), Eligible: false},
		{Source: order.AdjustmentSourceManual, Amount: decimal.RequireFromString("-1"), Eligible: true},
	}

	lines := avatax.BuildLines(o, types.TaxDocumentTypeSalesOrder, nil)
	for _, line := range lines {
		assert.False(t, line.Discounted, line.LineNo)
	}
}

func TestBuildLinesForReturnItems(t *testing.T) {
	o := testutil.NewTestOrder()
	refund := testutil.NewTestRefund()

	lines := avatax.BuildLines(o, types.TaxDocumentTypeReturnInvoice, refund)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "ri_1-RA", line.LineNo)
	assert.Equal(t, "SKU-1", line.ItemCode)
	assert.Equal(t, 1, line.Qty)
	assert.True(t, decimal.RequireFromString("-10.00").Equal(line.Amount))
	assert.Equal(t, "P0000000", line.TaxCode)
	assert.Equal(t, "Ruby Mug", line.Description)
}

func TestBuildLinesForRefundWithoutItems(t *testing.T) {
	o := testutil.NewTestOrder()
	refund := testutil.NewTestRefund()
	refund.ReturnItems = nil

	lines := avatax.BuildLines(o, types.TaxDocumentTypeReturnOrder, refund)
	require.Len(t, lines, 1)
	assert.Equal(t, "ref_1-RA", lines[0].LineNo)
	assert.Equal(t, avatax.RefundItemCode, lines[0].ItemCode)
	assert.True(t, decimal.RequireFromString("-10.00").Equal(lines[0].Amount))
}

func TestBuildLinesTruncatesDescriptions(t *testing.T) {
	o := testutil.NewTestOrder()
	o.LineItems[0].Name = strings.Repeat("é", 300)

	lines := avatax.BuildLines(o, types.TaxDocumentTypeSalesOrder, nil)
	assert.Equal(t, avatax.MaxDescriptionLength, len([]rune(lines[0].Description)))
}
