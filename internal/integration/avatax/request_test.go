package avatax_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/preference"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/testutil"
	"github.com/flexprice/salestax/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func testSettings() *preference.Settings {
	return &preference.Settings{
		CompanyCode:    "TESTCO",
		TaxCalculation: true,
		DocumentCommit: true,
		Endpoint:       testutil.TestEndpoint,
		Account:        "1100000000",
		LicenseKey:     "KEY",
		ClientVersion:  types.DefaultAvataxClientVersion,
		Origin: &order.Address{
			Address1:   "100 Ravine Ln",
			City:       "Bainbridge Island",
			StateCode:  "WA",
			Zipcode:    "98110",
			CountryISO: "US",
		},
	}
}

func newBuilder() *avatax.RequestBuilder {
	return avatax.NewRequestBuilder(testSettings()).WithClock(func() time.Time { return fixedNow })
}

func TestBuildOrderRequest(t *testing.T) {
	o := testutil.NewTestOrder()

	req := newBuilder().BuildOrder(o, "", false)

	assert.Equal(t, "R123456789", req.DocCode)
	assert.Equal(t, "2024-02-01", req.DocDate)
	assert.Equal(t, types.TaxDocumentTypeSalesOrder, req.DocType)
	assert.False(t, req.Commit)
	assert.Equal(t, "5", req.Discount)
	assert.Equal(t, "usr_1", req.CustomerCode)
	assert.Equal(t, "TESTCO", req.CompanyCode)
	assert.Equal(t, types.DefaultAvataxClientVersion, req.Client)
	assert.Equal(t, "R123456789", req.ReferenceCode)
	assert.Equal(t, avatax.DetailLevelTax, req.DetailLevel)
	assert.Equal(t, "USD", req.CurrencyCode)
	assert.Empty(t, req.ExemptionNo)
	assert.Empty(t, req.BusinessIdentificationNo)
	assert.Nil(t, req.TaxOverride)
	assert.Len(t, req.Addresses, 2)
	assert.Len(t, req.Lines, 3)
}

func TestBuildOrderRequestForIncompleteOrderUsesToday(t *testing.T) {
	o := testutil.NewTestOrder()
	o.CompletedAt = nil

	req := newBuilder().BuildOrder(o, types.TaxDocumentTypeSalesInvoice, true)

	assert.Equal(t, "2024-03-15", req.DocDate)
	assert.Equal(t, types.TaxDocumentTypeSalesInvoice, req.DocType)
	assert.True(t, req.Commit)
}

func TestBuildOrderRequestDropsIncompleteAddresses(t *testing.T) {
	o := testutil.NewTestOrder()
	o.ShipAddress = &order.Address{Address1: "1 Nowhere", CountryISO: "US"}

	req := newBuilder().BuildOrder(o, "", false)

	require.Len(t, req.Addresses, 1)
	assert.Equal(t, avatax.AddressCodeOrigin, req.Addresses[0].AddressCode)
}

func TestBuildOrderRequestCustomerIdentifiers(t *testing.T) {
	o := testutil.NewTestOrder()
	o.User = &order.User{Email: "someone@example.com", ExemptionNumber: "EX-1", VatID: "  "}

	req := newBuilder().BuildOrder(o, "", false)
	assert.Equal(t, "someone@example.com", req.CustomerCode)
	assert.Equal(t, "EX-1", req.ExemptionNo)
	assert.Empty(t, req.BusinessIdentificationNo)

	o.User.VatID = "GB123456789"
	req = newBuilder().BuildOrder(o, "", false)
	assert.Equal(t, "GB123456789", req.BusinessIdentificationNo)

	o.User = nil
	req = newBuilder().BuildOrder(o, "", false)
	assert.Equal(t, "buyer@example.com", req.CustomerCode)
}

func TestBuildReturnRequest(t *testing.T) {
	o := testutil.NewTestOrder()
	refund := testutil.NewTestRefund()

	req := newBuilder().Build(o, types.TaxDocumentTypeReturnInvoice, refund, true)

	assert.Equal(t, "R123456789.ref_1", req.DocCode)
	assert.Equal(t, "2024-03-15", req.DocDate)
	assert.Equal(t, types.TaxDocumentTypeReturnInvoice, req.DocType)
	assert.True(t, req.Commit)
	assert.Empty(t, req.Discount)
	require.NotNil(t, req.TaxOverride)
	assert.Equal(t, avatax.TaxOverrideTypeTaxDate, req.TaxOverride.TaxOverrideType)
	assert.Equal(t, "Damaged", req.TaxOverride.Reason)
	assert.Equal(t, "2024-02-01", req.TaxOverride.TaxDate)
	require.Len(t, req.Lines, 1)
	assert.Equal(t, "ri_1-RA", req.Lines[0].LineNo)
}

func TestBuildReturnRequestReason(t *testing.T) {
	o := testutil.NewTestOrder()
	refund := testutil.NewTestRefund()

	refund.Reason = nil
	req := newBuilder().BuildReturn(o, types.TaxDocumentTypeReturnOrder, refund, false)
	assert.Equal(t, avatax.DefaultReturnReason, req.TaxOverride.Reason)

	refund.Reason = &order.RefundReason{Name: strings.Repeat("x", 400)}
	req = newBuilder().BuildReturn(o, types.TaxDocumentTypeReturnOrder, refund, false)
	assert.Len(t, req.TaxOverride.Reason, avatax.MaxReasonLength)
}

func TestBuildRoutesOnInvoiceTypeOnly(t *testing.T) {
	o := testutil.NewTestOrder()
	refund := testutil.NewTestRefund()

	// a refund alone does not make a return document
	req := newBuilder().Build(o, types.TaxDocumentTypeSalesInvoice, refund, false)
	assert.Equal(t, "R123456789", req.DocCode)
	assert.Nil(t, req.TaxOverride)

	req = newBuilder().Build(o, types.TaxDocumentTypeReturnOrder, refund, false)
	assert.Equal(t, "R123456789.ref_1", req.DocCode)
}

func TestGetTaxRequestWireFormat(t *testing.T) {
	o := testutil.NewTestOrder()
	req := newBuilder().BuildOrder(o, "", false)

	body, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))

	for _, key := range []string{
		"DocCode", "DocDate", "Discount", "Commit", "DocType", "Addresses", "Lines",
		"CustomerCode", "CompanyCode", "CustomerUsageType", "ExemptionNo", "Client",
		"ReferenceCode", "DetailLevel", "CurrencyCode",
	} {
		assert.Contains(t, wire, key)
	}
	assert.NotContains(t, wire, "BusinessIdentificationNo")
	assert.NotContains(t, wire, "TaxOverride")

	lines := wire["Lines"].([]any)
	assert.Equal(t, "20", lines[0].(map[string]any)["Amount"])
}
