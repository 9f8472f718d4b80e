package avatax

import (
	"strings"
	"time"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/preference"
	"github.com/flexprice/salestax/internal/types"
)

// RequestBuilder assembles tax documents from an order snapshot and a
// settings snapshot. The order must not be nil and return documents need a
// refund; callers check both before building.
type RequestBuilder struct {
	settings *preference.Settings
	now      func() time.Time
}

// NewRequestBuilder returns a builder reading company code, client version
// and origin address from settings.
func NewRequestBuilder(settings *preference.Settings) *RequestBuilder {
	return &RequestBuilder{
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for "today"
func (b *RequestBuilder) WithClock(now func() time.Time) *RequestBuilder {
	b.now = now
	return b
}

// Build routes on the invoice type alone: return types produce a return
// document, anything else an order document defaulting to SalesOrder.
func (b *RequestBuilder) Build(o *order.Order, invoiceType types.TaxDocumentType, refund *order.Refund, commit bool) *GetTaxRequest {
	if invoiceType.IsReturn() {
		return b.BuildReturn(o, invoiceType, refund, commit)
	}
	return b.BuildOrder(o, invoiceType, commit)
}

// BuildOrder builds a sales document coded with the order number
func (b *RequestBuilder) BuildOrder(o *order.Order, invoiceType types.TaxDocumentType, commit bool) *GetTaxRequest {
	if invoiceType == "" {
		invoiceType = types.TaxDocumentTypeSalesOrder
	}

	docDate := b.today()
	if o.IsCompleted() {
		docDate = o.CompletedAt.Format(DateLayout)
	}

	req := b.base(o)
	req.DocCode = o.Number
	req.DocDate = docDate
	req.Discount = o.PromotionTotal().String()
	req.Commit = commit
	req.DocType = invoiceType
	req.Addresses = FilterCompleteAddresses(BuildAddresses(o, b.settings.Origin))
	req.Lines = BuildLines(o, invoiceType, nil)
	return req
}

// BuildReturn builds a return document coded "{orderNumber}.{refundId}" with
// the tax date overridden to the original sale.
func (b *RequestBuilder) BuildReturn(o *order.Order, invoiceType types.TaxDocumentType, refund *order.Refund, commit bool) *GetTaxRequest {
	if invoiceType == "" {
		invoiceType = types.TaxDocumentTypeReturnOrder
	}

	req := b.base(o)
	req.DocCode = ReturnDocCode(o.Number, refund.ID)
	req.DocDate = b.today()
	req.Commit = commit
	req.DocType = invoiceType
	req.Addresses = FilterCompleteAddresses(BuildAddresses(o, b.settings.Origin))
	req.Lines = BuildLines(o, invoiceType, refund)
	req.TaxOverride = &TaxOverride{
		TaxOverrideType: TaxOverrideTypeTaxDate,
		Reason:          overrideReason(refund),
		TaxDate:         b.originalTaxDate(o),
	}
	return req
}

// ReturnDocCode is the document code of a return
func ReturnDocCode(orderNumber, refundID string) string {
	return orderNumber + "." + refundID
}

func (b *RequestBuilder) base(o *order.Order) *GetTaxRequest {
	req := &GetTaxRequest{
		CustomerCode:      o.CustomerCode(),
		CompanyCode:       b.settings.CompanyCode,
		CustomerUsageType: o.CustomerUsageType,
		Client:            b.settings.ClientVersion,
		ReferenceCode:     o.Number,
		DetailLevel:       DetailLevelTax,
		CurrencyCode:      o.Currency,
	}
	if o.User != nil {
		req.ExemptionNo = o.User.ExemptionNumber
		if vat := strings.TrimSpace(o.User.VatID); vat != "" {
			req.BusinessIdentificationNo = vat
		}
	}
	return req
}

func (b *RequestBuilder) today() string {
	return b.now().Format(DateLayout)
}

// originalTaxDate is the completion date of the order; an order that never
// completed is taxed as of today.
func (b *RequestBuilder) originalTaxDate(o *order.Order) string {
	if o.IsCompleted() {
		return o.CompletedAt.Format(DateLayout)
	}
	return b.today()
}

func overrideReason(refund *order.Refund) string {
	reason := refund.ReasonName()
	if reason == "" {
		return DefaultReturnReason
	}
	return truncate(reason, MaxReasonLength)
}
