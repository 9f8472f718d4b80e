package dto

import (
	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/types"
	"github.com/flexprice/salestax/internal/validator"
	"github.com/shopspring/decimal"
)

// TaxResult is the outcome of a quote or commit. Result is set only for
// TaxOutcomeSuccess; Reason only for TaxOutcomeZeroTax. TotalTax is empty for
// TaxOutcomeCommittingDisabled since nothing was quoted.
type TaxResult struct {
	Outcome  types.TaxOutcome        `json:"outcome"`
	Reason   types.TaxDegradedReason `json:"reason,omitempty"`
	TotalTax string                  `json:"total_tax,omitempty"`
	Result   *avatax.GetTaxResult    `json:"result,omitempty"`
}

// NewSuccessTaxResult wraps a service payload without altering it
func NewSuccessTaxResult(result *avatax.GetTaxResult) *TaxResult {
	return &TaxResult{
		Outcome:  types.TaxOutcomeSuccess,
		TotalTax: result.TotalTax.String(),
		Result:   result,
	}
}

// NewZeroTaxResult is the degraded result reporting no tax
func NewZeroTaxResult(reason types.TaxDegradedReason) *TaxResult {
	return &TaxResult{
		Outcome:  types.TaxOutcomeZeroTax,
		Reason:   reason,
		TotalTax: types.ZeroTaxTotal,
	}
}

// NewCommittingDisabledResult signals that a final commit was skipped
func NewCommittingDisabledResult() *TaxResult {
	return &TaxResult{
		Outcome: types.TaxOutcomeCommittingDisabled,
	}
}

func (r *TaxResult) IsSuccess() bool {
	return r != nil && r.Outcome == types.TaxOutcomeSuccess
}

func (r *TaxResult) IsZeroTax() bool {
	return r != nil && r.Outcome == types.TaxOutcomeZeroTax
}

func (r *TaxResult) IsCommittingDisabled() bool {
	return r != nil && r.Outcome == types.TaxOutcomeCommittingDisabled
}

// CancelTaxResult is the outcome of voiding an order's document
type CancelTaxResult struct {
	Outcome types.CancelOutcome     `json:"outcome"`
	Result  *avatax.CancelTaxResult `json:"result,omitempty"`
	Message string                  `json:"message,omitempty"`
}

func (r *CancelTaxResult) IsCancelled() bool {
	return r != nil && r.Outcome == types.CancelOutcomeCancelled
}

// TaxOrderRequest carries the order snapshot for lookup and commit calls
type TaxOrderRequest struct {
	Order       *order.Order          `json:"order" validate:"required"`
	InvoiceType types.TaxDocumentType `json:"invoice_type,omitempty"`
	Refund      *order.Refund         `json:"refund,omitempty"`
}

func (r *TaxOrderRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.InvoiceType != "" && !r.InvoiceType.Validate() {
		return ierr.NewErrorf("invalid invoice type %q", r.InvoiceType).
			WithHint("Invoice type must be one of SalesOrder, SalesInvoice, ReturnOrder or ReturnInvoice").
			WithReportableDetails(map[string]any{
				"invoice_type": r.InvoiceType,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreateTaxTransactionRequest registers an order with the tax service
type CreateTaxTransactionRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (r *CreateTaxTransactionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type TaxTransactionResponse struct {
	*taxtransaction.TaxTransaction
}

// ValidateAddressRequest wraps the address to normalize
type ValidateAddressRequest struct {
	Address *order.Address `json:"address" validate:"required"`
}

func (r *ValidateAddressRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// EstimateTaxRequest is bound from the query string. Missing coordinates
// mean there is nothing to estimate.
type EstimateTaxRequest struct {
	Latitude   *float64 `form:"latitude" json:"latitude,omitempty"`
	Longitude  *float64 `form:"longitude" json:"longitude,omitempty"`
	SaleAmount *string  `form:"sale_amount" json:"sale_amount,omitempty"`
}

// Coordinates returns nil unless both latitude and longitude are set
func (r *EstimateTaxRequest) Coordinates() *avatax.Coordinates {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &avatax.Coordinates{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}
}

// Amount parses the sale amount; a missing amount is nil
func (r *EstimateTaxRequest) Amount() (*decimal.Decimal, error) {
	if r.SaleAmount == nil || *r.SaleAmount == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(*r.SaleAmount)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Sale amount must be a decimal number").
			WithReportableDetails(map[string]any{
				"sale_amount": *r.SaleAmount,
			}).
			Mark(ierr.ErrValidation)
	}
	return &amount, nil
}

// EstimateTaxResponse is nil-result safe: Result is empty when nothing was
// estimated.
type EstimateTaxResponse struct {
	Result *avatax.EstimateTaxResult `json:"result,omitempty"`
}

type PingResponse struct {
	Success bool                      `json:"success"`
	Result  *avatax.EstimateTaxResult `json:"result,omitempty"`
}
