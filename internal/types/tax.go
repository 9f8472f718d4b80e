package types

import (
	"github.com/samber/lo"
)

// TaxDocumentType is the document type understood by the tax service
type TaxDocumentType string

const (
	TaxDocumentTypeSalesOrder    TaxDocumentType = "SalesOrder"
	TaxDocumentTypeSalesInvoice  TaxDocumentType = "SalesInvoice"
	TaxDocumentTypeReturnOrder   TaxDocumentType = "ReturnOrder"
	TaxDocumentTypeReturnInvoice TaxDocumentType = "ReturnInvoice"
)

// IsReturn reports whether documents of this type are built as returns
func (t TaxDocumentType) IsReturn() bool {
	return lo.Contains([]TaxDocumentType{
		TaxDocumentTypeReturnInvoice,
		TaxDocumentTypeReturnOrder,
	}, t)
}

func (t TaxDocumentType) Validate() bool {
	return lo.Contains([]TaxDocumentType{
		TaxDocumentTypeSalesOrder,
		TaxDocumentTypeSalesInvoice,
		TaxDocumentTypeReturnOrder,
		TaxDocumentTypeReturnInvoice,
	}, t)
}

// TaxOutcome discriminates the result of a quote or commit call
type TaxOutcome string

const (
	// TaxOutcomeSuccess carries the tax service payload
	TaxOutcomeSuccess TaxOutcome = "success"
	// TaxOutcomeZeroTax is the degraded result reporting zero tax
	TaxOutcomeZeroTax TaxOutcome = "zero_tax"
	// TaxOutcomeCommittingDisabled is returned by a final commit when
	// document committing is switched off
	TaxOutcomeCommittingDisabled TaxOutcome = "committing_disabled"
)

// TaxDegradedReason explains a zero tax outcome
type TaxDegradedReason string

const (
	TaxDegradedReasonCalculationDisabled TaxDegradedReason = "tax_calculation_disabled"
	TaxDegradedReasonServiceError        TaxDegradedReason = "tax_service_error"
)

// CancelOutcome discriminates the result of a cancel call
type CancelOutcome string

const (
	CancelOutcomeCancelled CancelOutcome = "cancelled"
	CancelOutcomeFailed    CancelOutcome = "failed"
)

const (
	// ZeroTaxTotal is the TotalTax reported by the degraded result
	ZeroTaxTotal = "0.00"

	// DefaultAvataxClientVersion is the client tag sent when none is configured
	DefaultAvataxClientVersion = "a0o33000004FH8l"
)
