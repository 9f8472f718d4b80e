package service

import (
	"context"
	"time"

	"github.com/flexprice/salestax/internal/api/dto"
	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/preference"
	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/types"
	"github.com/shopspring/decimal"
)

// TaxTransactionService is the order facing entry point to the tax service.
// Every tax call takes the settings snapshot it should run with. Quote and
// commit calls never fail because the tax service did: they fall back to the
// zero tax result instead.
type TaxTransactionService interface {
	// Tax document lifecycle
	LookupTax(ctx context.Context, settings *preference.Settings, o *order.Order) (*dto.TaxResult, error)
	CommitTax(ctx context.Context, settings *preference.Settings, o *order.Order, invoiceType types.TaxDocumentType, refund *order.Refund) (*dto.TaxResult, error)
	CommitTaxFinal(ctx context.Context, settings *preference.Settings, o *order.Order, invoiceType types.TaxDocumentType, refund *order.Refund) (*dto.TaxResult, error)
	CancelOrderTax(ctx context.Context, settings *preference.Settings, o *order.Order) (*dto.CancelTaxResult, error)

	// Transaction records
	CreateTransaction(ctx context.Context, req dto.CreateTaxTransactionRequest) (*dto.TaxTransactionResponse, error)
	GetTransaction(ctx context.Context, id string) (*dto.TaxTransactionResponse, error)
	GetTransactionByOrderID(ctx context.Context, orderID string) (*dto.TaxTransactionResponse, error)
	EnsureTransaction(ctx context.Context, orderID string) (*dto.TaxTransactionResponse, error)

	// Address and rate helpers
	ValidateAddress(ctx context.Context, settings *preference.Settings, address *order.Address) (*avatax.ValidateAddressResult, error)
	EstimateTax(ctx context.Context, settings *preference.Settings, coordinates *avatax.Coordinates, saleAmount *decimal.Decimal) (*avatax.EstimateTaxResult, error)
	Ping(ctx context.Context, settings *preference.Settings) (*dto.PingResponse, error)
}

type taxTransactionService struct {
	ServiceParams
	now func() time.Time
}

func NewTaxTransactionService(params ServiceParams) TaxTransactionService {
	return &taxTransactionService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// LookupTax quotes the order as a SalesOrder without committing. It does
// not look at the feature toggles.
func (s *taxTransactionService) LookupTax(ctx context.Context, settings *preference.Settings, o *order.Order) (*dto.TaxResult, error) {
	if err := validateTaxCall(settings, o); err != nil {
		return nil, err
	}

	req := s.requestBuilder(settings).BuildOrder(o, types.TaxDocumentTypeSalesOrder, false)
	return s.postTax(ctx, settings, req), nil
}

// CommitTax quotes a sale or a return without committing. The order's
// transaction record is created once the document is about to be posted.
func (s *taxTransactionService) CommitTax(ctx context.Context, settings *preference.Settings, o *order.Order, invoiceType types.TaxDocumentType, refund *order.Refund) (*dto.TaxResult, error) {
	if err := validateTaxCall(settings, o); err != nil {
		return nil, err
	}

	if !settings.TaxCalculation {
		s.Logger.Debugw("tax calculation disabled, skipping commit", "order_number", o.Number)
		return dto.NewZeroTaxResult(types.TaxDegradedReasonCalculationDisabled), nil
	}

	if err := validateRefund(invoiceType, refund); err != nil {
		return nil, err
	}

	if _, err := s.EnsureTransaction(ctx, o.ID); err != nil {
		return nil, err
	}

	req := s.requestBuilder(settings).Build(o, invoiceType, refund, false)
	return s.postTax(ctx, settings, req), nil
}

// CommitTaxFinal posts the document as committed. Committing has to be
// switched on before calculation is even considered.
func (s *taxTransactionService) CommitTaxFinal(ctx context.Context, settings *preference.Settings, o *order.Order, invoiceType types.TaxDocumentType, refund *order.Refund) (*dto.TaxResult, error) {
	if err := validateTaxCall(settings, o); err != nil {
		return nil, err
	}

	if !settings.DocumentCommit {
		s.Logger.Debugw("avalara document committing disabled", "order_number", o.Number)
		return dto.NewCommittingDisabledResult(), nil
	}

	if !settings.TaxCalculation {
		s.Logger.Debugw("tax calculation disabled, skipping final commit", "order_number", o.Number)
		return dto.NewZeroTaxResult(types.TaxDegradedReasonCalculationDisabled), nil
	}

	if err := validateRefund(invoiceType, refund); err != nil {
		return nil, err
	}

	if _, err := s.EnsureTransaction(ctx, o.ID); err != nil {
		return nil, err
	}

	req := s.requestBuilder(settings).Build(o, invoiceType, refund, true)
	return s.postTax(ctx, settings, req), nil
}

// CancelOrderTax voids the order's SalesInvoice. It returns nil when tax
// calculation is disabled. A refused or failed cancel is reported through
// the result, not the error.
func (s *taxTransactionService) CancelOrderTax(ctx context.Context, settings *preference.Settings, o *order.Order) (*dto.CancelTaxResult, error) {
	if err := validateTaxCall(settings, o); err != nil {
		return nil, err
	}

	if !settings.TaxCalculation {
		return nil, nil
	}

	s.Logger.Infow("cancel order to avalara", "order_number", o.Number)

	result, err := s.AvataxClient.CancelTax(ctx, settings, &avatax.CancelTaxRequest{
		CompanyCode: settings.CompanyCode,
		DocType:     types.TaxDocumentTypeSalesInvoice,
		DocCode:     o.Number,
		CancelCode:  avatax.CancelCodeDocVoided,
	})
	if err != nil {
		s.Logger.Warnw("failed to cancel order tax", "order_number", o.Number, "error", err)
		s.Sentry.CaptureException(ctx, err, map[string]string{
			"operation":    "cancel_tax",
			"order_number": o.Number,
		})
		return &dto.CancelTaxResult{
			Outcome: types.CancelOutcomeFailed,
			Message: ierr.ErrTaxCancel.Message,
		}, nil
	}

	return &dto.CancelTaxResult{
		Outcome: types.CancelOutcomeCancelled,
		Result:  result,
	}, nil
}

// postTax performs the single GetTax call and folds any failure into the
// zero tax result.
func (s *taxTransactionService) postTax(ctx context.Context, settings *preference.Settings, req *avatax.GetTaxRequest) *dto.TaxResult {
	s.Logger.Infow("post order to avalara",
		"doc_code", req.DocCode,
		"doc_type", req.DocType,
		"commit", req.Commit)

	result, err := s.AvataxClient.GetTax(ctx, settings, req)
	if err != nil {
		s.Logger.Warnw("tax service call failed, falling back to zero tax",
			"doc_code", req.DocCode,
			"error", err)
		s.Sentry.CaptureException(ctx, err, map[string]string{
			"operation": "get_tax",
			"doc_code":  req.DocCode,
			"doc_type":  string(req.DocType),
		})
		return dto.NewZeroTaxResult(types.TaxDegradedReasonServiceError)
	}

	s.Sentry.AddBreadcrumb("tax", "tax document posted", map[string]interface{}{
		"doc_code":  req.DocCode,
		"doc_type":  string(req.DocType),
		"commit":    req.Commit,
		"total_tax": result.TotalTax.String(),
	})
	return dto.NewSuccessTaxResult(result)
}

func (s *taxTransactionService) requestBuilder(settings *preference.Settings) *avatax.RequestBuilder {
	return avatax.NewRequestBuilder(settings).WithClock(s.now)
}

func validateTaxCall(settings *preference.Settings, o *order.Order) error {
	if settings == nil {
		return ierr.NewError("settings are required").
			WithHint("Tax settings could not be loaded").
			Mark(ierr.ErrValidation)
	}
	if o == nil {
		return ierr.NewError("order is required").
			WithHint("An order is required to calculate tax").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateRefund(invoiceType types.TaxDocumentType, refund *order.Refund) error {
	if invoiceType.IsReturn() && refund == nil {
		return ierr.NewErrorf("refund is required for %s", invoiceType).
			WithHint("A refund is required to post a return").
			WithReportableDetails(map[string]any{
				"invoice_type": invoiceType,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreateTransaction records that an order was submitted. A second record
// for the same order is rejected by the repository.
func (s *taxTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTaxTransactionRequest) (*dto.TaxTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn := taxtransaction.New(ctx, req.OrderID)
	if err := s.TaxTransactionRepo.Create(ctx, txn); err != nil {
		if ierr.IsAlreadyExists(err) {
			s.Logger.Infow("tax transaction already exists", "order_id", req.OrderID)
		} else {
			s.Logger.Errorw("failed to create tax transaction", "order_id", req.OrderID, "error", err)
		}
		return nil, err
	}

	return &dto.TaxTransactionResponse{TaxTransaction: txn}, nil
}

func (s *taxTransactionService) GetTransaction(ctx context.Context, id string) (*dto.TaxTransactionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tax_transaction_id is required").
			WithHint("Tax transaction ID is required").
			Mark(ierr.ErrValidation)
	}

	txn, err := s.TaxTransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TaxTransactionResponse{TaxTransaction: txn}, nil
}

func (s *taxTransactionService) GetTransactionByOrderID(ctx context.Context, orderID string) (*dto.TaxTransactionResponse, error) {
	if orderID == "" {
		return nil, ierr.NewError("order_id is required").
			WithHint("Order ID is required").
			Mark(ierr.ErrValidation)
	}

	txn, err := s.TaxTransactionRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &dto.TaxTransactionResponse{TaxTransaction: txn}, nil
}

// EnsureTransaction returns the order's record, creating it on first use. A
// concurrent creator losing the insert race reads the winner's record.
func (s *taxTransactionService) EnsureTransaction(ctx context.Context, orderID string) (*dto.TaxTransactionResponse, error) {
	existing, err := s.GetTransactionByOrderID(ctx, orderID)
	if err == nil {
		return existing, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	created, err := s.CreateTransaction(ctx, dto.CreateTaxTransactionRequest{OrderID: orderID})
	if ierr.IsAlreadyExists(err) {
		return s.GetTransactionByOrderID(ctx, orderID)
	}
	return created, err
}

// ValidateAddress normalizes an address. The service result is returned as
// is; only a failed call is an error.
func (s *taxTransactionService) ValidateAddress(ctx context.Context, settings *preference.Settings, address *order.Address) (*avatax.ValidateAddressResult, error) {
	if settings == nil || address == nil {
		return nil, ierr.NewError("address is required").
			WithHint("An address is required for validation").
			Mark(ierr.ErrValidation)
	}

	result, err := s.AvataxClient.ValidateAddress(ctx, settings, address)
	if err != nil {
		s.Sentry.CaptureException(ctx, err, map[string]string{
			"operation": "validate_address",
		})
		return nil, err
	}
	return result, nil
}

// EstimateTax returns the rate at a point. Nothing is estimated while tax
// calculation is disabled or without coordinates; a missing sale amount is
// zero.
func (s *taxTransactionService) EstimateTax(ctx context.Context, settings *preference.Settings, coordinates *avatax.Coordinates, saleAmount *decimal.Decimal) (*avatax.EstimateTaxResult, error) {
	if settings == nil {
		return nil, ierr.NewError("settings are required").
			WithHint("Tax settings could not be loaded").
			Mark(ierr.ErrValidation)
	}

	if !settings.TaxCalculation || coordinates == nil {
		return nil, nil
	}

	amount := decimal.Zero
	if saleAmount != nil {
		amount = *saleAmount
	}

	return s.AvataxClient.EstimateTax(ctx, settings, *coordinates, amount)
}

// Ping checks connectivity with a zero amount estimate at a fixed point
func (s *taxTransactionService) Ping(ctx context.Context, settings *preference.Settings) (*dto.PingResponse, error) {
	result, err := s.EstimateTax(ctx, settings, &avatax.Coordinates{
		Latitude:  avatax.PingLatitude,
		Longitude: avatax.PingLongitude,
	}, nil)
	if err != nil {
		s.Logger.Infow("ping failed", "error", err)
		return nil, err
	}

	return &dto.PingResponse{
		Success: result != nil && result.ResultCode == avatax.ResultCodeSuccess,
		Result:  result,
	}, nil
}
