package avatax

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flexprice/salestax/internal/config"
	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/preference"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/httpclient"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/shopspring/decimal"
)

// Client performs the tax service calls. Each call is a single attempt
// bounded by the configured timeout. Failures never leak transport errors:
// they come back marked with ierr.ErrTaxService, ierr.ErrTaxCancel or
// ierr.ErrAddressValidation.
type Client interface {
	GetTax(ctx context.Context, settings *preference.Settings, req *GetTaxRequest) (*GetTaxResult, error)
	CancelTax(ctx context.Context, settings *preference.Settings, req *CancelTaxRequest) (*CancelTaxResult, error)
	ValidateAddress(ctx context.Context, settings *preference.Settings, address *order.Address) (*ValidateAddressResult, error)
	EstimateTax(ctx context.Context, settings *preference.Settings, coordinates Coordinates, saleAmount decimal.Decimal) (*EstimateTaxResult, error)
}

type client struct {
	httpClient httpclient.Client
	timeout    time.Duration
	logger     *logger.Logger
}

// NewClient creates a tax service client on top of httpClient
func NewClient(httpClient httpclient.Client, cfg *config.Configuration, log *logger.Logger) Client {
	return &client{
		httpClient: httpClient,
		timeout:    cfg.Avatax.Timeout,
		logger:     log.With("component", "tax_service"),
	}
}

// GetTax posts a tax document. Anything but ResultCode "Success" is a failure.
func (c *client) GetTax(ctx context.Context, settings *preference.Settings, req *GetTaxRequest) (*GetTaxResult, error) {
	c.logger.Infow("get_tax call", "doc_code", req.DocCode, "doc_type", req.DocType, "commit", req.Commit)

	body, err := c.post(ctx, settings, serviceURL(settings, ServicePathTax, operationGetTax), req)
	if err != nil {
		c.logger.Infow("rest client error", "doc_code", req.DocCode, "error", err)
		return nil, ierr.WithError(err).
			WithHint("Tax service could not be reached").
			WithReportableDetails(map[string]any{
				"doc_code": req.DocCode,
			}).
			Mark(ierr.ErrTaxService)
	}

	var result GetTaxResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Infow("malformed tax service response", "doc_code", req.DocCode, "error", err)
		return nil, ierr.WithError(err).
			WithHint("Tax service returned an unreadable response").
			Mark(ierr.ErrTaxService)
	}

	if !result.IsSuccess() {
		c.logger.Infow("avatax error",
			"doc_code", req.DocCode,
			"result_code", result.ResultCode,
			"details", FirstMessageDetails(result.Messages))
		return nil, ierr.NewErrorf("tax service returned result code %q", result.ResultCode).
			WithHint("Tax service rejected the document").
			WithReportableDetails(map[string]any{
				"doc_code":    req.DocCode,
				"result_code": result.ResultCode,
			}).
			Mark(ierr.ErrTaxService)
	}

	c.logger.Infow("tax result", "doc_code", req.DocCode, "total_tax", result.TotalTax)
	return &result, nil
}

// CancelTax voids a document
func (c *client) CancelTax(ctx context.Context, settings *preference.Settings, req *CancelTaxRequest) (*CancelTaxResult, error) {
	c.logger.Infow("cancel_tax call", "doc_code", req.DocCode, "doc_type", req.DocType)

	body, err := c.post(ctx, settings, serviceURL(settings, ServicePathTax, operationCancel), req)
	if err != nil {
		c.logger.Infow("rest client error", "doc_code", req.DocCode, "error", err)
		return nil, ierr.WithError(err).
			WithHint("Tax service could not be reached").
			Mark(ierr.ErrTaxCancel)
	}

	var resp CancelTaxResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.CancelTaxResult == nil {
		if err == nil {
			err = fmt.Errorf("response has no CancelTaxResult")
		}
		return nil, ierr.WithError(err).
			WithHint("Tax service returned an unreadable response").
			Mark(ierr.ErrTaxCancel)
	}

	result := resp.CancelTaxResult
	if !result.IsSuccess() {
		c.logger.Infow(fmt.Sprintf("avatax error: order #%s", FirstMessageDetails(result.Messages)),
			"doc_code", req.DocCode,
			"result_code", result.ResultCode)
		return nil, ierr.NewErrorf("cancel returned result code %q", result.ResultCode).
			WithHint("Tax service refused to cancel the document").
			WithReportableDetails(map[string]any{
				"doc_code":    req.DocCode,
				"result_code": result.ResultCode,
			}).
			Mark(ierr.ErrTaxCancel)
	}

	return result, nil
}

// ValidateAddress asks the service to normalize an address. The parsed body
// is returned whatever its result code; only transport and decoding failures
// are errors.
func (c *client) ValidateAddress(ctx context.Context, settings *preference.Settings, address *order.Address) (*ValidateAddressResult, error) {
	c.logger.Infow("validate_address call")

	u := serviceURL(settings, ServicePathAddress, operationValidate) + "?" + ValidationQuery(address).Encode()
	body, err := c.get(ctx, settings, u)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessagef("error in address validation: %v", err).
			WithHint("Address could not be validated").
			Mark(ierr.ErrAddressValidation)
	}

	var result ValidateAddressResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ierr.WithError(err).
			WithMessagef("error in address validation: %v", err).
			WithHint("Address could not be validated").
			Mark(ierr.ErrAddressValidation)
	}
	return &result, nil
}

// EstimateTax returns the rate at a point for a sale amount
func (c *client) EstimateTax(ctx context.Context, settings *preference.Settings, coordinates Coordinates, saleAmount decimal.Decimal) (*EstimateTaxResult, error) {
	c.logger.Infow("estimate_tax call")

	u := serviceURL(settings, ServicePathTax, estimatePath(coordinates)) +
		"?" + url.Values{"saleamount": []string{saleAmount.String()}}.Encode()
	body, err := c.get(ctx, settings, u)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tax estimate failed").
			Mark(ierr.ErrTaxService)
	}

	var result EstimateTaxResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tax service returned an unreadable response").
			Mark(ierr.ErrTaxService)
	}
	return &result, nil
}

func (c *client) post(ctx context.Context, settings *preference.Settings, u string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	c.logger.Debugw("request body", "url", u, "body", string(body))
	return c.send(ctx, settings, http.MethodPost, u, body)
}

func (c *client) get(ctx context.Context, settings *preference.Settings, u string) ([]byte, error) {
	c.logger.Debugw("request", "url", u)
	return c.send(ctx, settings, http.MethodGet, u, nil)
}

// send performs exactly one request and logs the raw response for audit
func (c *client) send(ctx context.Context, settings *preference.Settings, method, u string, body []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.httpClient.Send(ctx, &httpclient.Request{
		Method: method,
		URL:    u,
		Headers: map[string]string{
			"Authorization": Credential(settings.Account, settings.LicenseKey),
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		},
		Body: body,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			c.logger.Debugw("raw response",
				"url", u,
				"status_code", httpErr.StatusCode,
				"body", string(httpErr.Response))
		}
		return nil, err
	}

	c.logger.Debugw("raw response", "url", u, "status_code", resp.StatusCode, "body", string(resp.Body))
	return resp.Body, nil
}

// Credential is the HTTP Basic authorization value for account:licenseKey
func Credential(account, licenseKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(account+":"+licenseKey))
}

func serviceURL(settings *preference.Settings, servicePath, operation string) string {
	return strings.TrimRight(settings.Endpoint, "/") + servicePath + operation
}

func estimatePath(c Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64) + "/get"
}
