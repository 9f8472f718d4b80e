package v1

import (
	"net/http"

	"github.com/flexprice/salestax/internal/api/dto"
	"github.com/flexprice/salestax/internal/domain/preference"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/service"
	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	service     service.TaxTransactionService
	preferences service.PreferenceService
	logger      *logger.Logger
}

func NewTaxHandler(service service.TaxTransactionService, preferences service.PreferenceService, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		service:     service,
		preferences: preferences,
		logger:      logger,
	}
}

// settings loads the snapshot a single request runs with
func (h *TaxHandler) settings(c *gin.Context) (*preference.Settings, bool) {
	settings, err := h.preferences.GetSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return nil, false
	}
	return settings, true
}

func (h *TaxHandler) bindOrderRequest(c *gin.Context) (*dto.TaxOrderRequest, bool) {
	var req dto.TaxOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return nil, false
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return nil, false
	}
	return &req, true
}

// @Summary Create a tax transaction
// @Description Record that an order was submitted to the tax service
// @Tags Tax
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTaxTransactionRequest true "Order to record"
// @Success 201 {object} dto.TaxTransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /tax/transactions [post]
func (h *TaxHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTaxTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a tax transaction
// @Tags Tax
// @Produce json
// @Param id path string true "Tax transaction ID"
// @Success 200 {object} dto.TaxTransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tax/transactions/{id} [get]
func (h *TaxHandler) GetTransaction(c *gin.Context) {
	resp, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get the tax transaction of an order
// @Tags Tax
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.TaxTransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tax/orders/{order_id}/transaction [get]
func (h *TaxHandler) GetOrderTransaction(c *gin.Context) {
	resp, err := h.service.GetTransactionByOrderID(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Quote tax for an order
// @Description Quotes the order as an uncommitted SalesOrder
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.TaxOrderRequest true "Order snapshot"
// @Success 200 {object} dto.TaxResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tax/lookup [post]
func (h *TaxHandler) LookupTax(c *gin.Context) {
	req, ok := h.bindOrderRequest(c)
	if !ok {
		return
	}

	settings, ok := h.settings(c)
	if !ok {
		return
	}

	resp, err := h.service.LookupTax(c.Request.Context(), settings, req.Order)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Commit tax for an order
// @Description Quotes a sale or a return without committing the document. The order is recorded once the document is posted.
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.TaxOrderRequest true "Order snapshot, invoice type and refund"
// @Success 200 {object} dto.TaxResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tax/commit [post]
func (h *TaxHandler) CommitTax(c *gin.Context) {
	req, ok := h.bindOrderRequest(c)
	if !ok {
		return
	}

	settings, ok := h.settings(c)
	if !ok {
		return
	}

	resp, err := h.service.CommitTax(c.Request.Context(), settings, req.Order, req.InvoiceType, req.Refund)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Final commit of tax for an order
// @Description Posts the document as committed when document committing is enabled
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.TaxOrderRequest true "Order snapshot, invoice type and refund"
// @Success 200 {object} dto.TaxResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tax/commit/final [post]
func (h *TaxHandler) CommitTaxFinal(c *gin.Context) {
	req, ok := h.bindOrderRequest(c)
	if !ok {
		return
	}

	settings, ok := h.settings(c)
	if !ok {
		return
	}

	resp, err := h.service.CommitTaxFinal(c.Request.Context(), settings, req.Order, req.InvoiceType, req.Refund)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel tax for an order
// @Description Voids the order's SalesInvoice. Responds 204 when tax calculation is disabled.
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.TaxOrderRequest true "Order snapshot"
// @Success 200 {object} dto.CancelTaxResult
// @Success 204
// @Router /tax/cancel [post]
func (h *TaxHandler) CancelOrderTax(c *gin.Context) {
	req, ok := h.bindOrderRequest(c)
	if !ok {
		return
	}

	settings, ok := h.settings(c)
	if !ok {
		return
	}

	resp, err := h.service.CancelOrderTax(c.Request.Context(), settings, req.Order)
	if err != nil {
		c.Error(err)
		return
	}

	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Validate an address
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.ValidateAddressRequest true "Address"
// @Success 200 {object} avatax.ValidateAddressResult
// @Failure 502 {object} ierr.ErrorResponse
// @Router /tax/addresses/validate [post]
func (h *TaxHandler) ValidateAddress(c *gin.Context) {
	var req dto.ValidateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	settings, ok := h.settings(c)
	if !ok {
		return
	}

	resp, err := h.service.ValidateAddress(c.Request.Context(), settings, req.Address)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Estimate tax at a location
// @Tags Tax
// @Produce json
// @Param filter query dto.EstimateTaxRequest true "Coordinates and sale amount"
// @Success 200 {object} dto.EstimateTaxResponse
// @Router /tax/estimate [get]
func (h *TaxHandler) EstimateTax(c *gin.Context) {
	var req dto.EstimateTaxRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	amount, err := req.Amount()
	if err != nil {
		c.Error(err)
		return
	}

	settings, ok := h.settings(c)
	if !ok {
		return
	}

	result, err := h.service.EstimateTax(c.Request.Context(), settings, req.Coordinates(), amount)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, &dto.EstimateTaxResponse{Result: result})
}

// @Summary Ping the tax service
// @Tags Tax
// @Produce json
// @Success 200 {object} dto.PingResponse
// @Router /tax/ping [get]
func (h *TaxHandler) Ping(c *gin.Context) {
	settings, ok := h.settings(c)
	if !ok {
		return
	}

	resp, err := h.service.Ping(c.Request.Context(), settings)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
