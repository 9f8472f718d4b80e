package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexprice/salestax/internal/api"
	"github.com/flexprice/salestax/internal/api/dto"
	v1 "github.com/flexprice/salestax/internal/api/v1"
	"github.com/flexprice/salestax/internal/domain/preference"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/service"
	"github.com/flexprice/salestax/internal/testutil"
	"github.com/flexprice/salestax/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type TaxHandlerSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestTaxHandler(t *testing.T) {
	suite.Run(t, new(TaxHandlerSuite))
}

func (s *TaxHandlerSuite) SetupSuite() {
	s.BaseServiceTestSuite.SetupSuite()
	gin.SetMode(gin.TestMode)
}

func (s *TaxHandlerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := service.ServiceParams{
		Logger:             s.GetLogger(),
		Config:             s.GetConfig(),
		Cache:              s.GetCache(),
		Sentry:             s.GetSentry(),
		TaxTransactionRepo: s.GetStores().TaxTransactionRepo,
		PreferenceRepo:     s.GetStores().PreferenceRepo,
		AvataxClient:       s.GetAvataxClient(),
	}
	preferences := service.NewPreferenceService(params)
	taxes := service.NewTaxTransactionService(params)

	s.router = api.NewRouter(api.Handlers{
		Health:     v1.NewHealthHandler(s.GetLogger()),
		Tax:        v1.NewTaxHandler(taxes, preferences, s.GetLogger()),
		Preference: v1.NewPreferenceHandler(preferences, s.GetLogger()),
	}, s.GetConfig(), s.GetLogger())
}

func (s *TaxHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TaxHandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *TaxHandlerSuite) disable(key string) {
	w := s.do(http.MethodPut, "/v1/tax/preferences/"+key, dto.UpdatePreferenceRequest{Value: "false"})
	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *TaxHandlerSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)

	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(types.HeaderRequestID))
}

func (s *TaxHandlerSuite) TestCreateTransaction() {
	w := s.do(http.MethodPost, "/v1/tax/transactions", dto.CreateTaxTransactionRequest{OrderID: "ord_1"})
	s.Equal(http.StatusCreated, w.Code)

	var created dto.TaxTransactionResponse
	s.decode(w, &created)
	s.Equal("ord_1", created.OrderID)

	w = s.do(http.MethodPost, "/v1/tax/transactions", dto.CreateTaxTransactionRequest{OrderID: "ord_1"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/v1/tax/transactions/"+created.ID, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/v1/tax/orders/ord_1/transaction", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *TaxHandlerSuite) TestCreateTransactionValidation() {
	w := s.do(http.MethodPost, "/v1/tax/transactions", map[string]any{})
	s.Equal(http.StatusBadRequest, w.Code)

	var resp ierr.ErrorResponse
	s.decode(w, &resp)
	s.False(resp.Success)
	s.NotEmpty(resp.Error.Display)
}

func (s *TaxHandlerSuite) TestGetTransactionNotFound() {
	w := s.do(http.MethodGet, "/v1/tax/transactions/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TaxHandlerSuite) TestLookupTax() {
	s.GetHTTPClient().RegisterJSONResponse("/1.0/tax/get", map[string]any{
		"DocCode":    "R123456789",
		"TotalTax":   "12.34",
		"ResultCode": "Success",
	})

	w := s.do(http.MethodPost, "/v1/tax/lookup", dto.TaxOrderRequest{Order: testutil.NewTestOrder()})
	s.Equal(http.StatusOK, w.Code)

	var resp dto.TaxResult
	s.decode(w, &resp)
	s.Equal(types.TaxOutcomeSuccess, resp.Outcome)
	s.Equal("12.34", resp.TotalTax)
}

func (s *TaxHandlerSuite) TestLookupTaxRequiresOrder() {
	w := s.do(http.MethodPost, "/v1/tax/lookup", map[string]any{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(0, s.GetHTTPClient().CallCount())
}

func (s *TaxHandlerSuite) TestLookupTaxRejectsUnknownInvoiceType() {
	w := s.do(http.MethodPost, "/v1/tax/lookup", dto.TaxOrderRequest{
		Order:       testutil.NewTestOrder(),
		InvoiceType: "PurchaseOrder",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TaxHandlerSuite) TestCommitTaxRecordsTransaction() {
	s.GetHTTPClient().RegisterJSONResponse("/1.0/tax/get", map[string]any{
		"TotalTax":   "2.50",
		"ResultCode": "Success",
	})

	req := dto.TaxOrderRequest{
		Order:       testutil.NewTestOrder(),
		InvoiceType: types.TaxDocumentTypeSalesInvoice,
	}
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/tax/commit", req).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/v1/tax/commit", req).Code)

	s.Equal(1, s.GetStores().TaxTransactionRepo.Len())
}

func (s *TaxHandlerSuite) TestCommitTaxReturnWithoutRefundRecordsNothing() {
	w := s.do(http.MethodPost, "/v1/tax/commit", dto.TaxOrderRequest{
		Order:       testutil.NewTestOrder(),
		InvoiceType: types.TaxDocumentTypeReturnOrder,
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(0, s.GetStores().TaxTransactionRepo.Len())
	s.Equal(0, s.GetHTTPClient().CallCount())
}

func (s *TaxHandlerSuite) TestCommitTaxCalculationDisabledRecordsNothing() {
	s.disable(preference.KeyTaxCalculation)

	w := s.do(http.MethodPost, "/v1/tax/commit", dto.TaxOrderRequest{
		Order:       testutil.NewTestOrder(),
		InvoiceType: types.TaxDocumentTypeSalesInvoice,
	})
	s.Equal(http.StatusOK, w.Code)

	var resp dto.TaxResult
	s.decode(w, &resp)
	s.Equal(types.TaxOutcomeZeroTax, resp.Outcome)
	s.Equal(0, s.GetStores().TaxTransactionRepo.Len())
	s.Equal(0, s.GetHTTPClient().CallCount())
}

func (s *TaxHandlerSuite) TestLookupTaxReturnsServiceBodyUnchanged() {
	s.GetHTTPClient().RegisterResponse("/1.0/tax/get", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"DocId":"88001","DocStatus":"Temporary","Locked":false,"TotalTax":"12.34","ResultCode":"Success"}`),
	})

	w := s.do(http.MethodPost, "/v1/tax/lookup", dto.TaxOrderRequest{Order: testutil.NewTestOrder()})
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		Result map[string]any `json:"result"`
	}
	s.decode(w, &resp)
	s.Equal("88001", resp.Result["DocId"])
	s.Equal("Temporary", resp.Result["DocStatus"])
	s.Equal(false, resp.Result["Locked"])
	s.Equal(0, s.GetStores().TaxTransactionRepo.Len())
}

func (s *TaxHandlerSuite) TestCommitTaxServiceErrorStillSucceeds() {
	s.GetHTTPClient().RegisterResponse("/1.0/tax/get", testutil.MockResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte("unavailable"),
	})

	w := s.do(http.MethodPost, "/v1/tax/commit", dto.TaxOrderRequest{
		Order:       testutil.NewTestOrder(),
		InvoiceType: types.TaxDocumentTypeSalesInvoice,
	})
	s.Equal(http.StatusOK, w.Code)

	var resp dto.TaxResult
	s.decode(w, &resp)
	s.Equal(types.TaxOutcomeZeroTax, resp.Outcome)
	s.Equal(types.ZeroTaxTotal, resp.TotalTax)
}

func (s *TaxHandlerSuite) TestCommitTaxFinalCommittingDisabled() {
	s.disable(preference.KeyDocumentCommit)

	w := s.do(http.MethodPost, "/v1/tax/commit/final", dto.TaxOrderRequest{
		Order:       testutil.NewTestOrder(),
		InvoiceType: types.TaxDocumentTypeSalesInvoice,
	})
	s.Equal(http.StatusOK, w.Code)

	var resp dto.TaxResult
	s.decode(w, &resp)
	s.Equal(types.TaxOutcomeCommittingDisabled, resp.Outcome)
	s.Empty(resp.TotalTax)
	s.Equal(0, s.GetHTTPClient().CallCount())
	s.Equal(0, s.GetStores().TaxTransactionRepo.Len())
}

func (s *TaxHandlerSuite) TestCancelWhenCalculationDisabled() {
	s.disable(preference.KeyTaxCalculation)

	w := s.do(http.MethodPost, "/v1/tax/cancel", dto.TaxOrderRequest{Order: testutil.NewTestOrder()})
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal(0, s.GetHTTPClient().CallCount())
}

func (s *TaxHandlerSuite) TestValidateAddressFailureIsBadGateway() {
	s.GetHTTPClient().RegisterResponse("/1.0/address/validate", testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       []byte("boom"),
	})

	w := s.do(http.MethodPost, "/v1/tax/addresses/validate", dto.ValidateAddressRequest{
		Address: testutil.NewTestOrder().ShipAddress,
	})
	s.Equal(http.StatusBadGateway, w.Code)
}

func (s *TaxHandlerSuite) TestEstimateTax() {
	s.GetHTTPClient().RegisterJSONResponse("/get", map[string]any{
		"Rate":       "0.1",
		"Tax":        "1.00",
		"ResultCode": "Success",
	})

	w := s.do(http.MethodGet, "/v1/tax/estimate?latitude=47.6&longitude=-122.3&sale_amount=10", nil)
	s.Equal(http.StatusOK, w.Code)

	var resp dto.EstimateTaxResponse
	s.decode(w, &resp)
	s.Require().NotNil(resp.Result)
	s.Equal("1.00", resp.Result.Tax.String())
}

func (s *TaxHandlerSuite) TestEstimateTaxBadAmount() {
	w := s.do(http.MethodGet, "/v1/tax/estimate?latitude=47.6&longitude=-122.3&sale_amount=ten", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TaxHandlerSuite) TestEstimateTaxWithoutCoordinates() {
	w := s.do(http.MethodGet, "/v1/tax/estimate", nil)
	s.Equal(http.StatusOK, w.Code)

	var resp dto.EstimateTaxResponse
	s.decode(w, &resp)
	s.Nil(resp.Result)
	s.Equal(0, s.GetHTTPClient().CallCount())
}

func (s *TaxHandlerSuite) TestPreferences() {
	w := s.do(http.MethodPut, "/v1/tax/preferences/"+preference.KeyLicenseKey, dto.UpdatePreferenceRequest{Value: "SECRET"})
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/v1/tax/preferences/unknown", dto.UpdatePreferenceRequest{Value: "x"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/tax/preferences", nil)
	s.Equal(http.StatusOK, w.Code)

	var resp dto.ListPreferencesResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Items, 1)
	s.Equal(dto.RedactedValue, resp.Items[0].Value)
}
