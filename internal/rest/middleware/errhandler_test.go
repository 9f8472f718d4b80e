package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/rest/middleware"
	"github.com/flexprice/salestax/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ierr.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware, middleware.ErrorHandler())
	router.GET("/", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp ierr.ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		c.Error(ierr.NewError("duplicate order").
			WithHint("A tax transaction already exists for this order").
			WithReportableDetails(map[string]any{"order_id": "ord_1"}).
			Mark(ierr.ErrAlreadyExists))
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "A tax transaction already exists for this order", resp.Error.Display)
	assert.Equal(t, "ord_1", resp.Error.Details["order_id"])
}

func TestErrorHandlerFallsBackForPlainErrors(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		c.Error(errors.New("something internal"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Display)
	assert.Empty(t, resp.Error.Details)
}

func TestErrorHandlerPassesSuccessThrough(t *testing.T) {
	w, _ := serve(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))
}

func TestRequestIDIsPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware, middleware.ContextMiddleware)

	var requestID, tenantID string
	router.GET("/", func(c *gin.Context) {
		requestID = types.GetRequestID(c.Request.Context())
		tenantID = types.GetTenantID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderRequestID, "req-123")
	req.Header.Set(types.HeaderTenantID, "tenant_1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, "tenant_1", tenantID)
	assert.Equal(t, "req-123", w.Header().Get(types.HeaderRequestID))
}
