package middleware

import (
	"github.com/flexprice/salestax/internal/types"
	"github.com/gin-gonic/gin"
)

// ContextMiddleware copies the caller's tenant and user headers into the
// request context, falling back to the defaults. Authentication is handled
// in front of this service.
func ContextMiddleware(c *gin.Context) {
	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	userID := c.GetHeader(types.HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := types.SetTenantID(c.Request.Context(), tenantID)
	ctx = types.SetUserID(ctx, userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
