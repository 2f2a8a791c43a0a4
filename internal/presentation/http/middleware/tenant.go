package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
)

// TenantMiddleware checks that the shop named by the token still exists. It runs after
// AuthMiddleware.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := GetTenantID(c)
		if tenantID == uuid.Nil {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		tenant, err := tenantRepo.GetByID(c.Request.Context(), tenantID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if tenant == nil {
			response.Unauthorized(c, "Shop no longer exists")
			c.Abort()
			return
		}

		c.Set("tenant", tenant)
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetEmployeeID retrieves the signed-in employee from gin context
func GetEmployeeID(c *gin.Context) uuid.UUID {
	employeeID, exists := c.Get("employee_id")
	if !exists {
		return uuid.Nil
	}
	id, _ := employeeID.(uuid.UUID)
	return id
}
