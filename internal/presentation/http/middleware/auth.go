package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/sangkips/laundry-api/pkg/utils"
	"go.uber.org/zap"
)

// AuthMiddleware validates the bearer token and puts the employee and shop on the context
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("employee_id", claims.EmployeeID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("employee_role", claims.Role)

		// Services and repositories read the shop from the request context
		ctx := infraRepo.WithTenant(c.Request.Context(), claims.TenantID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(
			zap.String("tenant_id", claims.TenantID.String()),
			zap.String("employee_id", claims.EmployeeID.String()),
		))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole allows the request only for employees holding one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("employee_role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
