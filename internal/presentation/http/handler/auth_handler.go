package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
)

// AuthHandler handles shop registration and employee sign-in
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles employee sign-in at a shop
// @Summary Login
// @Description Authenticate an employee by phone and PIN and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		ShopSlug: req.ShopSlug,
		Phone:    req.Phone,
		PIN:      req.PIN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokenBody(output))
}

// Register handles opening a new shop
// @Summary Register shop
// @Description Create a shop with its work sections and first manager
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterShopRequest true "Shop and manager"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RegisterShop(c.Request.Context(), &service.RegisterShopInput{
		ShopName:     req.ShopName,
		Slug:         req.Slug,
		ManagerName:  req.ManagerName,
		ManagerPhone: req.ManagerPhone,
		PIN:          req.PIN,
		Settings:     req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shop registered successfully", tokenBody(output))
}

// Me returns the signed-in employee
// @Summary Current employee
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	employeeID := GetEmployeeID(c)
	if employeeID == nil {
		response.Unauthorized(c, "Employee not authenticated")
		return
	}

	employee, err := h.authService.CurrentEmployee(c.Request.Context(), *employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee retrieved successfully", gin.H{
		"employee": employee,
		"shop":     c.MustGet("tenant"),
	})
}

func tokenBody(output *service.LoginOutput) gin.H {
	return gin.H{
		"shop":         output.Tenant,
		"employee":     output.Employee,
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	}
}
