package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles shop settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns the shop with its settings and the policy in effect
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	shop, err := h.settingsService.GetSettings(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	policy, err := h.settingsService.Policy(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", gin.H{
		"shop":      shop,
		"effective": policy,
	})
}

// UpdateSettings updates the shop settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shop, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		ShopPhone:            req.ShopPhone,
		ShopAddress:          req.ShopAddress,
		VATNumber:            req.VATNumber,
		Currency:             req.Currency,
		Timezone:             req.Timezone,
		Locale:               req.Locale,
		TaxRate:              req.TaxRate,
		ClearTaxRate:         req.ClearTaxRate,
		TaxLabel:             req.TaxLabel,
		InvoicePrefix:        req.InvoicePrefix,
		DefaultInvoiceStatus: req.DefaultInvoiceStatus,
		RequireFullPayment:   req.RequireFullPayment,
		EnforceSectionOrder:  req.EnforceSectionOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", shop)
}
