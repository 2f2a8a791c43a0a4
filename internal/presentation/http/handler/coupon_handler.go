package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
)

// CouponHandler handles coupon HTTP requests
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func couponInput(req *request.CouponRequest) *service.CouponInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &service.CouponInput{
		Code:          req.Code,
		DiscountType:  enum.DiscountType(strings.ToLower(req.DiscountType)),
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		UsageLimit:    req.UsageLimit,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Active:        active,
		Notes:         req.Notes,
	}
}

// List handles listing coupons
func (h *CouponHandler) List(c *gin.Context) {
	result, err := h.couponService.ListCoupons(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Coupons retrieved successfully", result)
}

// Create handles creating a coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req request.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), couponInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Coupon created successfully", coupon)
}

// Get handles getting a single coupon
func (h *CouponHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id", "coupon")
	if err != nil {
		response.Error(c, err)
		return
	}

	coupon, err := h.couponService.GetCoupon(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon retrieved successfully", coupon)
}

// Update replaces the terms of a coupon. Redemptions so far are kept.
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id", "coupon")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), id, couponInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon updated successfully", coupon)
}

// Delete handles deleting a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id", "coupon")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Validate checks a code against a subtotal without redeeming it
func (h *CouponHandler) Validate(c *gin.Context) {
	var req request.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.couponService.ValidateCoupon(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon is valid", result)
}
