package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
	"github.com/sangkips/laundry-api/internal/presentation/http/middleware"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/utils"
)

// InvoiceHandler handles checkout and invoice HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	workflowService *service.WorkflowService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, workflowService *service.WorkflowService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, workflowService: workflowService}
}

// Quote prices an open cart without storing it
func (h *InvoiceHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.invoiceService.Quote(c.Request.Context(), &service.QuoteInput{
		Lines:      toLineInputs(req.Lines),
		Discount:   req.Discount,
		CouponCode: req.CouponCode,
		AmountPaid: req.AmountPaid,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart priced successfully", quote)
}

// Issue checks out a cart. A retried request with the same Idempotency-Key returns the
// invoice issued the first time.
func (h *InvoiceHandler) Issue(c *gin.Context) {
	var req request.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.IssueInvoiceInput{
		CustomerID:     req.CustomerID,
		EmployeeID:     GetEmployeeID(c),
		Lines:          toLineInputs(req.Lines),
		Discount:       req.Discount,
		CouponCode:     req.CouponCode,
		PaymentMethod:  enum.PaymentMethod(req.PaymentMethod),
		AmountPaid:     req.AmountPaid,
		Notes:          req.Notes,
		IdempotencyKey: c.GetHeader(middleware.IdempotencyKeyHeader),
	}
	if req.Status != nil {
		status, err := enum.ParseInvoiceStatus(*req.Status)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "status", Message: "must be paid or pending"}})
			return
		}
		input.Status = &status
	}

	out, err := h.invoiceService.IssueInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if out.Replayed {
		c.Header(middleware.ReplayedHeader, "true")
		response.OK(c, "Invoice already issued", out.Invoice)
		return
	}
	response.Created(c, "Invoice issued successfully", out.Invoice)
}

// List handles listing invoices (supports both page-based and cursor-based pagination)
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := invoiceFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if wantsCursor(c) {
		result, err := h.invoiceService.ListInvoicesWithCursor(c.Request.Context(), &repository.InvoiceCursorFilterParams{
			InvoiceFilter: *filter,
			Cursor:        cursorParams(c),
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Invoices retrieved successfully", result)
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), &repository.InvoiceFilterParams{
		InvoiceFilter: *filter,
		Pagination:    pageParams(c),
		SortBy:        c.DefaultQuery("sort_by", "created_at"),
		SortOrder:     c.DefaultQuery("sort_order", "desc"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", result)
}

func invoiceFilter(c *gin.Context) (*repository.InvoiceFilter, error) {
	filter := &repository.InvoiceFilter{Search: c.Query("search")}

	if raw := c.Query("status"); raw != "" {
		status, err := enum.ParseInvoiceStatus(raw)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid status filter").With("status", raw)
		}
		filter.Status = &status
	}
	if raw := c.Query("returned"); raw != "" {
		returned, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid returned filter").With("returned", raw)
		}
		filter.Returned = &returned
	}
	customerID, err := utils.ParseOptionalUUID(c.Query("customer_id"))
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid customer ID").With("customer_id", c.Query("customer_id"))
	}
	filter.CustomerID = customerID

	start, err := parseTimeQuery(c, "start_date")
	if err != nil {
		return nil, err
	}
	if !start.IsZero() {
		filter.StartDate = &start
	}
	end, err := parseTimeQuery(c, "end_date")
	if err != nil {
		return nil, err
	}
	if !end.IsZero() {
		// A plain date includes the whole day
		if len(c.Query("end_date")) == len(time.DateOnly) {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}
	return filter, nil
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// GetByNumber looks an invoice up by the number printed on the receipt
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Summary returns the stored totals of an invoice
func (h *InvoiceHandler) Summary(c *gin.Context) {
	id, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice summary retrieved successfully", gin.H{
		"invoice_number": invoice.InvoiceNumber,
		"status":         invoice.Status,
		"is_returned":    invoice.IsReturned,
		"breakdown":      invoice.Breakdown(),
	})
}

// Progress returns the state of the invoice in every work section
func (h *InvoiceHandler) Progress(c *gin.Context) {
	id, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	progress, err := h.workflowService.InvoiceProgress(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice progress retrieved successfully", progress)
}

// Return records that the garments were handed back to the customer
func (h *InvoiceHandler) Return(c *gin.Context) {
	id, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ReturnInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	invoice, err := h.invoiceService.ReturnInvoice(c.Request.Context(), id, req.ReturnCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice returned successfully", invoice)
}

// MarkPaid settles a pending invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice marked as paid", invoice)
}

// Cancel cancels an invoice that was not returned
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice cancelled successfully", invoice)
}
