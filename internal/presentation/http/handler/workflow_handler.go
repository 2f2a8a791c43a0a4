package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
)

// WorkflowHandler handles the work section screens
type WorkflowHandler struct {
	workflowService *service.WorkflowService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowService *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// section resolves the :section path parameter, which is a section ID or code
func (h *WorkflowHandler) section(c *gin.Context) (*entity.WorkSection, bool) {
	section, err := h.workflowService.ResolveSection(c.Request.Context(), c.Param("section"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return section, true
}

// ListSections lists the work sections of the shop in processing order
func (h *WorkflowHandler) ListSections(c *gin.Context) {
	sections, err := h.workflowService.ListSections(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Work sections retrieved successfully", sections)
}

// Pending lists the invoices with work left in a section
func (h *WorkflowHandler) Pending(c *gin.Context) {
	section, ok := h.section(c)
	if !ok {
		return
	}

	result, err := h.workflowService.ListPending(c.Request.Context(), section.ID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Pending invoices retrieved successfully", result)
}

// Start puts an invoice in progress in a section
func (h *WorkflowHandler) Start(c *gin.Context) {
	section, ok := h.section(c)
	if !ok {
		return
	}
	invoiceID, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	employeeID, ok := workEmployee(c)
	if !ok {
		return
	}

	record, err := h.workflowService.StartWork(c.Request.Context(), invoiceID, section.ID, employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Work started", record)
}

// Complete finishes the work on an invoice in a section
func (h *WorkflowHandler) Complete(c *gin.Context) {
	section, ok := h.section(c)
	if !ok {
		return
	}
	invoiceID, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	employeeID, ok := workEmployee(c)
	if !ok {
		return
	}

	record, err := h.workflowService.CompleteWork(c.Request.Context(), invoiceID, section.ID, employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Work completed", record)
}

// Notes stores the notes of a section for an invoice
func (h *WorkflowHandler) Notes(c *gin.Context) {
	section, ok := h.section(c)
	if !ok {
		return
	}
	invoiceID, err := paramID(c, "id", "invoice")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.WorkNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.workflowService.SetNotes(c.Request.Context(), invoiceID, section.ID, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notes saved", record)
}

func workEmployee(c *gin.Context) (*uuid.UUID, bool) {
	var req request.WorkRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return nil, false
		}
	}
	if req.EmployeeID != nil {
		return req.EmployeeID, true
	}
	return GetEmployeeID(c), true
}
