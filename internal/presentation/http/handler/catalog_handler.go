package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/response"
	"github.com/sangkips/laundry-api/pkg/utils"
)

// CatalogHandler handles departments, garment types, services and their prices
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListDepartments lists departments in display order
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	departments, err := h.catalogService.ListDepartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Departments retrieved successfully", departments)
}

// CreateDepartment handles creating a department
func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var req request.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	position := 0
	if req.Position != nil {
		position = *req.Position
	}

	department, err := h.catalogService.CreateDepartment(c.Request.Context(), *req.Name, position)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Department created successfully", department)
}

// UpdateDepartment handles renaming or moving a department
func (h *CatalogHandler) UpdateDepartment(c *gin.Context) {
	id, err := paramID(c, "id", "department")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	department, err := h.catalogService.UpdateDepartment(c.Request.Context(), id, req.Name, req.Position)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Department updated successfully", department)
}

// DeleteDepartment handles deleting a department
func (h *CatalogHandler) DeleteDepartment(c *gin.Context) {
	id, err := paramID(c, "id", "department")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.catalogService.DeleteDepartment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListSubItems lists garment types, optionally for one department
func (h *CatalogHandler) ListSubItems(c *gin.Context) {
	departmentID, err := utils.ParseOptionalUUID(c.Query("department_id"))
	if err != nil {
		response.BadRequest(c, "Invalid department ID")
		return
	}

	subItems, err := h.catalogService.ListSubItems(c.Request.Context(), departmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sub items retrieved successfully", subItems)
}

// CreateSubItem handles creating a garment type
func (h *CatalogHandler) CreateSubItem(c *gin.Context) {
	var req request.CreateSubItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	subItem, err := h.catalogService.CreateSubItem(c.Request.Context(), req.DepartmentID, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sub item created successfully", subItem)
}

// GetSubItem handles getting a garment type
func (h *CatalogHandler) GetSubItem(c *gin.Context) {
	id, err := paramID(c, "id", "sub item")
	if err != nil {
		response.Error(c, err)
		return
	}

	subItem, err := h.catalogService.GetSubItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sub item retrieved successfully", subItem)
}

// UpdateSubItem handles updating a garment type
func (h *CatalogHandler) UpdateSubItem(c *gin.Context) {
	id, err := paramID(c, "id", "sub item")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateSubItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	subItem, err := h.catalogService.UpdateSubItem(c.Request.Context(), &service.UpdateSubItemInput{
		ID:           id,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Active:       req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sub item updated successfully", subItem)
}

// DeleteSubItem handles deleting a garment type
func (h *CatalogHandler) DeleteSubItem(c *gin.Context) {
	id, err := paramID(c, "id", "sub item")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.catalogService.DeleteSubItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SubItemServices lists the services offered for a garment type with effective prices
func (h *CatalogHandler) SubItemServices(c *gin.Context) {
	id, err := paramID(c, "id", "sub item")
	if err != nil {
		response.Error(c, err)
		return
	}

	services, err := h.catalogService.ServicesForSubItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Services retrieved successfully", services)
}

// SetSubItemPrice offers a service for a garment type, optionally at its own price
func (h *CatalogHandler) SetSubItemPrice(c *gin.Context) {
	subItemID, err := paramID(c, "id", "sub item")
	if err != nil {
		response.Error(c, err)
		return
	}
	serviceID, err := paramID(c, "service_id", "service")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.SubItemPriceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	offer, err := h.catalogService.SetSubItemPrice(c.Request.Context(), subItemID, serviceID, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service price saved", offer)
}

// RemoveSubItemService stops offering a service for a garment type
func (h *CatalogHandler) RemoveSubItemService(c *gin.Context) {
	subItemID, err := paramID(c, "id", "sub item")
	if err != nil {
		response.Error(c, err)
		return
	}
	serviceID, err := paramID(c, "service_id", "service")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.catalogService.RemoveSubItemService(c.Request.Context(), subItemID, serviceID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListServices lists all services of the shop
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogService.ListServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Services retrieved successfully", services)
}

// CreateService handles creating a service
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req request.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	svc, err := h.catalogService.CreateService(c.Request.Context(), req.Name, req.BasePrice)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Service created successfully", svc)
}

// UpdateService handles updating a service
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, err := paramID(c, "id", "service")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	svc, err := h.catalogService.UpdateService(c.Request.Context(), &service.UpdateServiceInput{
		ID:        id,
		Name:      req.Name,
		BasePrice: req.BasePrice,
		Active:    req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service updated successfully", svc)
}

// DeleteService handles deleting a service
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, err := paramID(c, "id", "service")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.catalogService.DeleteService(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
