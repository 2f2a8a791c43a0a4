package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/presentation/http/dto/request"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// GetEmployeeID extracts the signed-in employee from the Gin context
func GetEmployeeID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("employee_id")
	if !exists {
		return nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// GetEmployeeRole extracts the role of the signed-in employee
func GetEmployeeRole(c *gin.Context) string {
	role, _ := c.Get("employee_role")
	s, _ := role.(string)
	return s
}

// paramID parses a UUID path parameter
func paramID(c *gin.Context, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + label + " ID").With(name, c.Param(name))
	}
	return id, nil
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// wantsCursor reports whether the client asked for cursor pagination
func wantsCursor(c *gin.Context) bool {
	return c.Query("cursor") != "" || c.Query("limit") != ""
}

func cursorParams(c *gin.Context) *pagination.CursorParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	return &pagination.CursorParams{
		Cursor:    c.Query("cursor"),
		Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
		Limit:     limit,
	}
}

// parseTimeQuery accepts RFC3339 or a plain YYYY-MM-DD date
func parseTimeQuery(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperror.NewBadRequestError("Invalid " + name + " date, use YYYY-MM-DD or RFC3339").With(name, raw)
	}
	return t, nil
}

func toLineInputs(lines []request.LineRequest) []service.LineInput {
	out := make([]service.LineInput, 0, len(lines))
	for _, l := range lines {
		services := make([]service.LineServiceInput, 0, len(l.Services))
		for _, s := range l.Services {
			services = append(services, service.LineServiceInput{ServiceID: s.ServiceID, UnitPrice: s.UnitPrice})
		}
		out = append(out, service.LineInput{SubItemID: l.SubItemID, Quantity: l.Quantity, Services: services})
	}
	return out
}
