package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raqeeb-edu/timetable-api/internal/service"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
	"github.com/raqeeb-edu/timetable-api/pkg/response"
)

// SubstitutionHandler manages substitution endpoints.
type SubstitutionHandler struct {
	service *service.SubstitutionService
}

// NewSubstitutionHandler constructs handler.
func NewSubstitutionHandler(svc *service.SubstitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{service: svc}
}

// Assign covers an absence with a substitute.
func (h *SubstitutionHandler) Assign(c *gin.Context) {
	var req service.AssignSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	record, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Archive moves a record to its terminal state.
func (h *SubstitutionHandler) Archive(c *gin.Context) {
	record, err := h.service.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List returns substitution records. scope=all includes archived records
// for audit; the default is the active view used for current duties.
func (h *SubstitutionHandler) List(c *gin.Context) {
	if c.Query("scope") == "all" {
		response.JSON(c, http.StatusOK, h.service.ListAll(c.Request.Context()), nil)
		return
	}
	response.JSON(c, http.StatusOK, h.service.ListActive(c.Request.Context(), c.Query("date")), nil)
}
