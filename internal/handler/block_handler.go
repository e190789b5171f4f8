package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raqeeb-edu/timetable-api/internal/service"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
	"github.com/raqeeb-edu/timetable-api/pkg/response"
)

// BlockHandler manages combined-block endpoints.
type BlockHandler struct {
	service *service.BlockService
}

// NewBlockHandler constructs handler.
func NewBlockHandler(svc *service.BlockService) *BlockHandler {
	return &BlockHandler{service: svc}
}

// List returns all block definitions.
func (h *BlockHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List(c.Request.Context()), nil)
}

// Get returns one block definition.
func (h *BlockHandler) Get(c *gin.Context) {
	block, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Define registers or replaces a block definition.
func (h *BlockHandler) Define(c *gin.Context) {
	var req service.DefineBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	block, err := h.service.Define(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// Remove deletes a block definition.
func (h *BlockHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
