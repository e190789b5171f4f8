package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/service"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
	"github.com/raqeeb-edu/timetable-api/pkg/response"
)

// ScheduleHandler manages schedule entry endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List returns entries with optional filters.
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.EntryFilter
	filter.Day = strings.ToUpper(c.Query("day"))
	if slot, err := strconv.Atoi(c.DefaultQuery("slotId", "0")); err == nil {
		filter.SlotID = slot
	}
	filter.SectionID = c.Query("sectionId")
	filter.TeacherID = c.Query("teacherId")
	filter.Room = c.Query("room")
	filter.Date = c.Query("date")
	filter.BaseOnly = c.Query("baseOnly") == "true"

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, pagination, err := h.service.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get returns one entry by id.
func (h *ScheduleHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Upsert creates or replaces an entry.
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	var req service.UpsertEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	entry, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Check runs advisory conflict detection for the editing UI.
func (h *ScheduleHandler) Check(c *gin.Context) {
	var req service.UpsertEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	conflicts, err := h.service.Check(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"conflicts": conflicts}, nil)
}

// Remove deletes an entry.
func (h *ScheduleHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
