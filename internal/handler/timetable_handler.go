package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raqeeb-edu/timetable-api/internal/service"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
	"github.com/raqeeb-edu/timetable-api/pkg/response"
)

// TimetableHandler serves the read side: resolve queries and weekly views.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Resolve answers the authoritative entry for an entity at one slot.
func (h *TimetableHandler) Resolve(c *gin.Context) {
	entity := timetable.EntityType(strings.ToUpper(c.Query("entity")))
	entityID := c.Query("entityId")
	day := c.Query("day")
	date := c.Query("date")
	slotID, err := strconv.Atoi(c.Query("slotId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "slotId must be an integer"))
		return
	}

	resolved, err := h.service.Resolve(c.Request.Context(), entity, entityID, day, slotID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	if resolved == nil {
		response.JSON(c, http.StatusOK, gin.H{"free": true}, nil)
		return
	}
	response.JSON(c, http.StatusOK, resolved, nil)
}

// ClassWeek returns a section's weekly view.
func (h *TimetableHandler) ClassWeek(c *gin.Context) {
	h.week(c, timetable.EntityClass)
}

// TeacherWeek returns a teacher's weekly view.
func (h *TimetableHandler) TeacherWeek(c *gin.Context) {
	h.week(c, timetable.EntityStaff)
}

// RoomWeek returns a room's weekly view.
func (h *TimetableHandler) RoomWeek(c *gin.Context) {
	h.week(c, timetable.EntityRoom)
}

func (h *TimetableHandler) week(c *gin.Context, entity timetable.EntityType) {
	view, err := h.service.WeekView(c.Request.Context(), entity, c.Param("id"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Master returns the whole-school view of one day.
func (h *TimetableHandler) Master(c *gin.Context) {
	view, err := h.service.MasterView(c.Request.Context(), c.Query("day"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
