package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raqeeb-edu/timetable-api/internal/service"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
	"github.com/raqeeb-edu/timetable-api/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ClassWeek streams a section's weekly timetable as csv or pdf.
func (h *ExportHandler) ClassWeek(c *gin.Context) {
	sectionID := c.Param("id")
	date := c.Query("date")

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, filename, err := h.service.ClassWeekCSV(c.Request.Context(), sectionID, date)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, filename, err := h.service.ClassWeekPDF(c.Request.Context(), sectionID, date)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
