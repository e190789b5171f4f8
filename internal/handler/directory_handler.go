package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raqeeb-edu/timetable-api/internal/service"
	"github.com/raqeeb-edu/timetable-api/pkg/response"
)

// DirectoryHandler serves the read-only wings/sections/teachers universe
// the timetable is built over.
type DirectoryHandler struct {
	directory *service.Directory
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.Directory) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// Wings returns all wings.
func (h *DirectoryHandler) Wings(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.directory.Wings(), nil)
}

// Sections returns all sections.
func (h *DirectoryHandler) Sections(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.directory.Sections(), nil)
}

// Teachers returns all teachers.
func (h *DirectoryHandler) Teachers(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.directory.Teachers(), nil)
}
