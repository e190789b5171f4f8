package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
	"github.com/raqeeb-edu/timetable-api/pkg/export"
)

// ExportService renders weekly views as CSV or PDF. It reads exclusively
// through TimetableService, never the raw store.
type ExportService struct {
	views  *TimetableService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(views *TimetableService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		views:  views,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ClassWeekCSV renders a section's weekly timetable as CSV.
func (s *ExportService) ClassWeekCSV(ctx context.Context, sectionID, date string) ([]byte, string, error) {
	grid, err := s.classWeekGrid(ctx, sectionID, date)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(grid)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, fmt.Sprintf("timetable-%s.csv", sectionID), nil
}

// ClassWeekPDF renders a section's weekly timetable as PDF.
func (s *ExportService) ClassWeekPDF(ctx context.Context, sectionID, date string) ([]byte, string, error) {
	grid, err := s.classWeekGrid(ctx, sectionID, date)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Weekly Timetable %s", sectionID)
	payload, err := s.pdf.Render(grid, title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, fmt.Sprintf("timetable-%s.pdf", sectionID), nil
}

func (s *ExportService) classWeekGrid(ctx context.Context, sectionID, date string) (export.Grid, error) {
	view, err := s.views.WeekView(ctx, timetable.EntityClass, sectionID, date)
	if err != nil {
		return export.Grid{}, err
	}

	headers := []string{"Slot"}
	for _, day := range view.Days {
		header := titleCase(day.Day)
		if day.Date != "" {
			header = fmt.Sprintf("%s %s", header, day.Date)
		}
		headers = append(headers, header)
	}

	var rows [][]string
	if len(view.Days) > 0 {
		for slotIdx := range view.Days[0].Slots {
			row := []string{fmt.Sprintf("%d", view.Days[0].Slots[slotIdx].SlotID)}
			for _, day := range view.Days {
				row = append(row, cellText(day.Slots[slotIdx]))
			}
			rows = append(rows, row)
		}
	}

	return export.Grid{Headers: headers, Rows: rows}, nil
}

func cellText(slot SlotView) string {
	if slot.Entry == nil {
		return ""
	}
	e := slot.Entry
	text := fmt.Sprintf("%s / %s", e.Subject, e.TeacherID)
	if e.Room != "" {
		text = fmt.Sprintf("%s (%s)", text, e.Room)
	}
	if e.IsSubstitution {
		text += " *"
	}
	return text
}

func titleCase(day string) string {
	if day == "" {
		return day
	}
	lower := strings.ToLower(day)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
