package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

// LogNotifier records substitution assignments in the log. Deployments with
// a real dispatcher replace it; the service only promises to say that a new
// ACTIVE record exists for a teacher.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds the default notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// SubstitutionAssigned implements Notifier.
func (n *LogNotifier) SubstitutionAssigned(ctx context.Context, record models.SubstitutionRecord) {
	n.logger.Info("substitution assigned",
		zap.String("record_id", record.ID),
		zap.String("substitute_teacher_id", record.SubstituteTeacherID),
		zap.String("date", record.Date),
		zap.Int("slot_id", record.SlotID),
		zap.String("section_id", record.SectionID),
	)
}
