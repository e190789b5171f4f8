package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/repository"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type substitutionMirror interface {
	Insert(ctx context.Context, record models.SubstitutionRecord) error
	MarkArchived(ctx context.Context, id string, archivedAt time.Time) error
}

// Notifier is told about newly ACTIVE substitution records. How (or
// whether) the substitute is notified is the dispatcher's concern.
type Notifier interface {
	SubstitutionAssigned(ctx context.Context, record models.SubstitutionRecord)
}

// AssignSubstitutionRequest describes payload for covering an absence.
type AssignSubstitutionRequest struct {
	Date                string `json:"date" validate:"required"`
	SlotID              int    `json:"slot_id" validate:"required,min=1"`
	SectionID           string `json:"section_id" validate:"required"`
	AbsentTeacherID     string `json:"absent_teacher_id" validate:"required"`
	SubstituteTeacherID string `json:"substitute_teacher_id" validate:"required"`
}

// SubstitutionService fronts the substitution ledger: assignment, archival,
// mirroring and notification fan-out.
type SubstitutionService struct {
	engine    *timetable.Engine
	records   substitutionMirror
	entries   entryMirror
	notifier  Notifier
	cache     *repository.CacheRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubstitutionService instantiates SubstitutionService.
func NewSubstitutionService(engine *timetable.Engine, records substitutionMirror, entries entryMirror, notifier Notifier, cache *repository.CacheRepository, validate *validator.Validate, logger *zap.Logger) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{
		engine:    engine,
		records:   records,
		entries:   entries,
		notifier:  notifier,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Assign covers an absence. On success the record is ACTIVE, the shadow
// override is committed and mirrored, and the notifier is told. If the
// substitute is already booked at that slot the whole assignment fails and
// nothing is recorded.
func (s *SubstitutionService) Assign(ctx context.Context, req AssignSubstitutionRequest) (models.SubstitutionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.SubstitutionRecord{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitution payload")
	}

	record, override, err := s.engine.Ledger.Assign(req.Date, req.SlotID, req.SectionID, req.AbsentTeacherID, req.SubstituteTeacherID, s.now())
	if err != nil {
		return models.SubstitutionRecord{}, err
	}

	if err := s.records.Insert(ctx, record); err != nil {
		return models.SubstitutionRecord{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist substitution record")
	}
	if err := s.entries.Upsert(ctx, &override); err != nil {
		return models.SubstitutionRecord{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist substitution override")
	}

	s.invalidateViews(ctx)
	if s.notifier != nil {
		s.notifier.SubstitutionAssigned(ctx, record)
	}
	return record, nil
}

// Archive moves a record to its terminal state. The override entry stays in
// place as correct history for its date.
func (s *SubstitutionService) Archive(ctx context.Context, id string) (models.SubstitutionRecord, error) {
	record, err := s.engine.Ledger.Archive(id, s.now())
	if err != nil {
		return models.SubstitutionRecord{}, err
	}
	if err := s.records.MarkArchived(ctx, id, record.ArchivedAt); err != nil {
		return models.SubstitutionRecord{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist substitution archive")
	}
	return record, nil
}

// ListActive returns non-archived records, optionally for one date.
func (s *SubstitutionService) ListActive(ctx context.Context, date string) []models.SubstitutionRecord {
	return s.engine.Ledger.Active(date)
}

// ListAll returns every record including archived ones, for audit.
func (s *SubstitutionService) ListAll(ctx context.Context) []models.SubstitutionRecord {
	return s.engine.Ledger.All()
}

func (s *SubstitutionService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, repository.ViewPattern()); err != nil {
		s.logger.Warn("failed to invalidate view cache", zap.Error(err))
	}
}
