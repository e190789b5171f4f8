package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/repository"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type entryMirror interface {
	Upsert(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

// UpsertEntryRequest describes payload for creating or replacing an entry.
type UpsertEntryRequest struct {
	Day                 string `json:"day" validate:"required"`
	SlotID              int    `json:"slot_id" validate:"required,min=1"`
	SectionID           string `json:"section_id" validate:"required"`
	TeacherID           string `json:"teacher_id" validate:"required"`
	Subject             string `json:"subject" validate:"required"`
	Room                string `json:"room"`
	Date                string `json:"date"`
	BlockID             string `json:"block_id"`
	AcknowledgeConflict bool   `json:"acknowledge_conflict"`
}

// ScheduleService fronts schedule entry mutations: validation, the core
// store commit, and the persistence mirror.
type ScheduleService struct {
	engine    *timetable.Engine
	mirror    entryMirror
	cache     *repository.CacheRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(engine *timetable.Engine, mirror entryMirror, cache *repository.CacheRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{engine: engine, mirror: mirror, cache: cache, validator: validate, logger: logger}
}

// Upsert commits an entry through the core store and mirrors it. A conflict
// rejection carries the clashing entries; resubmitting with
// acknowledge_conflict commits the entry tagged clashing.
func (s *ScheduleService) Upsert(ctx context.Context, req UpsertEntryRequest) (models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ScheduleEntry{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule entry payload")
	}

	if req.BlockID != "" {
		if _, err := s.engine.Blocks.Get(req.BlockID); err != nil {
			return models.ScheduleEntry{}, err
		}
	}

	entry := models.ScheduleEntry{
		Day:       strings.ToUpper(req.Day),
		SlotID:    req.SlotID,
		SectionID: req.SectionID,
		TeacherID: req.TeacherID,
		Room:      req.Room,
		Subject:   req.Subject,
		Date:      req.Date,
		BlockID:   req.BlockID,
	}

	committed, err := s.engine.Store.Upsert(entry, req.AcknowledgeConflict)
	if err != nil {
		return models.ScheduleEntry{}, err
	}
	if committed.Clashing {
		s.logger.Warn("entry committed with acknowledged clash", zap.String("entry_id", committed.ID))
	}

	if err := s.mirror.Upsert(ctx, &committed); err != nil {
		// The core state keeps the entry; the deterministic id lets the
		// caller retry the mirror idempotently.
		return models.ScheduleEntry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule entry")
	}

	s.invalidateViews(ctx)
	return committed, nil
}

// Check runs advisory conflict detection without committing anything. The
// editing UI uses this to show warning badges before a save is confirmed.
func (s *ScheduleService) Check(ctx context.Context, req UpsertEntryRequest) ([]models.EntryConflict, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule entry payload")
	}

	entry := models.ScheduleEntry{
		Day:       strings.ToUpper(req.Day),
		SlotID:    req.SlotID,
		SectionID: req.SectionID,
		TeacherID: req.TeacherID,
		Room:      req.Room,
		Subject:   req.Subject,
		Date:      req.Date,
		BlockID:   req.BlockID,
	}
	conflicts := s.engine.Detector.Detect(entry)
	return timetable.DescribeConflicts(entry, conflicts), nil
}

// Remove deletes an entry. Removing an override re-exposes the base entry
// for that date.
func (s *ScheduleService) Remove(ctx context.Context, id string) error {
	if _, err := s.engine.Store.Remove(id); err != nil {
		return err
	}
	if err := s.mirror.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.invalidateViews(ctx)
	return nil
}

// Get returns one entry by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (models.ScheduleEntry, error) {
	return s.engine.Store.Get(id)
}

// List returns entries filtered in memory, with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.EntryFilter, page, pageSize int) ([]models.ScheduleEntry, *models.Pagination, error) {
	var entries []models.ScheduleEntry
	for _, e := range s.engine.Store.All() {
		if filter.Day != "" && e.Day != strings.ToUpper(filter.Day) {
			continue
		}
		if filter.SlotID > 0 && e.SlotID != filter.SlotID {
			continue
		}
		if filter.SectionID != "" && e.SectionID != filter.SectionID {
			continue
		}
		if filter.TeacherID != "" && e.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Room != "" && !strings.EqualFold(e.Room, filter.Room) {
			continue
		}
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		if filter.BaseOnly && !e.IsBase() {
			continue
		}
		entries = append(entries, e)
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return entries[start:end], pagination, nil
}

func (s *ScheduleService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, repository.ViewPattern()); err != nil {
		s.logger.Warn("failed to invalidate view cache", zap.Error(err))
	}
}
