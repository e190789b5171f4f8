package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/repository"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type blockMirror interface {
	Upsert(ctx context.Context, block models.CombinedBlock) error
	Delete(ctx context.Context, id string) error
}

// AllocationPayload is one teacher/subject/room row of a block definition.
type AllocationPayload struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Room      string `json:"room"`
}

// DefineBlockRequest describes payload for defining a combined block.
type DefineBlockRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name" validate:"required"`
	SectionIDs  []string            `json:"section_ids" validate:"required,min=1,dive,required"`
	Allocations []AllocationPayload `json:"allocations" validate:"required,min=1,dive"`
}

// BlockService manages combined-block definitions.
type BlockService struct {
	engine    *timetable.Engine
	mirror    blockMirror
	cache     *repository.CacheRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlockService instantiates BlockService.
func NewBlockService(engine *timetable.Engine, mirror blockMirror, cache *repository.CacheRepository, validate *validator.Validate, logger *zap.Logger) *BlockService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockService{engine: engine, mirror: mirror, cache: cache, validator: validate, logger: logger}
}

// Define registers or replaces a block definition and mirrors it.
func (s *BlockService) Define(ctx context.Context, req DefineBlockRequest) (models.CombinedBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.CombinedBlock{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid combined block payload")
	}

	allocations := make([]models.BlockAllocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, models.BlockAllocation{TeacherID: a.TeacherID, Subject: a.Subject, Room: a.Room})
	}

	block, err := s.engine.Blocks.Define(models.CombinedBlock{
		ID:          req.ID,
		Name:        req.Name,
		SectionIDs:  req.SectionIDs,
		Allocations: allocations,
	})
	if err != nil {
		return models.CombinedBlock{}, err
	}

	if err := s.mirror.Upsert(ctx, block); err != nil {
		return models.CombinedBlock{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist combined block")
	}

	s.invalidateViews(ctx)
	return block, nil
}

// Get returns a block definition.
func (s *BlockService) Get(ctx context.Context, id string) (models.CombinedBlock, error) {
	return s.engine.Blocks.Get(id)
}

// List returns all block definitions.
func (s *BlockService) List(ctx context.Context) []models.CombinedBlock {
	return s.engine.Blocks.List()
}

// Remove deletes a block definition. A block still referenced by schedule
// entries cannot be removed; the entries would dangle.
func (s *BlockService) Remove(ctx context.Context, id string) error {
	if _, err := s.engine.Blocks.Get(id); err != nil {
		return err
	}
	for _, e := range s.engine.Store.All() {
		if e.BlockID == id {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "combined block is referenced by schedule entries")
		}
	}
	if err := s.engine.Blocks.Remove(id); err != nil {
		return err
	}
	if err := s.mirror.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete combined block")
	}
	s.invalidateViews(ctx)
	return nil
}

func (s *BlockService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, repository.ViewPattern()); err != nil {
		s.logger.Warn("failed to invalidate view cache", zap.Error(err))
	}
}
