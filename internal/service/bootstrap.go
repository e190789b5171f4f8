package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type entryReader interface {
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
}

type blockReader interface {
	ListAll(ctx context.Context) ([]models.CombinedBlock, error)
}

type substitutionReader interface {
	ListAll(ctx context.Context) ([]models.SubstitutionRecord, error)
}

type directoryReader interface {
	ListWings(ctx context.Context) ([]models.Wing, error)
	ListSections(ctx context.Context) ([]models.Section, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListHomerooms(ctx context.Context) ([]models.Homeroom, error)
	ListTeacherLoads(ctx context.Context) ([]models.TeacherLoad, error)
}

// Bootstrap loads the persisted world into the in-memory engine at startup.
// After a successful load the engine is the source of truth; persistence is
// only a mirror from then on.
type Bootstrap struct {
	engine    *timetable.Engine
	directory *Directory
	entries   entryReader
	blocks    blockReader
	subs      substitutionReader
	dir       directoryReader
	logger    *zap.Logger
}

// NewBootstrap wires the startup loader.
func NewBootstrap(engine *timetable.Engine, directory *Directory, entries entryReader, blocks blockReader, subs substitutionReader, dir directoryReader, logger *zap.Logger) *Bootstrap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrap{engine: engine, directory: directory, entries: entries, blocks: blocks, subs: subs, dir: dir, logger: logger}
}

// Load reads every persisted row into the engine and directory.
func (b *Bootstrap) Load(ctx context.Context) error {
	wings, err := b.dir.ListWings(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load wings")
	}
	sections, err := b.dir.ListSections(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	teachers, err := b.dir.ListTeachers(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	homerooms, err := b.dir.ListHomerooms(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load homerooms")
	}
	loads, err := b.dir.ListTeacherLoads(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher loads")
	}
	b.directory.Replace(wings, sections, teachers, homerooms, loads)

	blocks, err := b.blocks.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load combined blocks")
	}
	b.engine.Blocks.Load(blocks)

	entries, err := b.entries.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	if err := b.engine.Store.Load(entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to index schedule entries")
	}

	records, err := b.subs.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load substitution records")
	}
	b.engine.Ledger.Load(records)

	b.logger.Info("timetable engine loaded",
		zap.Int("wings", len(wings)),
		zap.Int("sections", len(sections)),
		zap.Int("teachers", len(teachers)),
		zap.Int("entries", len(entries)),
		zap.Int("blocks", len(blocks)),
		zap.Int("substitutions", len(records)),
	)
	return nil
}
