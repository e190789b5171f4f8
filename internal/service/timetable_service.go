package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/repository"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

// SlotView is one cell of a weekly or master view. A nil Entry means the
// slot is free for the entity.
type SlotView struct {
	SlotID int                      `json:"slot_id"`
	Entry  *timetable.ResolvedEntry `json:"entry,omitempty"`
}

// DayView is one column of a weekly view.
type DayView struct {
	Day   string     `json:"day"`
	Date  string     `json:"date,omitempty"`
	Slots []SlotView `json:"slots"`
}

// WeekView is the resolved week of one entity, base or date-scoped.
type WeekView struct {
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	WeekStart string    `json:"week_start,omitempty"`
	Days      []DayView `json:"days"`
}

// SectionDayView is one row of the master view.
type SectionDayView struct {
	SectionID   string     `json:"section_id"`
	SectionName string     `json:"section_name"`
	Slots       []SlotView `json:"slots"`
}

// MasterView is the whole-school picture of one day.
type MasterView struct {
	Day      string           `json:"day"`
	Date     string           `json:"date,omitempty"`
	Sections []SectionDayView `json:"sections"`
}

// TimetableService is the read side: every rendering, export and reporting
// path goes through here, and from here exclusively through the resolver.
type TimetableService struct {
	engine      *timetable.Engine
	directory   *Directory
	cache       *repository.CacheRepository
	metrics     *MetricsService
	slotsPerDay int
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(engine *timetable.Engine, directory *Directory, cache *repository.CacheRepository, metrics *MetricsService, slotsPerDay int, cacheTTL time.Duration, logger *zap.Logger) *TimetableService {
	if slotsPerDay <= 0 {
		slotsPerDay = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		engine:      engine,
		directory:   directory,
		cache:       cache,
		metrics:     metrics,
		slotsPerDay: slotsPerDay,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Resolve answers the authoritative entry for one entity at one slot.
func (s *TimetableService) Resolve(ctx context.Context, entity timetable.EntityType, entityID, day string, slotID int, date string) (*timetable.ResolvedEntry, error) {
	resolved, err := s.engine.Resolver.Resolve(entity, entityID, day, slotID, date)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		source := "FREE"
		if resolved != nil {
			source = string(resolved.Source)
		}
		s.metrics.RecordResolve(source)
	}
	return resolved, nil
}

// WeekView resolves every slot of the teaching week for one entity. With a
// blank date the view is the recurring base week; otherwise each day is
// resolved against the concrete dates of the week containing date.
func (s *TimetableService) WeekView(ctx context.Context, entity timetable.EntityType, entityID, date string) (*WeekView, error) {
	if entityID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entity id is required")
	}

	var weekDates map[string]string
	weekStart := ""
	if date != "" {
		t, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
		}
		monday := t.AddDate(0, 0, -int((t.Weekday()+6)%7))
		weekStart = monday.Format(models.DateLayout)
		weekDates = make(map[string]string, len(models.TeachingDays))
		for i, day := range models.TeachingDays {
			weekDates[day] = monday.AddDate(0, 0, i).Format(models.DateLayout)
		}
	}

	key := repository.ViewKey(strings.ToLower(string(entity)), entityID, weekStart)
	if s.cache != nil {
		var cached WeekView
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordViewCache(true)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordViewCache(false)
		}
	}

	view := &WeekView{Entity: string(entity), EntityID: entityID, WeekStart: weekStart}
	for _, day := range models.TeachingDays {
		dayDate := ""
		if weekDates != nil {
			dayDate = weekDates[day]
		}
		dayView := DayView{Day: day, Date: dayDate}
		for slot := 1; slot <= s.slotsPerDay; slot++ {
			resolved, err := s.Resolve(ctx, entity, entityID, day, slot, dayDate)
			if err != nil {
				return nil, err
			}
			dayView.Slots = append(dayView.Slots, SlotView{SlotID: slot, Entry: resolved})
		}
		view.Days = append(view.Days, dayView)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache week view", zap.Error(err))
		}
	}
	return view, nil
}

// MasterView resolves one day across every section in the directory.
func (s *TimetableService) MasterView(ctx context.Context, day, date string) (*MasterView, error) {
	day = strings.ToUpper(day)
	if date != "" {
		dayOfDate, err := models.DayOfDate(date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
		}
		if day == "" {
			day = dayOfDate
		} else if day != dayOfDate {
			return nil, appErrors.Clone(appErrors.ErrValidation, "day does not match date")
		}
	}
	if !models.IsTeachingDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid day")
	}

	view := &MasterView{Day: day, Date: date}
	for _, section := range s.directory.Sections() {
		row := SectionDayView{SectionID: section.ID, SectionName: section.Name}
		for slot := 1; slot <= s.slotsPerDay; slot++ {
			resolved, err := s.Resolve(ctx, timetable.EntityClass, section.ID, day, slot, date)
			if err != nil {
				return nil, err
			}
			row.Slots = append(row.Slots, SlotView{SlotID: slot, Entry: resolved})
		}
		view.Sections = append(view.Sections, row)
	}
	return view, nil
}
