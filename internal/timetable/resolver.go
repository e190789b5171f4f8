package timetable

import (
	"strings"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

// EntityType selects the perspective of a resolve query.
type EntityType string

const (
	EntityClass EntityType = "CLASS"
	EntityStaff EntityType = "STAFF"
	EntityRoom  EntityType = "ROOM"
)

// Source records which layer of the resolution order produced an entry.
type Source string

const (
	SourceOverride     Source = "OVERRIDE"
	SourceBlock        Source = "BLOCK"
	SourceBase         Source = "BASE"
	SourceHomeroomDuty Source = "HOMEROOM_DUTY"
)

// dutySlotID is the first period, the only slot the implicit homeroom duty
// rule applies to.
const dutySlotID = 1

// ResolvedEntry is the authoritative answer for one entity at one slot.
type ResolvedEntry struct {
	models.ScheduleEntry
	Source Source `json:"source"`
}

// SectionDirectory supplies section metadata from the wings/grades/sections
// collaborator. Only the grade-code prefix of the section name is consumed.
type SectionDirectory interface {
	Section(id string) (models.Section, bool)
}

// TeacherDirectory supplies class-teacher relationships and subject loads
// from the teacher-directory collaborator.
type TeacherDirectory interface {
	HomeroomTeacher(sectionID string) (string, bool)
	HomeroomSections(teacherID string) []string
	Loads(teacherID string) []models.TeacherLoad
}

// Load-selection rules for the synthesized homeroom-duty subject.
const (
	LoadRuleFirstForGrade = "FIRST_FOR_GRADE"
	LoadRuleFirstAny      = "FIRST_ANY"
)

// DutyConfig tunes the implicit homeroom duty rule. The qualifying grade
// range and the load-selection rule differ between deployments, so they are
// configuration rather than constants.
type DutyConfig struct {
	MinGrade        int
	MaxGrade        int
	FallbackSubject string
	LoadRule        string
}

// DefaultDutyConfig matches the common deployment: grades I-X, subject taken
// from the teacher's first registered load for the grade.
func DefaultDutyConfig() DutyConfig {
	return DutyConfig{
		MinGrade:        1,
		MaxGrade:        10,
		FallbackSubject: "Homeroom",
		LoadRule:        LoadRuleFirstForGrade,
	}
}

// Resolver merges the schedule store, the combined-block registry and the
// implicit homeroom duty rule into a single "what applies here" answer.
// Resolution order, first match wins: date override, block allocation, base
// entry, implicit homeroom duty, free.
type Resolver struct {
	store    *Store
	blocks   *Registry
	sections SectionDirectory
	teachers TeacherDirectory
	duty     DutyConfig
}

// NewResolver wires a resolver over the store and registry. The directories
// may be nil, which disables the implicit duty rule.
func NewResolver(store *Store, blocks *Registry, sections SectionDirectory, teachers TeacherDirectory, duty DutyConfig) *Resolver {
	return &Resolver{store: store, blocks: blocks, sections: sections, teachers: teachers, duty: duty}
}

// Resolve answers the authoritative entry for an entity at (day, slot), for
// a specific calendar date when date is set or for the recurring base week
// when it is blank. A nil result with a nil error means the slot is free.
func (r *Resolver) Resolve(entity EntityType, entityID, day string, slotID int, date string) (*ResolvedEntry, error) {
	switch entity {
	case EntityClass, EntityStaff, EntityRoom:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}
	if entityID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entity id is required")
	}
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
	if slotID < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid slot")
	}

	bucket := r.store.EntriesForSlot(day, slotID)

	// 1. Date override shadows everything for its date.
	if date != "" {
		for _, e := range bucket {
			if e.Date == date && matchesEntity(entity, entityID, e) {
				resolved := &ResolvedEntry{ScheduleEntry: e, Source: SourceOverride}
				return resolved, nil
			}
		}
	}

	// 2. Combined-block allocation.
	for _, e := range bucket {
		if e.BlockID == "" || !applicableOn(e, date, bucket) {
			continue
		}
		alloc, sectionID, err := r.allocationFor(e.BlockID, entity, entityID)
		if err != nil || sectionID != e.SectionID {
			continue
		}
		resolved := &ResolvedEntry{
			ScheduleEntry: models.ScheduleEntry{
				ID:        e.ID,
				Day:       day,
				SlotID:    slotID,
				SectionID: sectionID,
				TeacherID: alloc.TeacherID,
				Room:      alloc.Room,
				Subject:   alloc.Subject,
				Date:      date,
				BlockID:   e.BlockID,
			},
			Source: SourceBlock,
		}
		return resolved, nil
	}

	// 3. Recurring base entry, unless shadowed on the query date.
	for _, e := range bucket {
		if !e.IsBase() || e.BlockID != "" || !matchesEntity(entity, entityID, e) {
			continue
		}
		if date != "" && shadowed(e.SectionID, date, bucket, "") {
			continue
		}
		resolved := &ResolvedEntry{ScheduleEntry: e, Source: SourceBase}
		return resolved, nil
	}

	// 4. Implicit homeroom duty, first period only.
	if slotID == dutySlotID && entity != EntityRoom {
		if duty := r.implicitDuty(entity, entityID, day, date, bucket); duty != nil {
			return duty, nil
		}
	}

	// 5. Free.
	return nil, nil
}

func (r *Resolver) allocationFor(blockID string, entity EntityType, entityID string) (models.BlockAllocation, string, error) {
	if r.blocks == nil {
		return models.BlockAllocation{}, "", appErrors.Clone(appErrors.ErrNotFound, "combined block not found")
	}
	return r.blocks.AllocationFor(blockID, entity, entityID)
}

// implicitDuty synthesizes the first-period homeroom entry for a class or
// its class teacher when nothing explicit is on record. The section must
// fall inside the configured homeroom-eligible grade range and both parties
// must be otherwise free at the slot.
func (r *Resolver) implicitDuty(entity EntityType, entityID, day, date string, bucket []models.ScheduleEntry) *ResolvedEntry {
	if r.sections == nil || r.teachers == nil {
		return nil
	}

	var sectionIDs []string
	switch entity {
	case EntityClass:
		sectionIDs = []string{entityID}
	case EntityStaff:
		sectionIDs = r.teachers.HomeroomSections(entityID)
	}

	for _, sectionID := range sectionIDs {
		section, ok := r.sections.Section(sectionID)
		if !ok {
			continue
		}
		grade, ok := ParseGrade(section.Name)
		if !ok || grade < r.duty.MinGrade || grade > r.duty.MaxGrade {
			continue
		}
		teacherID, ok := r.teachers.HomeroomTeacher(sectionID)
		if !ok {
			continue
		}
		if entity == EntityStaff && teacherID != entityID {
			continue
		}
		if occupied(sectionID, teacherID, date, bucket) {
			continue
		}
		return &ResolvedEntry{
			ScheduleEntry: models.ScheduleEntry{
				Day:       day,
				SlotID:    dutySlotID,
				SectionID: sectionID,
				TeacherID: teacherID,
				Subject:   r.dutySubject(teacherID, grade),
				Date:      date,
			},
			Source: SourceHomeroomDuty,
		}
	}
	return nil
}

func (r *Resolver) dutySubject(teacherID string, grade int) string {
	loads := r.teachers.Loads(teacherID)
	switch r.duty.LoadRule {
	case LoadRuleFirstAny:
		if len(loads) > 0 {
			return loads[0].Subject
		}
	default:
		for _, load := range loads {
			if load.Grade == grade {
				return load.Subject
			}
		}
	}
	return r.duty.FallbackSubject
}

// occupied reports whether the section or teacher already has an applicable
// entry in the bucket, which disqualifies the implicit duty.
func occupied(sectionID, teacherID, date string, bucket []models.ScheduleEntry) bool {
	for _, e := range bucket {
		if !applicableOn(e, date, bucket) {
			continue
		}
		if e.SectionID == sectionID || e.TeacherID == teacherID {
			return true
		}
	}
	return false
}

// applicableOn reports whether the entry is in effect for the query date.
// With no date the query targets the recurring base week, so only base
// entries apply.
func applicableOn(e models.ScheduleEntry, date string, bucket []models.ScheduleEntry) bool {
	if date == "" {
		return e.IsBase()
	}
	if e.Date != "" {
		return e.Date == date
	}
	return !shadowed(e.SectionID, date, bucket, "")
}

func matchesEntity(entity EntityType, entityID string, e models.ScheduleEntry) bool {
	switch entity {
	case EntityClass:
		return e.SectionID == entityID
	case EntityStaff:
		return e.TeacherID == entityID
	case EntityRoom:
		return e.Room != "" && strings.EqualFold(e.Room, entityID)
	}
	return false
}
