package timetable

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

// Ledger owns substitution records and is the only writer allowed to create
// substitution override entries in the schedule store. Timestamps are
// supplied by the caller so the core never reads a clock.
type Ledger struct {
	mu       sync.Mutex
	records  map[string]models.SubstitutionRecord
	store    *Store
	resolver *Resolver
}

// NewLedger builds a ledger writing shadow overrides through the store.
func NewLedger(store *Store, resolver *Resolver) *Ledger {
	return &Ledger{
		records:  make(map[string]models.SubstitutionRecord),
		store:    store,
		resolver: resolver,
	}
}

// Assign covers an absence: it resolves the entry being covered, writes a
// shadow override with the substitute teacher carrying the same subject and
// room, and records the assignment as ACTIVE. If the override would
// double-book the substitute the assignment fails outright and no record is
// created; the caller must pick a different substitute.
func (l *Ledger) Assign(date string, slotID int, sectionID, absentTeacherID, substituteTeacherID string, assignedAt time.Time) (models.SubstitutionRecord, models.ScheduleEntry, error) {
	if sectionID == "" || absentTeacherID == "" || substituteTeacherID == "" {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrValidation, "section, absent teacher and substitute teacher are required")
	}
	if absentTeacherID == substituteTeacherID {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrValidation, "substitute must differ from the absent teacher")
	}
	day, err := models.DayOfDate(date)
	if err != nil {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	current, err := l.resolver.Resolve(EntityClass, sectionID, day, slotID, date)
	if err != nil {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, err
	}
	if current == nil {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrNotFound, "nothing scheduled for the section at that slot")
	}
	if current.TeacherID != absentTeacherID {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "absent teacher is not scheduled for the section at that slot")
	}

	override := models.ScheduleEntry{
		Day:            day,
		SlotID:         slotID,
		SectionID:      sectionID,
		TeacherID:      substituteTeacherID,
		Room:           current.Room,
		Subject:        current.Subject,
		Date:           date,
		IsSubstitution: true,
	}
	committed, err := l.store.Upsert(override, false)
	if err != nil {
		return models.SubstitutionRecord{}, models.ScheduleEntry{}, err
	}

	record := models.SubstitutionRecord{
		ID:                  uuid.NewString(),
		Date:                date,
		SlotID:              slotID,
		SectionID:           sectionID,
		AbsentTeacherID:     absentTeacherID,
		SubstituteTeacherID: substituteTeacherID,
		Status:              models.SubstitutionActive,
		CreatedAt:           assignedAt,
	}

	l.mu.Lock()
	l.records[record.ID] = record
	l.mu.Unlock()
	return record, committed, nil
}

// Archive moves a record to its terminal state. The shadow override entry is
// left untouched so past-date resolution keeps returning correct history.
func (l *Ledger) Archive(id string, archivedAt time.Time) (models.SubstitutionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[id]
	if !ok {
		return models.SubstitutionRecord{}, appErrors.Clone(appErrors.ErrNotFound, "substitution record not found")
	}
	if record.IsArchived() {
		return models.SubstitutionRecord{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "substitution record already archived")
	}
	record.Status = models.SubstitutionArchived
	record.ArchivedAt = archivedAt
	l.records[id] = record
	return record, nil
}

// Get returns a record by id.
func (l *Ledger) Get(id string) (models.SubstitutionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.records[id]
	if !ok {
		return models.SubstitutionRecord{}, appErrors.Clone(appErrors.ErrNotFound, "substitution record not found")
	}
	return record, nil
}

// Active returns non-archived records, optionally narrowed to one date.
// Notification and current-duty reporting read this view.
func (l *Ledger) Active(date string) []models.SubstitutionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.SubstitutionRecord
	for _, r := range l.records {
		if r.IsArchived() {
			continue
		}
		if date != "" && r.Date != date {
			continue
		}
		out = append(out, r)
	}
	sortRecords(out)
	return out
}

// All returns every record including archived ones, for audit queries.
func (l *Ledger) All() []models.SubstitutionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.SubstitutionRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	sortRecords(out)
	return out
}

// Load replaces all records with rows loaded from persistence.
func (l *Ledger) Load(records []models.SubstitutionRecord) {
	next := make(map[string]models.SubstitutionRecord, len(records))
	for _, r := range records {
		next[r.ID] = r
	}
	l.mu.Lock()
	l.records = next
	l.mu.Unlock()
}

func sortRecords(records []models.SubstitutionRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.SlotID != b.SlotID {
			return a.SlotID < b.SlotID
		}
		if a.SectionID != b.SectionID {
			return a.SectionID < b.SectionID
		}
		return a.ID < b.ID
	})
}
