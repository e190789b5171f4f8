// Package timetable implements the timetable resolution and conflict
// detection core: an in-memory, deterministic model of the weekly schedule,
// date-scoped overrides, combined parallel-teaching blocks and the
// substitution ledger. The package performs no I/O and never reads a clock;
// callers supply every date explicitly.
package timetable

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type slotKey struct {
	day    string
	slotID int
}

// Store is the authoritative collection of schedule entries. Entries are
// held in per-(day, slot) buckets; every mutation replaces the affected
// bucket with a fresh slice, so a slice handed out by EntriesForSlot is an
// immutable snapshot that concurrent readers can walk without locking.
type Store struct {
	mu      sync.RWMutex
	buckets map[slotKey][]models.ScheduleEntry
	byID    map[string]slotKey
}

// NewStore returns an empty schedule store.
func NewStore() *Store {
	return &Store{
		buckets: make(map[slotKey][]models.ScheduleEntry),
		byID:    make(map[string]slotKey),
	}
}

// Upsert validates the entry, runs conflict detection against the committed
// state and commits it. The entry id is always recomputed from the composite
// key, so a second upsert for the same (day, slot, section, date) replaces
// the first; that keeps the one-base-entry and one-override-entry invariants
// true by construction.
//
// Detected teacher/room clashes are advisory: without acknowledgeConflict
// the upsert is rejected with the conflicting entries attached; with it the
// entry commits tagged Clashing so reporting never loses a known clash.
func (s *Store) Upsert(entry models.ScheduleEntry, acknowledgeConflict bool) (models.ScheduleEntry, error) {
	if err := validateEntry(entry); err != nil {
		return models.ScheduleEntry{}, err
	}
	entry.ID = models.EntryID(entry.Day, entry.SlotID, entry.SectionID, entry.Date)
	entry.Clashing = false

	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{day: entry.Day, slotID: entry.SlotID}
	bucket := s.buckets[key]

	conflicts := DetectAmong(entry, bucket)
	if len(conflicts) > 0 {
		if !acknowledgeConflict {
			return models.ScheduleEntry{}, conflictError(entry, conflicts)
		}
		entry.Clashing = true
	}

	s.commitLocked(key, entry)
	return entry, nil
}

// Remove deletes a base or override entry. Removing an override exposes the
// base entry again for that date; the base is never implicitly removed.
func (s *Store) Remove(id string) (models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byID[id]
	if !ok {
		return models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
	}

	old := s.buckets[key]
	next := make([]models.ScheduleEntry, 0, len(old)-1)
	var removed models.ScheduleEntry
	for _, e := range old {
		if e.ID == id {
			removed = e
			continue
		}
		next = append(next, e)
	}
	if len(next) == 0 {
		delete(s.buckets, key)
	} else {
		s.buckets[key] = next
	}
	delete(s.byID, id)
	return removed, nil
}

// EntriesForSlot returns the immutable snapshot of all entries committed for
// the given (day, slot) across all sections. Callers must not mutate the
// returned slice.
func (s *Store) EntriesForSlot(day string, slotID int) []models.ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets[slotKey{day: strings.ToUpper(day), slotID: slotID}]
}

// Get returns a single entry by id.
func (s *Store) Get(id string) (models.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byID[id]
	if !ok {
		return models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
	}
	for _, e := range s.buckets[key] {
		if e.ID == id {
			return e, nil
		}
	}
	return models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
}

// All returns every committed entry in a stable order: day, slot, section,
// base before overrides.
func (s *Store) All() []models.ScheduleEntry {
	s.mu.RLock()
	entries := make([]models.ScheduleEntry, 0, len(s.byID))
	for _, bucket := range s.buckets {
		entries = append(entries, bucket...)
	}
	s.mu.RUnlock()

	dayOrder := make(map[string]int, len(models.TeachingDays))
	for i, d := range models.TeachingDays {
		dayOrder[d] = i
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Day != b.Day {
			return dayOrder[a.Day] < dayOrder[b.Day]
		}
		if a.SlotID != b.SlotID {
			return a.SlotID < b.SlotID
		}
		if a.SectionID != b.SectionID {
			return a.SectionID < b.SectionID
		}
		return a.Date < b.Date
	})
	return entries
}

// Load replaces the whole store content with rows loaded from persistence.
func (s *Store) Load(entries []models.ScheduleEntry) error {
	buckets := make(map[slotKey][]models.ScheduleEntry)
	byID := make(map[string]slotKey)
	for _, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return fmt.Errorf("load entry %s: %w", entry.ID, err)
		}
		entry.ID = models.EntryID(entry.Day, entry.SlotID, entry.SectionID, entry.Date)
		key := slotKey{day: entry.Day, slotID: entry.SlotID}
		if _, dup := byID[entry.ID]; dup {
			return fmt.Errorf("load entry %s: duplicate composite key", entry.ID)
		}
		buckets[key] = append(buckets[key], entry)
		byID[entry.ID] = key
	}

	s.mu.Lock()
	s.buckets = buckets
	s.byID = byID
	s.mu.Unlock()
	return nil
}

// commitLocked replaces the bucket with a new slice containing the entry.
// Caller holds the write lock.
func (s *Store) commitLocked(key slotKey, entry models.ScheduleEntry) {
	old := s.buckets[key]
	next := make([]models.ScheduleEntry, 0, len(old)+1)
	for _, e := range old {
		if e.ID == entry.ID {
			continue
		}
		next = append(next, e)
	}
	next = append(next, entry)
	s.buckets[key] = next
	s.byID[entry.ID] = key
}

func validateEntry(e models.ScheduleEntry) error {
	var issues []string
	if !models.IsTeachingDay(e.Day) {
		issues = append(issues, "day")
	}
	if e.SlotID < 1 {
		issues = append(issues, "slot_id")
	}
	if e.SectionID == "" {
		issues = append(issues, "section_id")
	}
	if e.TeacherID == "" {
		issues = append(issues, "teacher_id")
	}
	if e.Subject == "" {
		issues = append(issues, "subject")
	}
	if e.Date != "" {
		day, err := models.DayOfDate(e.Date)
		if err != nil || day != e.Day {
			issues = append(issues, "date")
		}
	}
	if len(issues) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "invalid schedule entry: "+strings.Join(issues, ", "))
	}
	return nil
}

func conflictError(candidate models.ScheduleEntry, conflicts []models.ScheduleEntry) error {
	detail := &models.EntryConflictError{
		Message:   fmt.Sprintf("entry %s double-books a teacher or room", models.EntryID(candidate.Day, candidate.SlotID, candidate.SectionID, candidate.Date)),
		Conflicts: DescribeConflicts(candidate, conflicts),
	}
	return appErrors.Wrap(detail, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, detail.Message)
}
