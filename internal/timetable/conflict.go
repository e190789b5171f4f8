package timetable

import (
	"strings"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

// Detector reports teacher/room double-bookings for a candidate entry
// against the committed store state. Detection is advisory: the store (and
// the admin UI through it) decides whether a detected clash blocks a commit.
type Detector struct {
	store *Store
}

// NewDetector builds a detector reading from the given store.
func NewDetector(store *Store) *Detector {
	return &Detector{store: store}
}

// Detect returns the committed entries that conflict with the candidate,
// empty when the candidate is clean.
func (d *Detector) Detect(candidate models.ScheduleEntry) []models.ScheduleEntry {
	return DetectAmong(candidate, d.store.EntriesForSlot(candidate.Day, candidate.SlotID))
}

// DetectAmong is the pure detection kernel: it flags every entry in the
// bucket that would double-book the candidate's teacher or room, honouring
// date applicability and the combined-block parallelism exemption. The
// bucket must hold entries of the candidate's own (day, slot).
func DetectAmong(candidate models.ScheduleEntry, bucket []models.ScheduleEntry) []models.ScheduleEntry {
	candidateID := models.EntryID(candidate.Day, candidate.SlotID, candidate.SectionID, candidate.Date)

	var conflicts []models.ScheduleEntry
	for _, e := range bucket {
		if e.ID == candidateID {
			continue
		}
		if !coApplicable(candidate, e, bucket, candidateID) {
			continue
		}
		if sameBlock(candidate, e) {
			continue
		}
		if e.TeacherID == candidate.TeacherID {
			conflicts = append(conflicts, e)
			continue
		}
		if candidate.Room != "" && e.Room != "" && strings.EqualFold(e.Room, candidate.Room) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

// coApplicable reports whether the candidate and an existing entry can both
// be in effect on at least one calendar date. A base entry is in effect
// every week except on dates where an override shadows it for its section.
func coApplicable(candidate, existing models.ScheduleEntry, bucket []models.ScheduleEntry, candidateID string) bool {
	switch {
	case candidate.Date != "" && existing.Date != "":
		return candidate.Date == existing.Date
	case candidate.Date != "" && existing.Date == "":
		// The candidate override itself shadows the base row of its own
		// section for that date.
		if existing.SectionID == candidate.SectionID {
			return false
		}
		return !shadowed(existing.SectionID, candidate.Date, bucket, candidateID)
	case candidate.Date == "" && existing.Date != "":
		return !shadowed(candidate.SectionID, existing.Date, bucket, candidateID)
	default:
		return true
	}
}

// shadowed reports whether an override for the section exists on the date.
func shadowed(sectionID, date string, bucket []models.ScheduleEntry, excludeID string) bool {
	for _, e := range bucket {
		if e.ID == excludeID {
			continue
		}
		if e.Date == date && e.SectionID == sectionID {
			return true
		}
	}
	return false
}

// sameBlock reports the sanctioned-parallelism exemption: both entries
// belong to the same combined block.
func sameBlock(a, b models.ScheduleEntry) bool {
	return a.BlockID != "" && a.BlockID == b.BlockID
}

// DescribeConflicts maps conflicting entries to the advisory payload shown
// to the admin UI, labelling each with the dimension that clashed.
func DescribeConflicts(candidate models.ScheduleEntry, conflicts []models.ScheduleEntry) []models.EntryConflict {
	out := make([]models.EntryConflict, 0, len(conflicts))
	for _, e := range conflicts {
		dimension := models.ConflictRoom
		if e.TeacherID == candidate.TeacherID {
			dimension = models.ConflictTeacher
		}
		out = append(out, models.EntryConflict{
			EntryID:   e.ID,
			Day:       e.Day,
			SlotID:    e.SlotID,
			SectionID: e.SectionID,
			TeacherID: e.TeacherID,
			Room:      e.Room,
			Subject:   e.Subject,
			Date:      e.Date,
			Dimension: dimension,
		})
	}
	return out
}
