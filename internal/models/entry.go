package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekdays of the 5-day teaching week, in timetable order.
const (
	Monday    = "MONDAY"
	Tuesday   = "TUESDAY"
	Wednesday = "WEDNESDAY"
	Thursday  = "THURSDAY"
	Friday    = "FRIDAY"
)

// TeachingDays lists the teaching week in order.
var TeachingDays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

// DateLayout is the calendar-date format used on override entries.
const DateLayout = "2006-01-02"

// IsTeachingDay reports whether day is one of the five teaching weekdays.
func IsTeachingDay(day string) bool {
	switch day {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// DayOfDate returns the teaching weekday for a calendar date, or an error
// when the date is malformed or falls on a weekend.
func DayOfDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	switch t.Weekday() {
	case time.Monday:
		return Monday, nil
	case time.Tuesday:
		return Tuesday, nil
	case time.Wednesday:
		return Wednesday, nil
	case time.Thursday:
		return Thursday, nil
	case time.Friday:
		return Friday, nil
	}
	return "", fmt.Errorf("date %s falls outside the teaching week", date)
}

// ScheduleEntry is one occupancy of a (day, slot) pair. A blank Date marks a
// recurring base entry; a set Date marks an override that shadows the base
// entry for that calendar date only.
type ScheduleEntry struct {
	ID             string    `db:"id" json:"id"`
	Day            string    `db:"day" json:"day"`
	SlotID         int       `db:"slot_id" json:"slot_id"`
	SectionID      string    `db:"section_id" json:"section_id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	Room           string    `db:"room" json:"room"`
	Subject        string    `db:"subject" json:"subject"`
	Date           string    `db:"date" json:"date,omitempty"`
	IsSubstitution bool      `db:"is_substitution" json:"is_substitution"`
	BlockID        string    `db:"block_id" json:"block_id,omitempty"`
	Clashing       bool      `db:"clashing" json:"clashing"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// IsBase reports whether the entry is a recurring (non-dated) entry.
func (e ScheduleEntry) IsBase() bool {
	return e.Date == ""
}

// EntryID derives the deterministic composite key for a schedule entry.
// Base and override rows for the same section slot differ only in the date
// segment, so re-upserting the same logical row is idempotent.
func EntryID(day string, slotID int, sectionID, date string) string {
	segment := date
	if segment == "" {
		segment = "base"
	}
	return fmt.Sprintf("%s:%d:%s:%s", strings.ToUpper(day), slotID, sectionID, segment)
}

// EntryFilter describes query params for listing schedule entries.
type EntryFilter struct {
	Day       string
	SlotID    int
	SectionID string
	TeacherID string
	Room      string
	Date      string
	BaseOnly  bool
}

// EntryConflict describes an existing entry that double-books the candidate.
type EntryConflict struct {
	EntryID   string `json:"entry_id"`
	Day       string `json:"day"`
	SlotID    int    `json:"slot_id"`
	SectionID string `json:"section_id"`
	TeacherID string `json:"teacher_id"`
	Room      string `json:"room"`
	Subject   string `json:"subject"`
	Date      string `json:"date,omitempty"`
	Dimension string `json:"dimension"`
}

// Conflict dimensions reported by the detector.
const (
	ConflictTeacher = "TEACHER"
	ConflictRoom    = "ROOM"
)

// EntryConflictError is returned when a candidate entry collides with
// committed entries and the caller did not acknowledge the clash.
type EntryConflictError struct {
	Message   string          `json:"message"`
	Conflicts []EntryConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *EntryConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
