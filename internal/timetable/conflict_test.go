package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

func TestDetectAmongTeacherClash(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:7A:base", Day: models.Monday, SlotID: 1, SectionID: "7A", TeacherID: "T1", Subject: "Math"},
	}
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "7B", TeacherID: "T1", Subject: "Physics"}

	conflicts := DetectAmong(candidate, bucket)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "7A", conflicts[0].SectionID)
}

func TestDetectAmongSymmetric(t *testing.T) {
	a := models.ScheduleEntry{ID: models.EntryID(models.Monday, 1, "7A", ""), Day: models.Monday, SlotID: 1, SectionID: "7A", TeacherID: "T1", Subject: "Math"}
	b := models.ScheduleEntry{ID: models.EntryID(models.Monday, 1, "7B", ""), Day: models.Monday, SlotID: 1, SectionID: "7B", TeacherID: "T1", Subject: "Physics"}

	assert.Len(t, DetectAmong(a, []models.ScheduleEntry{b}), 1)
	assert.Len(t, DetectAmong(b, []models.ScheduleEntry{a}), 1)
}

func TestDetectAmongRoomClashCaseInsensitive(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:8A:base", Day: models.Monday, SlotID: 1, SectionID: "8A", TeacherID: "T1", Room: "LAB-2", Subject: "Chemistry"},
	}
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "8B", TeacherID: "T2", Room: "lab-2", Subject: "Biology"}

	assert.Len(t, DetectAmong(candidate, bucket), 1)
}

func TestDetectAmongEmptyRoomNeverClashes(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:8A:base", Day: models.Monday, SlotID: 1, SectionID: "8A", TeacherID: "T1", Room: "", Subject: "PE"},
	}
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "8B", TeacherID: "T2", Room: "", Subject: "PE"}

	assert.Empty(t, DetectAmong(candidate, bucket))
}

func TestDetectAmongSameBlockExempt(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:9A:base", Day: models.Monday, SlotID: 1, SectionID: "9A", TeacherID: "T1", Room: "Hall", Subject: "Art", BlockID: "blk-1"},
	}
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "9B", TeacherID: "T1", Room: "Hall", Subject: "Music", BlockID: "blk-1"}

	assert.Empty(t, DetectAmong(candidate, bucket))
}

func TestDetectAmongDifferentBlocksStillClash(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:9A:base", Day: models.Monday, SlotID: 1, SectionID: "9A", TeacherID: "T1", Subject: "Art", BlockID: "blk-1"},
	}
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "9B", TeacherID: "T1", Subject: "Music", BlockID: "blk-2"}

	assert.Len(t, DetectAmong(candidate, bucket), 1)
}

func TestDetectAmongOverridesOnDifferentDates(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:7A:2026-08-31", Day: models.Monday, SlotID: 1, SectionID: "7A", TeacherID: "T1", Subject: "Math", Date: "2026-08-31"},
	}
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "7B", TeacherID: "T1", Subject: "Math", Date: "2026-09-07"}

	// Same weekday slot, different calendar dates, never simultaneous.
	assert.Empty(t, DetectAmong(candidate, bucket))
}

func TestDetectAmongBaseIgnoredWhenShadowed(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:7B:base", Day: models.Monday, SlotID: 1, SectionID: "7B", TeacherID: "T1", Subject: "Math"},
		{ID: "MONDAY:1:7B:2026-08-31", Day: models.Monday, SlotID: 1, SectionID: "7B", TeacherID: "T5", Subject: "History", Date: "2026-08-31"},
	}
	// T1's base lesson for 7B is shadowed on 2026-08-31, so T1 is free to
	// cover 7A that date.
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "7A", TeacherID: "T1", Subject: "Math", Date: "2026-08-31"}

	assert.Empty(t, DetectAmong(candidate, bucket))
}

func TestDetectAmongBaseCandidateAgainstOverride(t *testing.T) {
	bucket := []models.ScheduleEntry{
		{ID: "MONDAY:1:7B:2026-08-31", Day: models.Monday, SlotID: 1, SectionID: "7B", TeacherID: "T1", Subject: "History", Date: "2026-08-31"},
	}
	// A new recurring base lesson for 7A with T1 collides with the override
	// on its date because 7A has no override of its own shadowing it there.
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "7A", TeacherID: "T1", Subject: "Math"}

	assert.Len(t, DetectAmong(candidate, bucket), 1)
}

func TestDetectorReadsStore(t *testing.T) {
	store := NewStore()
	_, err := store.Upsert(baseEntry(models.Wednesday, 3, "7A", "T1"), false)
	require.NoError(t, err)

	detector := NewDetector(store)
	candidate := baseEntry(models.Wednesday, 3, "7B", "T1")
	assert.Len(t, detector.Detect(candidate), 1)

	clean := baseEntry(models.Wednesday, 3, "7B", "T2")
	assert.Empty(t, detector.Detect(clean))
}

func TestDescribeConflictsDimensions(t *testing.T) {
	candidate := models.ScheduleEntry{Day: models.Monday, SlotID: 1, SectionID: "7A", TeacherID: "T1", Room: "R1"}
	conflicts := []models.ScheduleEntry{
		{ID: "a", SectionID: "7B", TeacherID: "T1", Room: "R9"},
		{ID: "b", SectionID: "7C", TeacherID: "T2", Room: "R1"},
	}

	described := DescribeConflicts(candidate, conflicts)
	require.Len(t, described, 2)
	assert.Equal(t, models.ConflictTeacher, described[0].Dimension)
	assert.Equal(t, models.ConflictRoom, described[1].Dimension)
}
