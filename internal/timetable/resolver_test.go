package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type stubSections map[string]models.Section

func (s stubSections) Section(id string) (models.Section, bool) {
	section, ok := s[id]
	return section, ok
}

type stubTeachers struct {
	homerooms map[string]string
	loads     map[string][]models.TeacherLoad
}

func (s *stubTeachers) HomeroomTeacher(sectionID string) (string, bool) {
	teacherID, ok := s.homerooms[sectionID]
	return teacherID, ok
}

func (s *stubTeachers) HomeroomSections(teacherID string) []string {
	var out []string
	for sectionID, id := range s.homerooms {
		if id == teacherID {
			out = append(out, sectionID)
		}
	}
	return out
}

func (s *stubTeachers) Loads(teacherID string) []models.TeacherLoad {
	return s.loads[teacherID]
}

func testDirectories() (stubSections, *stubTeachers) {
	sections := stubSections{
		"4A":  {ID: "4A", Name: "IV A"},
		"7A":  {ID: "7A", Name: "VII A"},
		"9A":  {ID: "9A", Name: "IX A"},
		"9B":  {ID: "9B", Name: "IX B"},
		"11A": {ID: "11A", Name: "XI A"},
	}
	teachers := &stubTeachers{
		homerooms: map[string]string{
			"4A":  "T4",
			"7A":  "T7",
			"11A": "T11",
		},
		loads: map[string][]models.TeacherLoad{
			"T4": {
				{TeacherID: "T4", Grade: 4, Subject: "English"},
				{TeacherID: "T4", Grade: 5, Subject: "History"},
			},
			"T7": {
				{TeacherID: "T7", Grade: 8, Subject: "Geography"},
			},
		},
	}
	return sections, teachers
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	sections, teachers := testDirectories()
	return NewEngine(sections, teachers, DefaultDutyConfig())
}

func TestResolveValidation(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Resolver.Resolve("PERSON", "T1", models.Monday, 1, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = engine.Resolver.Resolve(EntityClass, "", models.Monday, 1, "")
	require.Error(t, err)

	_, err = engine.Resolver.Resolve(EntityClass, "7A", models.Tuesday, 1, "2026-08-31")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// weekend date
	_, err = engine.Resolver.Resolve(EntityClass, "7A", "", 1, "2026-09-05")
	require.Error(t, err)

	_, err = engine.Resolver.Resolve(EntityClass, "7A", models.Monday, 0, "")
	require.Error(t, err)
}

func TestResolveDerivesDayFromDate(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Store.Upsert(baseEntry(models.Monday, 2, "9A", "T1"), false)
	require.NoError(t, err)

	resolved, err := engine.Resolver.Resolve(EntityClass, "9A", "", 2, "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceBase, resolved.Source)
}

func TestResolveBaseEntry(t *testing.T) {
	engine := newTestEngine(t)

	committed, err := engine.Store.Upsert(baseEntry(models.Monday, 3, "9A", "T1"), false)
	require.NoError(t, err)

	resolved, err := engine.Resolver.Resolve(EntityClass, "9A", models.Monday, 3, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceBase, resolved.Source)
	assert.Equal(t, committed.ID, resolved.ID)

	// the same entry from the teacher's perspective
	resolved, err = engine.Resolver.Resolve(EntityStaff, "T1", models.Monday, 3, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "9A", resolved.SectionID)
}

func TestResolveOverrideShadowsBase(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Store.Upsert(baseEntry(models.Monday, 3, "9A", "T1"), false)
	require.NoError(t, err)

	override := baseEntry(models.Monday, 3, "9A", "T2")
	override.Subject = "Exam"
	override.Date = "2026-08-31"
	_, err = engine.Store.Upsert(override, false)
	require.NoError(t, err)

	resolved, err := engine.Resolver.Resolve(EntityClass, "9A", models.Monday, 3, "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceOverride, resolved.Source)
	assert.Equal(t, "T2", resolved.TeacherID)

	// a week later the base is back in effect
	resolved, err = engine.Resolver.Resolve(EntityClass, "9A", models.Monday, 3, "2026-09-07")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceBase, resolved.Source)
	assert.Equal(t, "T1", resolved.TeacherID)
}

func TestResolveShadowedTeacherIsFree(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Store.Upsert(baseEntry(models.Monday, 3, "9A", "T1"), false)
	require.NoError(t, err)

	override := baseEntry(models.Monday, 3, "9A", "T2")
	override.Date = "2026-08-31"
	_, err = engine.Store.Upsert(override, false)
	require.NoError(t, err)

	// T1's base lesson is shadowed on the override date, so T1 resolves free.
	resolved, err := engine.Resolver.Resolve(EntityStaff, "T1", models.Monday, 3, "2026-08-31")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveBlockExpansion(t *testing.T) {
	engine := newTestEngine(t)

	block, err := engine.Blocks.Define(models.CombinedBlock{
		Name:       "Grade 9 electives",
		SectionIDs: []string{"9A", "9B"},
		Allocations: []models.BlockAllocation{
			{TeacherID: "T1", Subject: "French", Room: "R1"},
			{TeacherID: "T2", Subject: "German", Room: "R2"},
		},
	})
	require.NoError(t, err)

	for _, sectionID := range block.SectionIDs {
		entry := baseEntry(models.Thursday, 5, sectionID, "ignored")
		alloc, _ := block.AllocationForSection(sectionID)
		entry.TeacherID = alloc.TeacherID
		entry.Room = alloc.Room
		entry.Subject = alloc.Subject
		entry.BlockID = block.ID
		_, err = engine.Store.Upsert(entry, false)
		require.NoError(t, err)
	}

	// the class sees its own allocation row
	resolved, err := engine.Resolver.Resolve(EntityClass, "9B", models.Thursday, 5, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceBlock, resolved.Source)
	assert.Equal(t, "T2", resolved.TeacherID)
	assert.Equal(t, "German", resolved.Subject)

	// the teacher is routed to the member section they teach
	resolved, err = engine.Resolver.Resolve(EntityStaff, "T2", models.Thursday, 5, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceBlock, resolved.Source)
	assert.Equal(t, "9B", resolved.SectionID)

	// the room answers with its occupant
	resolved, err = engine.Resolver.Resolve(EntityRoom, "r1", models.Thursday, 5, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "9A", resolved.SectionID)
	assert.Equal(t, "T1", resolved.TeacherID)
}

func TestResolveImplicitHomeroomDuty(t *testing.T) {
	engine := newTestEngine(t)

	// nothing scheduled: first period of an eligible grade falls to the
	// class teacher
	resolved, err := engine.Resolver.Resolve(EntityClass, "4A", models.Monday, 1, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceHomeroomDuty, resolved.Source)
	assert.Equal(t, "T4", resolved.TeacherID)
	assert.Equal(t, "English", resolved.Subject)

	// from the teacher's side
	resolved, err = engine.Resolver.Resolve(EntityStaff, "T4", models.Monday, 1, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceHomeroomDuty, resolved.Source)
	assert.Equal(t, "4A", resolved.SectionID)
}

func TestResolveDutyFallbackSubject(t *testing.T) {
	engine := newTestEngine(t)

	// T7 has no load registered for grade 7, so the configured fallback wins.
	resolved, err := engine.Resolver.Resolve(EntityClass, "7A", models.Tuesday, 1, "")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, SourceHomeroomDuty, resolved.Source)
	assert.Equal(t, "Homeroom", resolved.Subject)
}

func TestResolveDutySkipsIneligibleGrade(t *testing.T) {
	engine := newTestEngine(t)

	// grade XI is above the configured homeroom range
	resolved, err := engine.Resolver.Resolve(EntityClass, "11A", models.Monday, 1, "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveDutySkipsOccupiedParties(t *testing.T) {
	engine := newTestEngine(t)

	// the class teacher of 4A already teaches 7A at slot 1
	_, err := engine.Store.Upsert(baseEntry(models.Monday, 1, "7A", "T4"), false)
	require.NoError(t, err)

	resolved, err := engine.Resolver.Resolve(EntityClass, "4A", models.Monday, 1, "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveDutyOnlyFirstSlot(t *testing.T) {
	engine := newTestEngine(t)

	resolved, err := engine.Resolver.Resolve(EntityClass, "4A", models.Monday, 2, "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveFree(t *testing.T) {
	engine := newTestEngine(t)

	resolved, err := engine.Resolver.Resolve(EntityRoom, "Lab-9", models.Friday, 8, "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveWithoutDirectoriesSkipsDuty(t *testing.T) {
	engine := NewEngine(nil, nil, DefaultDutyConfig())

	resolved, err := engine.Resolver.Resolve(EntityClass, "4A", models.Monday, 1, "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
