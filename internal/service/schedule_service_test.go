package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

type stubEntryMirror struct {
	upserts   []models.ScheduleEntry
	deletes   []string
	upsertErr error
	deleteErr error
}

func (m *stubEntryMirror) Upsert(_ context.Context, entry *models.ScheduleEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, *entry)
	return nil
}

func (m *stubEntryMirror) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, id)
	return nil
}

func newScheduleFixture(t *testing.T) (*ScheduleService, *timetable.Engine, *stubEntryMirror) {
	t.Helper()
	engine := timetable.NewEngine(nil, nil, timetable.DefaultDutyConfig())
	mirror := &stubEntryMirror{}
	svc := NewScheduleService(engine, mirror, nil, nil, nil)
	return svc, engine, mirror
}

func validUpsertRequest() UpsertEntryRequest {
	return UpsertEntryRequest{
		Day:       "monday",
		SlotID:    3,
		SectionID: "9A",
		TeacherID: "T1",
		Subject:   "Mathematics",
		Room:      "R4",
	}
}

func TestScheduleServiceUpsert(t *testing.T) {
	svc, engine, mirror := newScheduleFixture(t)

	committed, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)
	assert.Equal(t, "MONDAY:3:9A:base", committed.ID)

	require.Len(t, mirror.upserts, 1)
	assert.Equal(t, committed.ID, mirror.upserts[0].ID)

	stored, err := engine.Store.Get(committed.ID)
	require.NoError(t, err)
	assert.Equal(t, "T1", stored.TeacherID)
}

func TestScheduleServiceUpsertValidation(t *testing.T) {
	svc, _, mirror := newScheduleFixture(t)

	req := validUpsertRequest()
	req.Subject = ""
	_, err := svc.Upsert(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, mirror.upserts)
}

func TestScheduleServiceUpsertUnknownBlock(t *testing.T) {
	svc, _, _ := newScheduleFixture(t)

	req := validUpsertRequest()
	req.BlockID = "missing"
	_, err := svc.Upsert(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceUpsertConflict(t *testing.T) {
	svc, _, mirror := newScheduleFixture(t)

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	clashing := validUpsertRequest()
	clashing.SectionID = "9B"
	_, err = svc.Upsert(context.Background(), clashing)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, mirror.upserts, 1)

	clashing.AcknowledgeConflict = true
	committed, err := svc.Upsert(context.Background(), clashing)
	require.NoError(t, err)
	assert.True(t, committed.Clashing)
	assert.Len(t, mirror.upserts, 2)
}

func TestScheduleServiceUpsertMirrorFailure(t *testing.T) {
	svc, engine, mirror := newScheduleFixture(t)
	mirror.upsertErr = errors.New("db down")

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)

	// the core keeps the entry; a retry with a healthy mirror re-persists it
	_, err = engine.Store.Get("MONDAY:3:9A:base")
	require.NoError(t, err)

	mirror.upsertErr = nil
	_, err = svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)
	require.Len(t, mirror.upserts, 1)
}

func TestScheduleServiceCheckDoesNotCommit(t *testing.T) {
	svc, engine, _ := newScheduleFixture(t)

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	probe := validUpsertRequest()
	probe.SectionID = "9B"
	conflicts, err := svc.Check(context.Background(), probe)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTeacher, conflicts[0].Dimension)

	assert.Len(t, engine.Store.All(), 1)
}

func TestScheduleServiceRemove(t *testing.T) {
	svc, engine, mirror := newScheduleFixture(t)

	committed, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), committed.ID))
	assert.Equal(t, []string{committed.ID}, mirror.deletes)
	assert.Empty(t, engine.Store.All())

	err = svc.Remove(context.Background(), committed.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceListFilters(t *testing.T) {
	svc, _, _ := newScheduleFixture(t)

	seed := []UpsertEntryRequest{
		{Day: "MONDAY", SlotID: 1, SectionID: "7A", TeacherID: "T1", Subject: "Math", Room: "R1"},
		{Day: "MONDAY", SlotID: 2, SectionID: "7A", TeacherID: "T2", Subject: "Physics"},
		{Day: "TUESDAY", SlotID: 1, SectionID: "7B", TeacherID: "T1", Subject: "Math"},
	}
	for _, req := range seed {
		_, err := svc.Upsert(context.Background(), req)
		require.NoError(t, err)
	}

	entries, pagination, err := svc.List(context.Background(), models.EntryFilter{TeacherID: "T1"}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, pagination.TotalCount)

	entries, _, err = svc.List(context.Background(), models.EntryFilter{Day: "monday", SlotID: 2}, 1, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "T2", entries[0].TeacherID)

	entries, pagination, err = svc.List(context.Background(), models.EntryFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 3, pagination.TotalCount)
}
