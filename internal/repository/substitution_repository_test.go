package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

func TestSubstitutionRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	archivedAt := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "date", "slot_id", "section_id", "absent_teacher_id", "substitute_teacher_id", "status", "created_at", "archived_at"}).
		AddRow("sub-1", "2026-08-31", 3, "9A", "T1", "T2", models.SubstitutionActive, time.Now(), nil).
		AddRow("sub-2", "2026-08-31", 4, "9B", "T3", "T4", models.SubstitutionArchived, time.Now(), archivedAt)
	mock.ExpectQuery("SELECT .+ FROM substitution_records ORDER BY sub_date, slot_id, section_id").
		WillReturnRows(rows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[0].IsArchived())
	assert.True(t, records[0].ArchivedAt.IsZero())
	assert.True(t, records[1].IsArchived())
	assert.Equal(t, archivedAt, records[1].ArchivedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryInsertAndArchive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	record := models.SubstitutionRecord{
		ID:                  "sub-1",
		Date:                "2026-08-31",
		SlotID:              3,
		SectionID:           "9A",
		AbsentTeacherID:     "T1",
		SubstituteTeacherID: "T2",
		Status:              models.SubstitutionActive,
		CreatedAt:           time.Now(),
	}
	mock.ExpectExec("INSERT INTO substitution_records").
		WithArgs(record.ID, record.Date, record.SlotID, record.SectionID, record.AbsentTeacherID, record.SubstituteTeacherID, record.Status, record.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Insert(context.Background(), record))

	archivedAt := time.Now()
	mock.ExpectExec("UPDATE substitution_records SET status =").
		WithArgs("sub-1", models.SubstitutionArchived, archivedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkArchived(context.Background(), "sub-1", archivedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
