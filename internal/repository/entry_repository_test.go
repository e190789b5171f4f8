package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEntryRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "day", "slot_id", "section_id", "teacher_id", "room", "subject", "date", "is_substitution", "block_id", "clashing", "created_at", "updated_at"}).
		AddRow("MONDAY:1:7A:base", "MONDAY", 1, "7A", "T1", "R1", "Math", "", false, "", false, time.Now(), time.Now()).
		AddRow("MONDAY:1:7A:2026-08-31", "MONDAY", 1, "7A", "T2", "R1", "Math", "2026-08-31", true, "", false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM schedule_entries ORDER BY day, slot_id, section_id").
		WillReturnRows(rows)

	entries, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsBase())
	assert.Equal(t, "2026-08-31", entries[1].Date)
	assert.True(t, entries[1].IsSubstitution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	mock.ExpectExec("INSERT INTO schedule_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := models.ScheduleEntry{
		ID:        "MONDAY:1:7A:base",
		Day:       "MONDAY",
		SlotID:    1,
		SectionID: "7A",
		TeacherID: "T1",
		Subject:   "Math",
	}
	require.NoError(t, repo.Upsert(context.Background(), &entry))
	assert.False(t, entry.CreatedAt.IsZero())
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE id = $1")).
		WithArgs("MONDAY:1:7A:base").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "MONDAY:1:7A:base"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
