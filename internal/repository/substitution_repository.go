package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

// SubstitutionRepository mirrors substitution records to PostgreSQL.
// Records are inserted once and only ever updated to their archived state;
// there is no delete path.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository creates a new substitution repository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

type substitutionRow struct {
	ID                  string     `db:"id"`
	Date                string     `db:"date"`
	SlotID              int        `db:"slot_id"`
	SectionID           string     `db:"section_id"`
	AbsentTeacherID     string     `db:"absent_teacher_id"`
	SubstituteTeacherID string     `db:"substitute_teacher_id"`
	Status              string     `db:"status"`
	CreatedAt           time.Time  `db:"created_at"`
	ArchivedAt          *time.Time `db:"archived_at"`
}

// ListAll returns every substitution record for the startup load.
func (r *SubstitutionRepository) ListAll(ctx context.Context) ([]models.SubstitutionRecord, error) {
	const query = `SELECT id, to_char(sub_date, 'YYYY-MM-DD') AS date, slot_id, section_id, absent_teacher_id, substitute_teacher_id, status, created_at, archived_at FROM substitution_records ORDER BY sub_date, slot_id, section_id`
	var rows []substitutionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list substitution records: %w", err)
	}

	records := make([]models.SubstitutionRecord, 0, len(rows))
	for _, row := range rows {
		record := models.SubstitutionRecord{
			ID:                  row.ID,
			Date:                row.Date,
			SlotID:              row.SlotID,
			SectionID:           row.SectionID,
			AbsentTeacherID:     row.AbsentTeacherID,
			SubstituteTeacherID: row.SubstituteTeacherID,
			Status:              row.Status,
			CreatedAt:           row.CreatedAt,
		}
		if row.ArchivedAt != nil {
			record.ArchivedAt = *row.ArchivedAt
		}
		records = append(records, record)
	}
	return records, nil
}

// Insert writes a new substitution record row.
func (r *SubstitutionRepository) Insert(ctx context.Context, record models.SubstitutionRecord) error {
	const query = `INSERT INTO substitution_records (id, sub_date, slot_id, section_id, absent_teacher_id, substitute_teacher_id, status, created_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.Date, record.SlotID, record.SectionID,
		record.AbsentTeacherID, record.SubstituteTeacherID, record.Status, record.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert substitution record: %w", err)
	}
	return nil
}

// MarkArchived flips a record to its terminal archived state.
func (r *SubstitutionRepository) MarkArchived(ctx context.Context, id string, archivedAt time.Time) error {
	const query = `UPDATE substitution_records SET status = $2, archived_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.SubstitutionArchived, archivedAt); err != nil {
		return fmt.Errorf("archive substitution record: %w", err)
	}
	return nil
}
