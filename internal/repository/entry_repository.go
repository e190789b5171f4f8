package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

const entryColumns = `id, day, slot_id, section_id, teacher_id, room, subject, COALESCE(to_char(entry_date, 'YYYY-MM-DD'), '') AS date, is_substitution, COALESCE(block_id, '') AS block_id, clashing, created_at, updated_at`

// EntryRepository mirrors schedule entries to PostgreSQL. The in-memory
// store is the source of truth for conflict checking; rows here exist so the
// engine can be reloaded at startup. Writes use the deterministic entry id,
// so retrying a failed mirror is idempotent.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new schedule entry repository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ListAll returns every schedule entry row for the startup load.
func (r *EntryRepository) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries ORDER BY day, slot_id, section_id", entryColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// Upsert writes an entry row keyed by its deterministic id.
func (r *EntryRepository) Upsert(ctx context.Context, entry *models.ScheduleEntry) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO schedule_entries (id, day, slot_id, section_id, teacher_id, room, subject, entry_date, is_substitution, block_id, clashing, created_at, updated_at)
		VALUES (:id, :day, :slot_id, :section_id, :teacher_id, :room, :subject, NULLIF(:date, '')::date, :is_substitution, NULLIF(:block_id, ''), :clashing, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			teacher_id = EXCLUDED.teacher_id,
			room = EXCLUDED.room,
			subject = EXCLUDED.subject,
			is_substitution = EXCLUDED.is_substitution,
			block_id = EXCLUDED.block_id,
			clashing = EXCLUDED.clashing,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert schedule entry: %w", err)
	}
	return nil
}

// Delete removes an entry row by id.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
