package models

import "time"

// Substitution record lifecycle. ARCHIVED is terminal; records are never
// deleted so the ledger keeps serving audit queries.
const (
	SubstitutionCreated  = "CREATED"
	SubstitutionActive   = "ACTIVE"
	SubstitutionArchived = "ARCHIVED"
)

// SubstitutionRecord tracks an absence cover: the absent teacher, the
// substitute standing in, and the date/slot/section being covered. The
// corresponding shadow override entry lives in the schedule store under the
// deterministic entry id for (day, slot, section, date).
type SubstitutionRecord struct {
	ID                  string    `db:"id" json:"id"`
	Date                string    `db:"date" json:"date"`
	SlotID              int       `db:"slot_id" json:"slot_id"`
	SectionID           string    `db:"section_id" json:"section_id"`
	AbsentTeacherID     string    `db:"absent_teacher_id" json:"absent_teacher_id"`
	SubstituteTeacherID string    `db:"substitute_teacher_id" json:"substitute_teacher_id"`
	Status              string    `db:"status" json:"status"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	ArchivedAt          time.Time `db:"archived_at" json:"archived_at,omitempty"`
}

// IsArchived reports whether the record reached its terminal state.
func (r SubstitutionRecord) IsArchived() bool {
	return r.Status == SubstitutionArchived
}
