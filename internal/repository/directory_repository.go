package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

// DirectoryRepository loads the wings/sections/teachers universe the
// resolver's implicit-duty rule consumes. The directory is owned by an
// external collaborator; this repository only reads it.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListWings returns all wings.
func (r *DirectoryRepository) ListWings(ctx context.Context) ([]models.Wing, error) {
	var wings []models.Wing
	if err := r.db.SelectContext(ctx, &wings, `SELECT id, name FROM wings ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list wings: %w", err)
	}
	return wings, nil
}

// ListSections returns all sections.
func (r *DirectoryRepository) ListSections(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, `SELECT id, name, wing_id FROM sections ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListTeachers returns all teachers.
func (r *DirectoryRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, `SELECT id, name, active FROM teachers ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListTeacherLoads returns every registered subject load.
func (r *DirectoryRepository) ListTeacherLoads(ctx context.Context) ([]models.TeacherLoad, error) {
	var loads []models.TeacherLoad
	if err := r.db.SelectContext(ctx, &loads, `SELECT teacher_id, grade, subject FROM teacher_loads ORDER BY teacher_id, grade`); err != nil {
		return nil, fmt.Errorf("list teacher loads: %w", err)
	}
	return loads, nil
}

// ListHomerooms returns every class-teacher relationship.
func (r *DirectoryRepository) ListHomerooms(ctx context.Context) ([]models.Homeroom, error) {
	var homerooms []models.Homeroom
	if err := r.db.SelectContext(ctx, &homerooms, `SELECT section_id, teacher_id FROM homerooms ORDER BY section_id`); err != nil {
		return nil, fmt.Errorf("list homerooms: %w", err)
	}
	return homerooms, nil
}
