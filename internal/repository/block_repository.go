package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

// BlockRepository mirrors combined-block definitions to PostgreSQL.
type BlockRepository struct {
	db *sqlx.DB
}

// NewBlockRepository creates a new combined-block repository.
func NewBlockRepository(db *sqlx.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

type blockRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	SectionIDs  []byte `db:"section_ids"`
	Allocations []byte `db:"allocations"`
}

// ListAll returns every combined block for the startup load.
func (r *BlockRepository) ListAll(ctx context.Context) ([]models.CombinedBlock, error) {
	const query = `SELECT id, name, section_ids, allocations FROM combined_blocks ORDER BY name`
	var rows []blockRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list combined blocks: %w", err)
	}

	blocks := make([]models.CombinedBlock, 0, len(rows))
	for _, row := range rows {
		block := models.CombinedBlock{ID: row.ID, Name: row.Name}
		if err := json.Unmarshal(row.SectionIDs, &block.SectionIDs); err != nil {
			return nil, fmt.Errorf("decode block %s sections: %w", row.ID, err)
		}
		if err := json.Unmarshal(row.Allocations, &block.Allocations); err != nil {
			return nil, fmt.Errorf("decode block %s allocations: %w", row.ID, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// Upsert writes a block definition row.
func (r *BlockRepository) Upsert(ctx context.Context, block models.CombinedBlock) error {
	sections, err := json.Marshal(block.SectionIDs)
	if err != nil {
		return fmt.Errorf("encode block sections: %w", err)
	}
	allocations, err := json.Marshal(block.Allocations)
	if err != nil {
		return fmt.Errorf("encode block allocations: %w", err)
	}

	const query = `INSERT INTO combined_blocks (id, name, section_ids, allocations)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, section_ids = EXCLUDED.section_ids, allocations = EXCLUDED.allocations`
	if _, err := r.db.ExecContext(ctx, query, block.ID, block.Name, sections, allocations); err != nil {
		return fmt.Errorf("upsert combined block: %w", err)
	}
	return nil
}

// Delete removes a block definition row by id.
func (r *BlockRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM combined_blocks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete combined block: %w", err)
	}
	return nil
}
