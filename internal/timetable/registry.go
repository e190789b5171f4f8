package timetable

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/raqeeb-edu/timetable-api/internal/models"
	appErrors "github.com/raqeeb-edu/timetable-api/pkg/errors"
)

// Registry owns the combined-block definitions. Schedule entries reference a
// block by id only; the registry is the single place a block's allocations
// live, so editing a block never leaves stale copies behind.
type Registry struct {
	mu     sync.RWMutex
	blocks map[string]models.CombinedBlock
}

// NewRegistry returns an empty combined-block registry.
func NewRegistry() *Registry {
	return &Registry{blocks: make(map[string]models.CombinedBlock)}
}

// Define validates and registers a block, generating an id when absent.
// A block must carry exactly one allocation row per member section.
func (r *Registry) Define(block models.CombinedBlock) (models.CombinedBlock, error) {
	var issues []string
	if block.Name == "" {
		issues = append(issues, "name")
	}
	if len(block.SectionIDs) == 0 {
		issues = append(issues, "section_ids")
	}
	if len(block.Allocations) != len(block.SectionIDs) {
		issues = append(issues, "allocations")
	}
	seen := make(map[string]struct{}, len(block.SectionIDs))
	for _, id := range block.SectionIDs {
		if id == "" {
			issues = append(issues, "section_ids")
			break
		}
		if _, dup := seen[id]; dup {
			issues = append(issues, "section_ids")
			break
		}
		seen[id] = struct{}{}
	}
	for _, alloc := range block.Allocations {
		if alloc.TeacherID == "" || alloc.Subject == "" {
			issues = append(issues, "allocations")
			break
		}
	}
	if len(issues) > 0 {
		return models.CombinedBlock{}, appErrors.Clone(appErrors.ErrValidation, "invalid combined block: "+strings.Join(dedupe(issues), ", "))
	}

	if block.ID == "" {
		block.ID = uuid.NewString()
	}

	r.mu.Lock()
	r.blocks[block.ID] = block
	r.mu.Unlock()
	return block, nil
}

// Get returns a block definition by id.
func (r *Registry) Get(id string) (models.CombinedBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	block, ok := r.blocks[id]
	if !ok {
		return models.CombinedBlock{}, appErrors.Clone(appErrors.ErrNotFound, "combined block not found")
	}
	return block, nil
}

// List returns all block definitions.
func (r *Registry) List() []models.CombinedBlock {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.CombinedBlock, 0, len(r.blocks))
	for _, b := range r.blocks {
		out = append(out, b)
	}
	return out
}

// Remove deletes a block definition.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "combined block not found")
	}
	delete(r.blocks, id)
	return nil
}

// AllocationFor returns the allocation row a query entity sees inside a
// block, together with the member section that row belongs to. For CLASS
// queries the entity is a member section; for STAFF and ROOM queries the
// entity must appear in an allocation row.
func (r *Registry) AllocationFor(blockID string, entity EntityType, entityID string) (models.BlockAllocation, string, error) {
	r.mu.RLock()
	block, ok := r.blocks[blockID]
	r.mu.RUnlock()
	if !ok {
		return models.BlockAllocation{}, "", appErrors.Clone(appErrors.ErrNotFound, "combined block not found")
	}

	switch entity {
	case EntityClass:
		if alloc, ok := block.AllocationForSection(entityID); ok {
			return alloc, entityID, nil
		}
	case EntityStaff:
		for i, alloc := range block.Allocations {
			if alloc.TeacherID == entityID && i < len(block.SectionIDs) {
				return alloc, block.SectionIDs[i], nil
			}
		}
	case EntityRoom:
		for i, alloc := range block.Allocations {
			if alloc.Room != "" && strings.EqualFold(alloc.Room, entityID) && i < len(block.SectionIDs) {
				return alloc, block.SectionIDs[i], nil
			}
		}
	}
	return models.BlockAllocation{}, "", appErrors.Clone(appErrors.ErrNotFound, "entity not allocated in block")
}

// Load replaces all block definitions with rows loaded from persistence.
func (r *Registry) Load(blocks []models.CombinedBlock) {
	next := make(map[string]models.CombinedBlock, len(blocks))
	for _, b := range blocks {
		next[b.ID] = b
	}
	r.mu.Lock()
	r.blocks = next
	r.mu.Unlock()
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
