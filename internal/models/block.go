package models

// BlockAllocation is one row of a combined block: the teacher, subject and
// room one member section sees while the block is in session.
type BlockAllocation struct {
	TeacherID string `json:"teacher_id"`
	Subject   string `json:"subject"`
	Room      string `json:"room"`
}

// CombinedBlock defines a parallel-teaching arrangement: several sections
// share one period, each taught by its own teacher/subject/room. The block
// itself carries no day/slot binding; schedule entries referencing the block
// by id carry that. Allocations is ordered parallel to SectionIDs, one row
// per member section.
type CombinedBlock struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	SectionIDs  []string          `json:"section_ids"`
	Allocations []BlockAllocation `json:"allocations"`
}

// AllocationForSection returns the allocation row of a member section.
func (b CombinedBlock) AllocationForSection(sectionID string) (BlockAllocation, bool) {
	for i, id := range b.SectionIDs {
		if id == sectionID && i < len(b.Allocations) {
			return b.Allocations[i], true
		}
	}
	return BlockAllocation{}, false
}
