package timetable

// Engine bundles the core components over one shared store so hosts wire a
// single object. Mutations flow through Store/Registry/Ledger; every read
// path goes through the Resolver.
type Engine struct {
	Store    *Store
	Blocks   *Registry
	Detector *Detector
	Resolver *Resolver
	Ledger   *Ledger
}

// NewEngine assembles an empty engine. Directories may be nil when the host
// has no section/teacher data yet; the implicit duty rule stays dormant
// until they are provided.
func NewEngine(sections SectionDirectory, teachers TeacherDirectory, duty DutyConfig) *Engine {
	store := NewStore()
	blocks := NewRegistry()
	resolver := NewResolver(store, blocks, sections, teachers, duty)
	return &Engine{
		Store:    store,
		Blocks:   blocks,
		Detector: NewDetector(store),
		Resolver: resolver,
		Ledger:   NewLedger(store, resolver),
	}
}
