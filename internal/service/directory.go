package service

import (
	"sort"
	"sync"

	"github.com/raqeeb-edu/timetable-api/internal/models"
)

// Directory is the in-memory view of the wings/sections/teachers universe,
// loaded from the directory collaborator at startup. It implements the
// resolver's SectionDirectory and TeacherDirectory interfaces.
type Directory struct {
	mu                sync.RWMutex
	wings             map[string]models.Wing
	sections          map[string]models.Section
	teachers          map[string]models.Teacher
	homeroomBySection map[string]string
	sectionsByTeacher map[string][]string
	loadsByTeacher    map[string][]models.TeacherLoad
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	d := &Directory{}
	d.Replace(nil, nil, nil, nil, nil)
	return d
}

// Replace swaps the whole directory content.
func (d *Directory) Replace(wings []models.Wing, sections []models.Section, teachers []models.Teacher, homerooms []models.Homeroom, loads []models.TeacherLoad) {
	wingMap := make(map[string]models.Wing, len(wings))
	for _, w := range wings {
		wingMap[w.ID] = w
	}
	sectionMap := make(map[string]models.Section, len(sections))
	for _, s := range sections {
		sectionMap[s.ID] = s
	}
	teacherMap := make(map[string]models.Teacher, len(teachers))
	for _, t := range teachers {
		teacherMap[t.ID] = t
	}
	bySection := make(map[string]string, len(homerooms))
	byTeacher := make(map[string][]string)
	for _, h := range homerooms {
		bySection[h.SectionID] = h.TeacherID
		byTeacher[h.TeacherID] = append(byTeacher[h.TeacherID], h.SectionID)
	}
	for _, ids := range byTeacher {
		sort.Strings(ids)
	}
	loadMap := make(map[string][]models.TeacherLoad)
	for _, l := range loads {
		loadMap[l.TeacherID] = append(loadMap[l.TeacherID], l)
	}

	d.mu.Lock()
	d.wings = wingMap
	d.sections = sectionMap
	d.teachers = teacherMap
	d.homeroomBySection = bySection
	d.sectionsByTeacher = byTeacher
	d.loadsByTeacher = loadMap
	d.mu.Unlock()
}

// Wings returns all wings sorted by name.
func (d *Directory) Wings() []models.Wing {
	d.mu.RLock()
	out := make([]models.Wing, 0, len(d.wings))
	for _, w := range d.wings {
		out = append(out, w)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Section returns a section by id.
func (d *Directory) Section(id string) (models.Section, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sections[id]
	return s, ok
}

// Sections returns all sections sorted by name.
func (d *Directory) Sections() []models.Section {
	d.mu.RLock()
	out := make([]models.Section, 0, len(d.sections))
	for _, s := range d.sections {
		out = append(out, s)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Teachers returns all teachers sorted by name.
func (d *Directory) Teachers() []models.Teacher {
	d.mu.RLock()
	out := make([]models.Teacher, 0, len(d.teachers))
	for _, t := range d.teachers {
		out = append(out, t)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Teacher returns a teacher by id.
func (d *Directory) Teacher(id string) (models.Teacher, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.teachers[id]
	return t, ok
}

// HomeroomTeacher returns the class teacher anchored to a section.
func (d *Directory) HomeroomTeacher(sectionID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.homeroomBySection[sectionID]
	return id, ok
}

// HomeroomSections returns the sections a teacher is class teacher of.
func (d *Directory) HomeroomSections(teacherID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sectionsByTeacher[teacherID]
}

// Loads returns a teacher's registered subject loads.
func (d *Directory) Loads(teacherID string) []models.TeacherLoad {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadsByTeacher[teacherID]
}
