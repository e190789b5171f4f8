package models

// Wing is a top-level organizational unit grouping grades, e.g. "Primary".
type Wing struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Section is one class group within a grade, e.g. "IX A". The grade code is
// carried as a prefix of the section name ("IV A", "9A").
type Section struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	WingID string `db:"wing_id" json:"wing_id"`
}

// Teacher is a directory row consumed by the resolver's implicit-duty rule.
type Teacher struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// TeacherLoad is one registered subject load of a teacher for a grade.
type TeacherLoad struct {
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	Grade     int    `db:"grade" json:"grade"`
	Subject   string `db:"subject" json:"subject"`
}

// Homeroom anchors a class teacher to a section.
type Homeroom struct {
	SectionID string `db:"section_id" json:"section_id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
}
