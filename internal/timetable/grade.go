package timetable

import (
	"strings"
	"unicode"
)

var romanGrades = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
	"XI": 11, "XII": 12,
}

// ParseGrade extracts the grade ordinal from a section name's grade-code
// prefix. Both roman ("IV A", "IX-B") and decimal ("9A", "10 B") prefixes
// are recognised.
func ParseGrade(sectionName string) (int, bool) {
	name := strings.TrimSpace(sectionName)
	if name == "" {
		return 0, false
	}

	cut := len(name)
	for i, r := range name {
		if r == ' ' || r == '-' {
			cut = i
			break
		}
	}
	prefix := name[:cut]

	if grade, ok := romanGrades[strings.ToUpper(prefix)]; ok {
		return grade, true
	}

	digits := 0
	for _, r := range prefix {
		if !unicode.IsDigit(r) {
			break
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	grade := 0
	for _, r := range prefix[:digits] {
		grade = grade*10 + int(r-'0')
	}
	if grade == 0 {
		return 0, false
	}
	return grade, true
}
