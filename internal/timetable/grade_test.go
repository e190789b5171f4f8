package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGrade(t *testing.T) {
	cases := []struct {
		name  string
		grade int
		ok    bool
	}{
		{"IV A", 4, true},
		{"IX-B", 9, true},
		{"x c", 10, true},
		{"XII A", 12, true},
		{"9A", 9, true},
		{"10 B", 10, true},
		{"7-A", 7, true},
		{"Kindergarten", 0, false},
		{"", 0, false},
		{"  ", 0, false},
	}
	for _, tc := range cases {
		grade, ok := ParseGrade(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.grade, grade, tc.name)
	}
}
