package matching

import (
	"strconv"
	"strings"
)

// gradeKind tags a parsed grade token so values are only ever compared
// within the same grading convention.
type gradeKind int

const (
	gradeLetter gradeKind = iota
	gradeNumeric
)

// GradeValue is a grade token parsed into a comparable form: either a
// letter grade on the 9-point scale or a plain numeric score.
type GradeValue struct {
	kind    gradeKind
	ordinal int
	value   float64
}

// letterOrdinals maps the 9-point letter scale to ordinal values where a
// higher ordinal is a better grade (A1 best, F9 worst).
var letterOrdinals = map[string]int{
	"A1": 9,
	"B2": 8,
	"B3": 7,
	"C4": 6,
	"C5": 5,
	"C6": 4,
	"D7": 3,
	"E8": 2,
	"F9": 1,
}

// ParseGrade interprets a free-text grade token. Letter grades are matched
// against the 9-point scale, anything else is treated as a numeric score
// (GPA, percentage or language band). The second return value reports
// whether the token was recognised at all.
func ParseGrade(token string) (GradeValue, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if normalized == "" {
		return GradeValue{}, false
	}

	if ordinal, ok := letterOrdinals[normalized]; ok {
		return GradeValue{kind: gradeLetter, ordinal: ordinal}, true
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return GradeValue{}, false
	}

	return GradeValue{kind: gradeNumeric, value: value}, true
}

// IsNumeric reports whether the value was parsed as a plain numeric score.
func (g GradeValue) IsNumeric() bool {
	return g.kind == gradeNumeric
}

// Meets reports whether the held grade meets or exceeds the minimum.
// Values of different conventions are never comparable and report false.
func (g GradeValue) Meets(minimum GradeValue) bool {
	if g.kind != minimum.kind {
		return false
	}

	if g.kind == gradeLetter {
		return g.ordinal >= minimum.ordinal
	}

	return g.value >= minimum.value
}

// GradeMeets compares two raw grade tokens as held-vs-minimum. Tokens that
// cannot be parsed under any known convention fail conservatively: the bar
// is reported as not met rather than guessed at.
func GradeMeets(held, minimum string) bool {
	heldValue, ok := ParseGrade(held)
	if !ok {
		return false
	}

	minimumValue, ok := ParseGrade(minimum)
	if !ok {
		return false
	}

	return heldValue.Meets(minimumValue)
}
