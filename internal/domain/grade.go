package domain

import (
	"fmt"
	"strings"
)

// Grade is the learner's self-assessment submitted after reviewing a card.
type Grade string

// The closed set of grades a learner may submit.
const (
	GradeWrong   Grade = "wrong"
	GradeHard    Grade = "hard"
	GradeCorrect Grade = "correct"
	GradeEasy    Grade = "easy"
)

// Difficulty ratings run from 1 (easiest) to 4 (hardest).
const (
	MinDifficulty = 1.0
	MaxDifficulty = 4.0
)

// ParseGrade converts client input into a Grade. Matching ignores case and
// surrounding whitespace; anything else is rejected rather than coerced.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

// Valid reports whether g is one of the recognized grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeWrong, GradeHard, GradeCorrect, GradeEasy:
		return true
	default:
		return false
	}
}

// Rating maps a grade to its difficulty rating: Easy=1, Correct=2, Hard=3, Wrong=4.
// It returns 0 for an unrecognized grade.
func (g Grade) Rating() int {
	switch g {
	case GradeEasy:
		return 1
	case GradeCorrect:
		return 2
	case GradeHard:
		return 3
	case GradeWrong:
		return 4
	default:
		return 0
	}
}

// Recalled reports whether the grade counts as a successful recall.
func (g Grade) Recalled() bool {
	return g != GradeWrong
}
