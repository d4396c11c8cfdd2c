package domain

import (
	"errors"
	"testing"
)

func TestParseGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Grade
		wantErr bool
	}{
		{"easy", GradeEasy, false},
		{"Correct", GradeCorrect, false},
		{" HARD ", GradeHard, false},
		{"wrong", GradeWrong, false},
		{"good", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGrade(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGrade) {
					t.Fatalf("expected ErrInvalidGrade, got %v", err)
				}
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected error to be an invalid argument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseGrade(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGradeRating(t *testing.T) {
	t.Parallel()

	want := map[Grade]int{
		GradeEasy:    1,
		GradeCorrect: 2,
		GradeHard:    3,
		GradeWrong:   4,
		Grade("meh"): 0,
	}
	for g, rating := range want {
		if got := g.Rating(); got != rating {
			t.Errorf("%q.Rating() = %d, want %d", g, got, rating)
		}
	}

	if GradeWrong.Recalled() {
		t.Error("wrong must not count as recalled")
	}
	if !GradeHard.Recalled() {
		t.Error("hard must count as recalled")
	}
}
